package pulseaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeSubscribeEvent covers spec.md §8 scenario 7: U32=0x12
// (facility=sink_input, operation=change) with index 5.
func TestDecodeSubscribeEvent(t *testing.T) {
	ev, err := decodeSubscribeEvent(5, 0x12)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), ev.Index)
	assert.Equal(t, FacilitySinkInput, ev.Facility)
	assert.Equal(t, OperationChange, ev.Operation)
}

func TestDecodeSubscribeEventAllOperations(t *testing.T) {
	tests := []struct {
		name    string
		code    uint32
		wantFac Facility
		wantOp  Operation
	}{
		{"sink new", 0x00, FacilitySink, OperationNew},
		{"source change", 0x11, FacilitySource, OperationChange},
		{"card remove", 0x29, FacilityCard, OperationRemove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := decodeSubscribeEvent(0, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFac, ev.Facility)
			assert.Equal(t, tt.wantOp, ev.Operation)
		})
	}
}

func TestDecodeSubscribeEventUnknownFacility(t *testing.T) {
	_, err := decodeSubscribeEvent(0, 0x0F)
	assert.Error(t, err)
}

func TestDecodeSubscribeEventUnknownOperation(t *testing.T) {
	_, err := decodeSubscribeEvent(0, 0x30)
	assert.Error(t, err)
}

func TestFacilityString(t *testing.T) {
	assert.Equal(t, "sink_input", FacilitySinkInput.String())
	assert.Contains(t, Facility(99).String(), "facility(99)")
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "change", OperationChange.String())
	assert.Contains(t, Operation(99).String(), "operation(99)")
}

func TestEventBusSubscribeAndEmit(t *testing.T) {
	bus := newEventBus()

	var gotAll, gotSink, gotChange, gotSinkChange []SubscribeEvent
	bus.Subscribe("event", func(ev SubscribeEvent) { gotAll = append(gotAll, ev) })
	bus.Subscribe("event.sink", func(ev SubscribeEvent) { gotSink = append(gotSink, ev) })
	bus.Subscribe("event.change", func(ev SubscribeEvent) { gotChange = append(gotChange, ev) })
	bus.Subscribe("event.sink.change", func(ev SubscribeEvent) { gotSinkChange = append(gotSinkChange, ev) })

	ev := SubscribeEvent{Index: 1, Facility: FacilitySink, Operation: OperationChange}
	bus.emit(ev)

	assert.Equal(t, []SubscribeEvent{ev}, gotAll)
	assert.Equal(t, []SubscribeEvent{ev}, gotSink)
	assert.Equal(t, []SubscribeEvent{ev}, gotChange)
	assert.Equal(t, []SubscribeEvent{ev}, gotSinkChange)
}

func TestEventBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := newEventBus()
	var count int
	unsub := bus.Subscribe("event", func(SubscribeEvent) { count++ })

	bus.emit(SubscribeEvent{Facility: FacilitySink, Operation: OperationNew})
	assert.Equal(t, 1, count)

	unsub()
	bus.emit(SubscribeEvent{Facility: FacilitySink, Operation: OperationNew})
	assert.Equal(t, 1, count, "no further delivery after unsubscribe")
}

func TestEventBusFirstAndLastCallbacks(t *testing.T) {
	bus := newEventBus()
	var firstCalls, lastCalls int
	bus.onFirstSubscriber = func() { firstCalls++ }
	bus.onLastUnsubscribe = func() { lastCalls++ }

	unsubA := bus.Subscribe("event", func(SubscribeEvent) {})
	unsubB := bus.Subscribe("event.sink", func(SubscribeEvent) {})
	assert.Equal(t, 1, firstCalls, "only the very first subscriber across all patterns fires onFirstSubscriber")

	unsubA()
	assert.Equal(t, 0, lastCalls, "one listener remains")

	unsubB()
	assert.Equal(t, 1, lastCalls)
}
