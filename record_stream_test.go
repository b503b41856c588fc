package pulseaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecordStream(remaining uint64, unlimited bool) (*RecordStream, *dispatcher) {
	d := newBareDispatcher(newFakeConn())
	rs := newRecordStream(d, 1, 1, SampleSpec{}, nil, remaining, unlimited)
	d.registerRecordStreamLocked(1, rs)
	return rs, d
}

func TestRecordStreamDropsWhenNotRunning(t *testing.T) {
	rs, _ := newTestRecordStream(0, true)

	var delivered []byte
	rs.SetConsumer(func(b []byte) bool { delivered = append(delivered, b...); return true })
	rs.deliver([]byte{1, 2, 3})

	assert.Nil(t, delivered, "delivery must be dropped while not running")
}

func TestRecordStreamDeliversWhileRunning(t *testing.T) {
	rs, _ := newTestRecordStream(0, true)
	rs.SetRunning(true)

	var delivered []byte
	rs.SetConsumer(func(b []byte) bool { delivered = append(delivered, b...); return true })
	rs.deliver([]byte{1, 2, 3})

	assert.Equal(t, []byte{1, 2, 3}, delivered)
}

// TestRecordStreamCapsDeliveryAtRemaining ensures a capped stream never
// delivers more than the bytes remaining under its budget.
func TestRecordStreamCapsDeliveryAtRemaining(t *testing.T) {
	rs, _ := newTestRecordStream(2, false)
	rs.SetRunning(true)

	var delivered []byte
	rs.SetConsumer(func(b []byte) bool { delivered = append(delivered, b...); return true })
	rs.deliver([]byte{1, 2, 3, 4})

	assert.Equal(t, []byte{1, 2}, delivered)
}

// TestRecordStreamOverrunStopsRunningWithoutEnding covers DESIGN.md's
// Open Question 3 decision: a consumer reporting "buffer full" pauses
// the stream and emits an overrun, but the stream stays open.
func TestRecordStreamOverrunStopsRunningWithoutEnding(t *testing.T) {
	rs, d := newTestRecordStream(0, true)
	rs.SetRunning(true)

	var kinds []StreamEventKind
	rs.OnEvent(func(ev StreamEvent) { kinds = append(kinds, ev.Kind) })
	rs.SetConsumer(func(b []byte) bool { return false })

	rs.deliver([]byte{1, 2, 3})

	require.Contains(t, kinds, StreamEventOverrun)
	rs.mu.Lock()
	assert.False(t, rs.running)
	rs.mu.Unlock()
	_, stillRegistered := d.record[rs.index]
	assert.True(t, stillRegistered, "overrun does not end the stream")
}

// TestRecordStreamCapReachedEndsStream covers the distinct cap-reached
// path: remaining hits zero and the stream is unregistered.
func TestRecordStreamCapReachedEndsStream(t *testing.T) {
	rs, d := newTestRecordStream(3, false)
	rs.SetRunning(true)

	var kinds []StreamEventKind
	rs.OnEvent(func(ev StreamEvent) { kinds = append(kinds, ev.Kind) })
	rs.SetConsumer(func(b []byte) bool { return true })

	rs.deliver([]byte{1, 2, 3})

	assert.Contains(t, kinds, StreamEventCapReached)
	assert.NotContains(t, kinds, StreamEventOverrun)
	_, stillRegistered := d.record[rs.index]
	assert.False(t, stillRegistered)
}

func TestRecordStreamKilledEmitsEventAndUnregisters(t *testing.T) {
	rs, d := newTestRecordStream(0, true)

	var kind StreamEventKind
	rs.OnEvent(func(ev StreamEvent) { kind = ev.Kind })

	require.NoError(t, rs.handleServerCommand(CommandRecordStreamKilled, NewBuffer()))
	assert.Equal(t, StreamEventKilled, kind)
	_, stillRegistered := d.record[rs.index]
	assert.False(t, stillRegistered)
}

func TestRecordStreamSetRunningResumesDelivery(t *testing.T) {
	rs, _ := newTestRecordStream(0, true)

	var delivered []byte
	rs.SetConsumer(func(b []byte) bool { delivered = append(delivered, b...); return true })

	rs.deliver([]byte{1})
	assert.Nil(t, delivered)

	rs.SetRunning(true)
	rs.deliver([]byte{2})
	assert.Equal(t, []byte{2}, delivered)
}
