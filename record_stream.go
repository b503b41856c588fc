package pulseaudio

import (
	"fmt"
	"sync"
)

// RecordConsumer receives inbound PCM bytes from a RecordStream. It
// returns false to signal "buffer full", which pauses delivery until
// the stream is set running again, per spec.md §4.6.
type RecordConsumer func([]byte) bool

// RecordStream is a long-lived inbound PCM stream, pulled by the
// consumer rather than pushed without bound: the consumer decides when
// it is ready by calling SetRunning(true), and may apply backpressure
// by having its RecordConsumer return false.
type RecordStream struct {
	disp  *dispatcher
	index uint32

	SourceOutputIndex uint32
	SampleSpec        SampleSpec
	ChannelMap        []uint8

	mu        sync.Mutex
	remaining uint64
	unlimited bool
	running   bool
	consumer  RecordConsumer
	listener  func(StreamEvent)
	closed    bool
}

func newRecordStream(disp *dispatcher, index, sourceOutputIndex uint32, spec SampleSpec, chmap []uint8, remaining uint64, unlimited bool) *RecordStream {
	return &RecordStream{
		disp:              disp,
		index:             index,
		SourceOutputIndex: sourceOutputIndex,
		SampleSpec:        spec,
		ChannelMap:        chmap,
		remaining:         remaining,
		unlimited:         unlimited,
	}
}

// Index is the server-assigned stream index.
func (rs *RecordStream) Index() uint32 { return rs.index }

// OnEvent installs the callback that receives stream-event
// notifications.
func (rs *RecordStream) OnEvent(fn func(StreamEvent)) {
	rs.mu.Lock()
	rs.listener = fn
	rs.mu.Unlock()
}

// SetConsumer installs the callback that receives inbound PCM bytes.
func (rs *RecordStream) SetConsumer(fn RecordConsumer) {
	rs.mu.Lock()
	rs.consumer = fn
	rs.mu.Unlock()
}

// SetRunning starts or pauses inbound delivery. A consumer that paused
// itself by returning false from RecordConsumer must call
// SetRunning(true) to resume.
func (rs *RecordStream) SetRunning(running bool) {
	rs.mu.Lock()
	rs.running = running
	rs.mu.Unlock()
}

// deliver is called by the dispatcher's main loop when a memory block
// addressed to this stream's channel arrives.
func (rs *RecordStream) deliver(body []byte) {
	rs.mu.Lock()
	if rs.closed || !rs.running {
		rs.mu.Unlock()
		return
	}

	n := len(body)
	if !rs.unlimited && uint64(n) > rs.remaining {
		n = int(rs.remaining)
	}
	if n == 0 {
		rs.mu.Unlock()
		return
	}
	chunk := body[:n]

	consumer := rs.consumer
	accepted := true
	if consumer != nil {
		// Release the lock for the user callback so it may call
		// SetRunning or other stream methods without deadlocking.
		rs.mu.Unlock()
		accepted = consumer(chunk)
		rs.mu.Lock()
	}

	var overrun, capReached bool
	if !accepted {
		rs.running = false
		overrun = true
	}
	if !rs.unlimited {
		if uint64(n) >= rs.remaining {
			rs.remaining = 0
			capReached = true
		} else {
			rs.remaining -= uint64(n)
		}
	}
	listener := rs.listener
	rs.mu.Unlock()

	if overrun && listener != nil {
		listener(StreamEvent{Kind: StreamEventOverrun, DroppedBytes: len(body) - n})
	}
	if capReached {
		rs.disp.unregisterRecordStreamLocked(rs.index)
		if listener != nil {
			listener(StreamEvent{Kind: StreamEventCapReached, DroppedBytes: len(body) - n})
		}
	}
}

// handleServerCommand processes a server->client command for this
// stream; the dispatcher has already consumed the leading index field
// from buf.
func (rs *RecordStream) handleServerCommand(cmd Command, buf *Buffer) error {
	switch cmd {
	case CommandRecordStreamSuspended:
		rs.emit(StreamEvent{Kind: StreamEventSuspended})
		return nil

	case CommandRecordStreamMoved:
		sourceIndex, err := buf.GetU32()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		sourceName, _, err := buf.GetString()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		if _, err := buf.GetBool(); err != nil { // suspended flag of the new source
			return &ProtocolError{Err: err}
		}
		rs.emit(StreamEvent{Kind: StreamEventMoved, SinkOrSourceIndex: sourceIndex, SinkOrSourceName: sourceName})
		return nil

	case CommandRecordBufferAttrChanged:
		rs.emit(StreamEvent{Kind: StreamEventBufferAttr})
		return nil

	case CommandRecordStreamEvent:
		name, _, err := buf.GetString()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		props, err := buf.GetProps()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		rs.emit(StreamEvent{Kind: StreamEventGeneric, Name: name, Props: props})
		return nil

	case CommandRecordStreamKilled:
		rs.fail(fmt.Errorf("pulseaudio: record stream %d killed by server", rs.index))
		rs.disp.unregisterRecordStreamLocked(rs.index)
		return nil

	default:
		return &ProtocolError{Err: fmt.Errorf("unexpected command %s for record stream", cmd)}
	}
}

// Cork pauses or resumes the server side of capture.
func (rs *RecordStream) Cork(corked bool) error {
	_, err := rs.disp.call(CommandCorkRecordStream, func(b *Buffer) {
		b.AddU32(rs.index)
		b.AddBool(corked)
	})
	return err
}

// Flush discards any data the server has buffered but not yet
// delivered.
func (rs *RecordStream) Flush() error {
	_, err := rs.disp.call(CommandFlushRecordStream, func(b *Buffer) { b.AddU32(rs.index) })
	return err
}

// Close deletes the stream server-side and releases local resources.
func (rs *RecordStream) Close() error {
	rs.disp.unregisterRecordStream(rs.index)
	_, err := rs.disp.call(CommandDeleteRecordStream, func(b *Buffer) { b.AddU32(rs.index) })
	if err != nil && errIsAlreadyGone(err) {
		rs.disp.log.Warn("record stream delete: server reports already gone", "index", rs.index, "err", err)
		err = nil
	}
	rs.fail(ErrDisconnected)
	return err
}

func (rs *RecordStream) emit(ev StreamEvent) {
	rs.mu.Lock()
	listener := rs.listener
	rs.mu.Unlock()
	if listener != nil {
		listener(ev)
	}
}

func (rs *RecordStream) fail(err error) {
	rs.mu.Lock()
	if rs.closed {
		rs.mu.Unlock()
		return
	}
	rs.closed = true
	listener := rs.listener
	rs.mu.Unlock()

	if listener != nil {
		listener(StreamEvent{Kind: StreamEventKilled, Name: err.Error()})
	}
}
