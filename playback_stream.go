package pulseaudio

import (
	"fmt"
	"sync"
)

// PlaybackBufferAttr mirrors the four buffer-size fields the server
// negotiates at stream creation and may renegotiate later.
type PlaybackBufferAttr struct {
	MaxLength      uint32
	TargetLength   uint32
	PreBuffering   uint32
	MinimumRequest uint32
}

// PlaybackStream is a long-lived outbound PCM stream with server-
// granted credit-based flow control, per spec.md §4.5. The zero value
// is not usable; obtain one from Client.CreatePlaybackStream.
type PlaybackStream struct {
	disp  *dispatcher
	index uint32

	SinkInputIndex uint32
	FrameSize      uint32
	SampleSpec     SampleSpec
	ChannelMap     []uint8
	Attr           PlaybackBufferAttr

	mu           sync.Mutex
	credit       uint32
	queue        [][]byte
	queuedBytes  uint32
	remaining    uint64
	unlimited    bool
	continuation func()
	listener     func(StreamEvent)
	closed       bool
}

func newPlaybackStream(disp *dispatcher, index, sinkInputIndex, frameSize uint32, spec SampleSpec, chmap []uint8, attr PlaybackBufferAttr, initialCredit uint32, remaining uint64, unlimited bool) *PlaybackStream {
	return &PlaybackStream{
		disp:           disp,
		index:          index,
		SinkInputIndex: sinkInputIndex,
		FrameSize:      frameSize,
		SampleSpec:     spec,
		ChannelMap:     chmap,
		Attr:           attr,
		credit:         initialCredit,
		remaining:      remaining,
		unlimited:      unlimited,
	}
}

// Index is the server-assigned stream index.
func (ps *PlaybackStream) Index() uint32 { return ps.index }

// OnEvent installs the callback that receives stream-event
// notifications (started, suspended, moved, buffer, overflow,
// underflow, killed, generic event). There is one slot; a later call
// replaces the previous listener.
func (ps *PlaybackStream) OnEvent(fn func(StreamEvent)) {
	ps.mu.Lock()
	ps.listener = fn
	ps.mu.Unlock()
}

// WhenReady installs the single-slot producer continuation spec.md
// §4.5 describes: it fires the next time a shipment attempt leaves
// credit unused, ships nothing while data is still queued, or leaves
// the stream at its configured length cap. A later call replaces an
// unfired continuation.
func (ps *PlaybackStream) WhenReady(fn func()) {
	ps.mu.Lock()
	ps.continuation = fn
	ps.mu.Unlock()
}

// Write enqueues data for transmission and attempts to ship
// immediately against any outstanding credit. It returns
// ErrDisconnected if the stream has already been torn down.
func (ps *PlaybackStream) Write(data []byte) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.closed {
		return ErrDisconnected
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	ps.queue = append(ps.queue, cp)
	ps.queuedBytes += uint32(len(cp))
	return ps.shipLocked()
}

// handleServerCommand processes a server->client command for this
// stream; the dispatcher has already consumed the leading index field
// from buf.
func (ps *PlaybackStream) handleServerCommand(cmd Command, buf *Buffer) error {
	switch cmd {
	case CommandRequest:
		requested, err := buf.GetU32()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		ps.mu.Lock()
		ps.credit += requested
		err2 := ps.shipLocked()
		ps.mu.Unlock()
		ps.emit(StreamEvent{Kind: StreamEventRequest, RequestedBytes: requested})
		return err2

	case CommandOverflow:
		ps.emit(StreamEvent{Kind: StreamEventOverflow})
		return nil

	case CommandUnderflow:
		offset, err := buf.GetS64()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		ps.emit(StreamEvent{Kind: StreamEventUnderflow, UnderflowOffset: offset})
		return nil

	case CommandStarted:
		ps.emit(StreamEvent{Kind: StreamEventStarted})
		return nil

	case CommandPlaybackStreamSuspended:
		ps.emit(StreamEvent{Kind: StreamEventSuspended})
		return nil

	case CommandPlaybackStreamMoved:
		sinkIndex, err := buf.GetU32()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		sinkName, _, err := buf.GetString()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		if _, err := buf.GetBool(); err != nil { // suspended flag of the new sink; not retained
			return &ProtocolError{Err: err}
		}
		attr, err := readPlaybackBufferAttr(buf)
		if err != nil {
			return err
		}
		ps.mu.Lock()
		ps.Attr = attr
		ps.mu.Unlock()
		ps.emit(StreamEvent{Kind: StreamEventMoved, SinkOrSourceIndex: sinkIndex, SinkOrSourceName: sinkName, BufferAttr: attr})
		return nil

	case CommandPlaybackBufferAttrChanged:
		attr, err := readPlaybackBufferAttr(buf)
		if err != nil {
			return err
		}
		ps.mu.Lock()
		ps.Attr = attr
		ps.mu.Unlock()
		ps.emit(StreamEvent{Kind: StreamEventBufferAttr, BufferAttr: attr})
		return nil

	case CommandPlaybackStreamEvent:
		name, _, err := buf.GetString()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		props, err := buf.GetProps()
		if err != nil {
			return &ProtocolError{Err: err}
		}
		ps.emit(StreamEvent{Kind: StreamEventGeneric, Name: name, Props: props})
		return nil

	case CommandPlaybackStreamKilled:
		ps.fail(fmt.Errorf("pulseaudio: playback stream %d killed by server", ps.index))
		ps.disp.unregisterPlaybackStreamLocked(ps.index)
		return nil

	default:
		return &ProtocolError{Err: fmt.Errorf("unexpected command %s for playback stream", cmd)}
	}
}

func readPlaybackBufferAttr(buf *Buffer) (PlaybackBufferAttr, error) {
	maxLength, err := buf.GetU32()
	if err != nil {
		return PlaybackBufferAttr{}, &ProtocolError{Err: err}
	}
	targetLength, err := buf.GetU32()
	if err != nil {
		return PlaybackBufferAttr{}, &ProtocolError{Err: err}
	}
	preBuffering, err := buf.GetU32()
	if err != nil {
		return PlaybackBufferAttr{}, &ProtocolError{Err: err}
	}
	minimumRequest, err := buf.GetU32()
	if err != nil {
		return PlaybackBufferAttr{}, &ProtocolError{Err: err}
	}
	return PlaybackBufferAttr{
		MaxLength:      maxLength,
		TargetLength:   targetLength,
		PreBuffering:   preBuffering,
		MinimumRequest: minimumRequest,
	}, nil
}

// shipLocked implements spec.md §4.5 steps 2-4. Caller must hold ps.mu;
// it is released while the continuation runs.
func (ps *PlaybackStream) shipLocked() error {
	shippable := minU32(ps.queuedBytes, ps.credit)
	if ps.FrameSize > 0 {
		shippable -= shippable % ps.FrameSize
	}

	var shipped uint32
	if shippable > 0 {
		data := ps.takeFromQueueLocked(shippable)
		if err := ps.disp.writeFrame(ps.index, data); err != nil {
			return err
		}
		ps.credit -= shippable
		if !ps.unlimited {
			if uint64(shippable) >= ps.remaining {
				ps.remaining = 0
			} else {
				ps.remaining -= uint64(shippable)
			}
		}
		shipped = shippable
	}

	condA := ps.credit > 0
	condB := shipped == 0 && ps.queuedBytes > 0
	condC := !ps.unlimited && ps.remaining == 0
	if condA || condB || condC {
		if cont := ps.continuation; cont != nil {
			ps.continuation = nil
			// Release the lock for the producer callback so it may call
			// Write or WhenReady without deadlocking.
			ps.mu.Unlock()
			cont()
			ps.mu.Lock()
		}
	}
	return nil
}

// takeFromQueueLocked removes exactly n bytes from the queue head,
// splitting the head chunk if n falls inside it. Caller must hold
// ps.mu and n must not exceed ps.queuedBytes.
func (ps *PlaybackStream) takeFromQueueLocked(n uint32) []byte {
	out := make([]byte, 0, n)
	for n > 0 {
		head := ps.queue[0]
		if uint32(len(head)) <= n {
			out = append(out, head...)
			n -= uint32(len(head))
			ps.queue = ps.queue[1:]
		} else {
			out = append(out, head[:n]...)
			ps.queue[0] = head[n:]
			n = 0
		}
	}
	ps.queuedBytes -= uint32(len(out))
	return out
}

// Drain issues DRAIN_PLAYBACK_STREAM and blocks until the server
// confirms it has consumed all buffered data.
func (ps *PlaybackStream) Drain() error {
	_, err := ps.disp.call(CommandDrainPlaybackStream, func(b *Buffer) { b.AddU32(ps.index) })
	return err
}

// Cork pauses or resumes playback.
func (ps *PlaybackStream) Cork(corked bool) error {
	_, err := ps.disp.call(CommandCorkPlaybackStream, func(b *Buffer) {
		b.AddU32(ps.index)
		b.AddBool(corked)
	})
	return err
}

// Flush discards any data the server has buffered but not yet played.
func (ps *PlaybackStream) Flush() error {
	_, err := ps.disp.call(CommandFlushPlaybackStream, func(b *Buffer) { b.AddU32(ps.index) })
	return err
}

// Trigger requests immediate playback of prebuffered data.
func (ps *PlaybackStream) Trigger() error {
	_, err := ps.disp.call(CommandTriggerPlaybackStream, func(b *Buffer) { b.AddU32(ps.index) })
	return err
}

// Close deletes the stream server-side and releases local resources.
// Per spec.md §9 (Open Question 1), a NOENTITY reply is the documented
// case of "already gone"; some servers reply EXIST instead, which this
// client also tolerates, logging a warning.
func (ps *PlaybackStream) Close() error {
	ps.disp.unregisterPlaybackStream(ps.index)
	_, err := ps.disp.call(CommandDeletePlaybackStream, func(b *Buffer) { b.AddU32(ps.index) })
	if err != nil && errIsAlreadyGone(err) {
		ps.disp.log.Warn("playback stream delete: server reports already gone", "index", ps.index, "err", err)
		err = nil
	}
	ps.fail(ErrDisconnected)
	return err
}

func (ps *PlaybackStream) emit(ev StreamEvent) {
	ps.mu.Lock()
	listener := ps.listener
	ps.mu.Unlock()
	if listener != nil {
		listener(ev)
	}
}

// fail tears the stream down locally: it is how a killed event or a
// connection loss is surfaced to a blocked producer.
func (ps *PlaybackStream) fail(err error) {
	ps.mu.Lock()
	if ps.closed {
		ps.mu.Unlock()
		return
	}
	ps.closed = true
	cont := ps.continuation
	ps.continuation = nil
	listener := ps.listener
	ps.mu.Unlock()

	if cont != nil {
		cont()
	}
	if listener != nil {
		listener(StreamEvent{Kind: StreamEventKilled, Name: err.Error()})
	}
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
