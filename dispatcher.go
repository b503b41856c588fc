package pulseaudio

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// requestJob is one outgoing call, handed to the dispatcher's main
// loop over a channel so that tag allocation, request-table
// bookkeeping, and the write itself all happen from the single
// goroutine that also processes incoming packets — no locking needed
// anywhere in that state, per spec.md §4.4.
type requestJob struct {
	cmd      Command
	args     *Buffer
	resultCh chan requestResult
}

// packetMsg is one decoded incoming packet, or a terminal read error,
// handed from the reader goroutine to the main loop.
type packetMsg struct {
	header Header
	body   []byte
	err    error
}

// registryJob queues a mutation of the playback/record/upload stream
// maps onto the main loop, so those maps keep the request table's
// single-writer discipline instead of being touched from whatever
// goroutine happens to call Create*Stream or Close/Finish.
type registryJob struct {
	fn   func()
	done chan struct{}
}

// dispatcher owns the connection and runs the single-threaded
// reactor spec.md §4.4 describes: one goroutine does nothing but
// blocking reads off the wire and forwards decoded packets over a
// channel; a second goroutine — the only one that ever touches the
// request table, the event bus, or the stream registries — selects
// between that channel and a channel of outgoing requests. Grounded
// on lawl/pulseaudio's Client.processPackets, restructured so the
// blocking I/O lives in its own goroutine instead of being threaded
// through io.CopyN against a shared buffer.
type dispatcher struct {
	conn io.ReadWriteCloser
	log  *log.Logger

	tags     tagGenerator
	requests *requestTable
	events   *eventBus

	playback map[uint32]*PlaybackStream
	record   map[uint32]*RecordStream
	upload   map[uint32]*UploadStream

	jobs        chan requestJob
	packets     chan packetMsg
	registryOps chan registryJob
	done        chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// writeFrame serializes one packet onto the transport. It is called
// both from the main loop (command requests) and directly from stream
// producer goroutines (memory-block shipment), so the actual byte
// write is guarded by a mutex even though protocol bookkeeping is not.
func (d *dispatcher) writeFrame(channel uint32, body []byte) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return writePacket(d.conn, channel, body)
}

func newDispatcher(conn io.ReadWriteCloser, logger *log.Logger) *dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	d := &dispatcher{
		conn:     conn,
		log:      logger,
		requests: newRequestTable(),
		events:   newEventBus(),
		playback: make(map[uint32]*PlaybackStream),
		record:   make(map[uint32]*RecordStream),
		upload:   make(map[uint32]*UploadStream),
		jobs:        make(chan requestJob),
		packets:     make(chan packetMsg, 32),
		registryOps: make(chan registryJob),
		done:        make(chan struct{}),
	}
	d.events.onFirstSubscriber = func() {
		go func() {
			if _, err := d.call(CommandSubscribe, func(b *Buffer) { b.AddU32(SubscriptionMaskAll) }); err != nil {
				d.log.Warn("subscribe failed", "err", err)
			}
		}()
	}
	d.events.onLastUnsubscribe = func() {
		go func() {
			if _, err := d.call(CommandSubscribe, func(b *Buffer) { b.AddU32(SubscriptionMaskNull) }); err != nil {
				d.log.Warn("unsubscribe failed", "err", err)
			}
		}()
	}
	go d.readLoop()
	go d.mainLoop()
	return d
}

func (d *dispatcher) readLoop() {
	for {
		h, body, err := readPacket(d.conn)
		if err != nil {
			d.packets <- packetMsg{err: err}
			return
		}
		d.packets <- packetMsg{header: h, body: body}
	}
}

func (d *dispatcher) mainLoop() {
	for {
		select {
		case job := <-d.jobs:
			d.handleJob(job)
		case rj := <-d.registryOps:
			rj.fn()
			close(rj.done)
		case pm := <-d.packets:
			if pm.err != nil {
				d.shutdown(&FramingError{Err: pm.err})
				return
			}
			d.handlePacket(pm.header, pm.body)
		case <-d.done:
			return
		}
	}
}

// runOnMainLoop executes fn on the main-loop goroutine and waits for
// it to finish, so callers on any other goroutine can safely read or
// write the playback/record/upload maps. Must never be called from
// the main loop itself (it would deadlock); code that already runs
// there mutates those maps directly through the *Locked helpers.
func (d *dispatcher) runOnMainLoop(fn func()) {
	done := make(chan struct{})
	select {
	case d.registryOps <- registryJob{fn: fn, done: done}:
	case <-d.done:
		return
	}
	select {
	case <-done:
	case <-d.done:
	}
}

func (d *dispatcher) handleJob(job requestJob) {
	tag := d.tags.allocate()
	pkt := NewBuffer()
	pkt.AddU32(uint32(job.cmd))
	pkt.AddU32(tag)
	if job.args != nil {
		pkt.putBytes(job.args.Bytes())
	}

	d.requests.registerChan(tag, job.cmd, job.resultCh)
	if err := d.writeFrame(NoIndex, pkt.Bytes()); err != nil {
		d.requests.fail(tag, err)
	}
}

// call sends a command built by build (nil for a bodyless command) and
// blocks for its reply. It is safe to call from any goroutine.
func (d *dispatcher) call(cmd Command, build func(*Buffer)) (*Buffer, error) {
	var args *Buffer
	if build != nil {
		args = NewBuffer()
		build(args)
	}

	resultCh := make(chan requestResult, 1)
	job := requestJob{cmd: cmd, args: args, resultCh: resultCh}

	select {
	case d.jobs <- job:
	case <-d.done:
		return nil, ErrDisconnected
	}

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		return res.reply, nil
	case <-d.done:
		return nil, ErrDisconnected
	}
}

func (d *dispatcher) handlePacket(h Header, body []byte) {
	if h.IsMemoryBlock() {
		rs, ok := d.record[h.Channel]
		if !ok {
			d.log.Debug("memory block for unknown record stream", "channel", h.Channel)
			return
		}
		rs.deliver(body)
		return
	}

	buf := NewBufferFromBytes(body)
	cmdU32, err := buf.GetU32()
	if err != nil {
		d.shutdown(&FramingError{Err: err})
		return
	}
	cmd := Command(cmdU32)

	switch cmd {
	case CommandReply:
		tag, err := buf.GetU32()
		if err != nil {
			d.shutdown(&ProtocolError{Err: err})
			return
		}
		if !d.requests.complete(tag, buf) {
			d.log.Warn("reply for unknown tag", "tag", tag)
		}

	case CommandError:
		tag, err := buf.GetU32()
		if err != nil {
			d.shutdown(&ProtocolError{Err: err})
			return
		}
		codeRaw, err := buf.GetU32()
		if err != nil {
			d.shutdown(&ProtocolError{Err: err})
			return
		}
		if !d.requests.failWithCode(tag, ErrorCode(codeRaw)) {
			d.log.Warn("error reply for unknown tag", "tag", tag, "code", ErrorCode(codeRaw))
		}

	case CommandSubscribeEvent:
		d.handleSubscribeEvent(buf)

	case CommandRequest, CommandOverflow, CommandUnderflow, CommandStarted,
		CommandPlaybackStreamSuspended, CommandPlaybackStreamMoved,
		CommandPlaybackStreamKilled, CommandPlaybackBufferAttrChanged,
		CommandPlaybackStreamEvent:
		d.handlePlaybackStreamCommand(cmd, buf)

	case CommandRecordStreamSuspended, CommandRecordStreamMoved,
		CommandRecordStreamKilled, CommandRecordBufferAttrChanged,
		CommandRecordStreamEvent:
		d.handleRecordStreamCommand(cmd, buf)

	default:
		d.shutdown(&ProtocolError{Err: fmt.Errorf("unexpected server->client command %s", cmd)})
	}
}

func (d *dispatcher) handleSubscribeEvent(buf *Buffer) {
	eventCode, err := buf.GetU32()
	if err != nil {
		d.shutdown(&ProtocolError{Err: err})
		return
	}
	index, err := buf.GetU32()
	if err != nil {
		d.shutdown(&ProtocolError{Err: err})
		return
	}
	ev, err := decodeSubscribeEvent(index, eventCode)
	if err != nil {
		d.log.Warn("dropping unparseable subscribe event", "err", err)
		return
	}
	d.events.emit(ev)
}

// handlePlaybackStreamCommand routes a server→client playback-stream
// notification to the stream registered under its leading index, per
// spec.md §4.5.
func (d *dispatcher) handlePlaybackStreamCommand(cmd Command, buf *Buffer) {
	index, err := buf.GetU32()
	if err != nil {
		d.shutdown(&ProtocolError{Err: err})
		return
	}
	ps, ok := d.playback[index]
	if !ok {
		d.log.Debug("event for unknown playback stream", "index", index, "cmd", cmd)
		return
	}
	if err := ps.handleServerCommand(cmd, buf); err != nil {
		d.shutdown(err)
	}
}

// handleRecordStreamCommand is the record-stream symmetric case.
func (d *dispatcher) handleRecordStreamCommand(cmd Command, buf *Buffer) {
	index, err := buf.GetU32()
	if err != nil {
		d.shutdown(&ProtocolError{Err: err})
		return
	}
	rs, ok := d.record[index]
	if !ok {
		d.log.Debug("event for unknown record stream", "index", index, "cmd", cmd)
		return
	}
	if err := rs.handleServerCommand(cmd, buf); err != nil {
		d.shutdown(err)
	}
}

// registerPlaybackStream and its siblings below are the cross-goroutine-
// safe entry points: Create*Stream and Close/Finish call these from
// whatever goroutine the caller is on, and they hop onto the main loop
// before touching the map. Code that is already running on the main
// loop (the Killed-command handlers, record delivery's cap-reached
// path) must call the *Locked variant directly instead — routing
// through here from the main loop would deadlock.
func (d *dispatcher) registerPlaybackStream(index uint32, ps *PlaybackStream) {
	d.runOnMainLoop(func() { d.registerPlaybackStreamLocked(index, ps) })
}

func (d *dispatcher) unregisterPlaybackStream(index uint32) {
	d.runOnMainLoop(func() { d.unregisterPlaybackStreamLocked(index) })
}

func (d *dispatcher) registerPlaybackStreamLocked(index uint32, ps *PlaybackStream) {
	d.playback[index] = ps
}

func (d *dispatcher) unregisterPlaybackStreamLocked(index uint32) {
	delete(d.playback, index)
}

func (d *dispatcher) registerRecordStream(index uint32, rs *RecordStream) {
	d.runOnMainLoop(func() { d.registerRecordStreamLocked(index, rs) })
}

func (d *dispatcher) unregisterRecordStream(index uint32) {
	d.runOnMainLoop(func() { d.unregisterRecordStreamLocked(index) })
}

func (d *dispatcher) registerRecordStreamLocked(index uint32, rs *RecordStream) {
	d.record[index] = rs
}

func (d *dispatcher) unregisterRecordStreamLocked(index uint32) {
	delete(d.record, index)
}

func (d *dispatcher) registerUploadStream(index uint32, us *UploadStream) {
	d.runOnMainLoop(func() { d.registerUploadStreamLocked(index, us) })
}

func (d *dispatcher) unregisterUploadStream(index uint32) {
	d.runOnMainLoop(func() { d.unregisterUploadStreamLocked(index) })
}

func (d *dispatcher) registerUploadStreamLocked(index uint32, us *UploadStream) {
	d.upload[index] = us
}

func (d *dispatcher) unregisterUploadStreamLocked(index uint32) {
	delete(d.upload, index)
}

// shutdown tears the dispatcher down once, rejecting every outstanding
// request and propagating err (ErrDisconnected on a clean user-driven
// close) to every live stream, per spec.md §4.4's close/error
// propagation rule.
func (d *dispatcher) shutdown(err error) {
	d.closeOnce.Do(func() {
		d.closeErr = err
		d.requests.rejectAll(err)
		for _, ps := range d.playback {
			ps.fail(err)
		}
		for _, rs := range d.record {
			rs.fail(err)
		}
		for _, us := range d.upload {
			us.fail(err)
		}
		_ = d.conn.Close()
		close(d.done)
	})
}

// close is the user-driven path: it reports ErrDisconnected to
// outstanding work rather than the underlying transport error, since
// there isn't one. It hops onto the main loop before running shutdown
// so the teardown races with nothing else that reads the stream maps;
// if the main loop has already exited, shutdown's closeOnce makes this
// a no-op.
func (d *dispatcher) close() error {
	d.runOnMainLoop(func() { d.shutdown(ErrDisconnected) })
	return nil
}
