package pulseaudio

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is an io.ReadWriteCloser double standing in for the real
// socket: writes are recorded for inspection, reads block until Close.
type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  bool
	readCh  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{readCh: make(chan struct{})}
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]byte, len(p))
	copy(cp, p)
	c.written = append(c.written, cp)
	return len(p), nil
}

func (c *fakeConn) Read(p []byte) (int, error) {
	<-c.readCh
	return 0, io.EOF
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.readCh)
	}
	return nil
}

func (c *fakeConn) writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.written))
	copy(out, c.written)
	return out
}

// newBareDispatcher builds a dispatcher with its state initialized but
// without starting readLoop/mainLoop, for tests that drive stream and
// request-table logic directly rather than through the wire.
func newBareDispatcher(conn io.ReadWriteCloser) *dispatcher {
	return &dispatcher{
		conn:     conn,
		log:      log.Default(),
		requests: newRequestTable(),
		events:   newEventBus(),
		playback: make(map[uint32]*PlaybackStream),
		record:   make(map[uint32]*RecordStream),
		upload:   make(map[uint32]*UploadStream),
		jobs:     make(chan requestJob),
		packets:  make(chan packetMsg, 32),
		// registryOps is deliberately left nil: with no mainLoop
		// running, tests mutate the stream maps directly through the
		// *Locked helpers instead of the channel-routed entry points.
		done: make(chan struct{}),
	}
}

func TestDispatcherShutdownRejectsOutstandingRequests(t *testing.T) {
	conn := newFakeConn()
	d := newBareDispatcher(conn)
	ch := d.requests.register(1, CommandAuth)

	d.shutdown(ErrDisconnected)

	res := <-ch
	assert.Equal(t, ErrDisconnected, res.err)
	assert.True(t, conn.closed)

	select {
	case <-d.done:
	default:
		t.Fatal("expected done to be closed")
	}
}

func TestDispatcherShutdownIsIdempotent(t *testing.T) {
	d := newBareDispatcher(newFakeConn())
	d.shutdown(errors.New("first"))
	assert.NotPanics(t, func() { d.shutdown(errors.New("second")) })
	assert.Equal(t, "first", d.closeErr.Error())
}

func TestDispatcherShutdownFailsLiveStreams(t *testing.T) {
	d := newBareDispatcher(newFakeConn())

	var psErr, rsErr error
	ps := newPlaybackStream(d, 1, 1, 4, SampleSpec{}, nil, PlaybackBufferAttr{}, 0, 0, true)
	ps.OnEvent(func(ev StreamEvent) {
		if ev.Kind == StreamEventKilled {
			psErr = errors.New(ev.Name)
		}
	})
	rs := newRecordStream(d, 2, 2, SampleSpec{}, nil, 0, true)
	rs.OnEvent(func(ev StreamEvent) {
		if ev.Kind == StreamEventKilled {
			rsErr = errors.New(ev.Name)
		}
	})
	d.registerPlaybackStreamLocked(1, ps)
	d.registerRecordStreamLocked(2, rs)

	d.shutdown(ErrDisconnected)

	require.Error(t, psErr)
	require.Error(t, rsErr)
}

func TestHandlePacketReplyCompletesRequest(t *testing.T) {
	d := newBareDispatcher(newFakeConn())
	ch := d.requests.register(7, CommandGetSinkInfoList)

	body := NewBuffer()
	body.AddU32(uint32(CommandReply))
	body.AddU32(7)
	body.AddU32(123)
	d.handlePacket(Header{Channel: NoIndex}, body.Bytes())

	res := <-ch
	require.NoError(t, res.err)
	v, err := res.reply.GetU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(123), v)
}

func TestHandlePacketErrorFailsRequest(t *testing.T) {
	d := newBareDispatcher(newFakeConn())
	ch := d.requests.register(9, CommandSetSinkVolume)

	body := NewBuffer()
	body.AddU32(uint32(CommandError))
	body.AddU32(9)
	body.AddU32(uint32(ErrNoEntity))
	d.handlePacket(Header{Channel: NoIndex}, body.Bytes())

	res := <-ch
	var serr *ServerError
	require.True(t, errors.As(res.err, &serr))
	assert.Equal(t, ErrNoEntity, serr.Code)
}

func TestHandlePacketRoutesSubscribeEvent(t *testing.T) {
	d := newBareDispatcher(newFakeConn())
	var got SubscribeEvent
	d.events.Subscribe("event", func(ev SubscribeEvent) { got = ev })

	body := NewBuffer()
	body.AddU32(uint32(CommandSubscribeEvent))
	body.AddU32(0x12)
	body.AddU32(5)
	d.handlePacket(Header{Channel: NoIndex}, body.Bytes())

	assert.Equal(t, FacilitySinkInput, got.Facility)
	assert.Equal(t, OperationChange, got.Operation)
	assert.Equal(t, uint32(5), got.Index)
}

func TestHandlePacketMemoryBlockRoutesToRecordStream(t *testing.T) {
	d := newBareDispatcher(newFakeConn())
	rs := newRecordStream(d, 3, 3, SampleSpec{}, nil, 0, true)
	rs.SetRunning(true)
	var gotBytes []byte
	rs.SetConsumer(func(b []byte) bool {
		gotBytes = append(gotBytes, b...)
		return true
	})
	d.registerRecordStreamLocked(3, rs)

	d.handlePacket(Header{Channel: 3}, []byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, gotBytes)
}

func TestHandlePacketMemoryBlockForUnknownChannelIsDropped(t *testing.T) {
	d := newBareDispatcher(newFakeConn())
	assert.NotPanics(t, func() { d.handlePacket(Header{Channel: 99}, []byte{1, 2, 3}) })
}

func TestWriteFrameWritesDescriptorAndBody(t *testing.T) {
	conn := newFakeConn()
	d := newBareDispatcher(conn)

	require.NoError(t, d.writeFrame(NoIndex, []byte("abc")))

	writes := conn.writes()
	require.Len(t, writes, 2)
	assert.True(t, bytes.Equal(writes[0], encodeHeader(Header{Length: 3, Channel: NoIndex})))
	assert.Equal(t, []byte("abc"), writes[1])
}
