package pulseaudio

import (
	"fmt"
	"sync"
)

// UploadStream accumulates PCM data for the sample cache. Unlike a
// playback stream, an upload is not server-credited: the client writes
// up to the length the server accepted and then drains it with
// FinishUploadStream, per spec.md §4.5 "Drain".
type UploadStream struct {
	disp  *dispatcher
	index uint32

	Name       string
	SampleSpec SampleSpec
	ChannelMap []uint8
	Length     uint32

	mu     sync.Mutex
	sent   uint32
	closed bool
}

func newUploadStream(disp *dispatcher, index uint32, name string, spec SampleSpec, chmap []uint8, length uint32) *UploadStream {
	return &UploadStream{disp: disp, index: index, Name: name, SampleSpec: spec, ChannelMap: chmap, Length: length}
}

// Index is the server-assigned stream index.
func (us *UploadStream) Index() uint32 { return us.index }

// Write ships data immediately; it is a usage error to write more
// bytes in total than Length.
func (us *UploadStream) Write(data []byte) error {
	us.mu.Lock()
	defer us.mu.Unlock()
	if us.closed {
		return ErrDisconnected
	}
	if us.sent+uint32(len(data)) > us.Length {
		return &UsageError{Err: fmt.Errorf("upload stream %d: write would exceed negotiated length %d", us.index, us.Length)}
	}
	if err := us.disp.writeFrame(us.index, data); err != nil {
		return err
	}
	us.sent += uint32(len(data))
	return nil
}

// Finish issues FINISH_UPLOAD_STREAM, committing the uploaded bytes to
// the sample cache under Name.
func (us *UploadStream) Finish() error {
	us.mu.Lock()
	us.closed = true
	us.mu.Unlock()
	us.disp.unregisterUploadStream(us.index)
	_, err := us.disp.call(CommandFinishUploadStream, func(b *Buffer) { b.AddU32(us.index) })
	return err
}

// fail marks the stream closed locally on connection loss.
func (us *UploadStream) fail(error) {
	us.mu.Lock()
	us.closed = true
	us.mu.Unlock()
}

// Close aborts the upload, deleting the stream server-side without
// committing it to the sample cache.
func (us *UploadStream) Close() error {
	us.mu.Lock()
	if us.closed {
		us.mu.Unlock()
		return nil
	}
	us.closed = true
	us.mu.Unlock()
	us.disp.unregisterUploadStream(us.index)
	_, err := us.disp.call(CommandDeleteUploadStream, func(b *Buffer) { b.AddU32(us.index) })
	if err != nil && errIsAlreadyGone(err) {
		us.disp.log.Warn("upload stream delete: server reports already gone", "index", us.index, "err", err)
		err = nil
	}
	return err
}
