package pulseaudio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTableCompleteRemovesTag(t *testing.T) {
	rt := newRequestTable()
	ch := rt.register(1, CommandGetSinkInfoList)
	assert.Equal(t, 1, rt.len())

	reply := NewBuffer()
	assert.True(t, rt.complete(1, reply))
	assert.Equal(t, 0, rt.len(), "tag must be absent from the table once resolved")

	res := <-ch
	assert.NoError(t, res.err)
	assert.Same(t, reply, res.reply)
}

func TestRequestTableCompleteUnknownTag(t *testing.T) {
	rt := newRequestTable()
	assert.False(t, rt.complete(99, NewBuffer()))
}

func TestRequestTableFailWithCode(t *testing.T) {
	rt := newRequestTable()
	ch := rt.register(2, CommandSetSinkVolume)

	assert.True(t, rt.failWithCode(2, ErrNoEntity))
	assert.Equal(t, 0, rt.len())

	res := <-ch
	require.Error(t, res.err)
	var serr *ServerError
	require.True(t, errors.As(res.err, &serr))
	assert.Equal(t, CommandSetSinkVolume, serr.Cmd)
	assert.Equal(t, ErrNoEntity, serr.Code)
}

func TestRequestTableFailGeneric(t *testing.T) {
	rt := newRequestTable()
	ch := rt.register(3, CommandAuth)

	wantErr := errors.New("boom")
	assert.True(t, rt.fail(3, wantErr))

	res := <-ch
	assert.Equal(t, wantErr, res.err)
}

func TestRequestTableFailUnknownTag(t *testing.T) {
	rt := newRequestTable()
	assert.False(t, rt.fail(7, errors.New("boom")))
}

func TestRequestTableRejectAll(t *testing.T) {
	rt := newRequestTable()
	ch1 := rt.register(1, CommandAuth)
	ch2 := rt.register(2, CommandGetSinkInfoList)

	wantErr := ErrDisconnected
	rt.rejectAll(wantErr)
	assert.Equal(t, 0, rt.len())

	res1 := <-ch1
	res2 := <-ch2
	assert.Equal(t, wantErr, res1.err)
	assert.Equal(t, wantErr, res2.err)
}

func TestRequestTableRegisterChanReusesOwnedChannel(t *testing.T) {
	rt := newRequestTable()
	ch := make(chan requestResult, 1)
	rt.registerChan(5, CommandAuth, ch)

	rt.complete(5, NewBuffer())
	select {
	case <-ch:
	default:
		t.Fatal("expected a result on the caller-owned channel")
	}
}
