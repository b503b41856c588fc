package pulseaudio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeHeader covers spec.md §8 scenario 1: a 9-byte tagstruct
// body on the command channel (channel = NoIndex) encodes to the
// literal 20-byte descriptor.
func TestEncodeHeader(t *testing.T) {
	h := Header{Length: 9, Channel: NoIndex}
	want := []byte{
		0x00, 0x00, 0x00, 0x09,
		0xFF, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	assert.Equal(t, want, encodeHeader(h))
}

func TestDecodeHeaderRoundTrip(t *testing.T) {
	h := Header{Length: 1234, Channel: 5, OffsetHi: 1, OffsetLo: 2, Flags: 3}
	got, err := decodeHeader(encodeHeader(h))
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderWrongSize(t *testing.T) {
	_, err := decodeHeader([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestHeaderIsMemoryBlock(t *testing.T) {
	assert.False(t, Header{Channel: NoIndex}.IsMemoryBlock())
	assert.True(t, Header{Channel: 0}.IsMemoryBlock())
}

func TestReadPacketRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTagstructPacket(&buf, []byte("hello")))

	h, body, err := readPacket(&buf)
	require.NoError(t, err)
	assert.Equal(t, NoIndex, h.Channel)
	assert.Equal(t, uint32(5), h.Length)
	assert.Equal(t, []byte("hello"), body)
}

func TestReadPacketMemoryBlockChannel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMemoryBlockPacket(&buf, 7, []byte{1, 2, 3}))

	h, body, err := readPacket(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), h.Channel)
	assert.True(t, h.IsMemoryBlock())
	assert.Equal(t, []byte{1, 2, 3}, body)
}

func TestReadPacketShortBodyIsFramingError(t *testing.T) {
	hdr := encodeHeader(Header{Length: 10, Channel: NoIndex})
	buf := bytes.NewBuffer(append(hdr, []byte{1, 2, 3}...))
	_, _, err := readPacket(buf)
	assert.Error(t, err)
}

func TestReadPacketOversizedBodyRejected(t *testing.T) {
	hdr := encodeHeader(Header{Length: frameSizeMax + 1, Channel: NoIndex})
	buf := bytes.NewBuffer(hdr)
	_, _, err := readPacket(buf)
	assert.Error(t, err)
}
