package pulseaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestU32RoundTrip covers spec.md §8 scenario 2: addU32(0x10000) yields
// "4C 00 01 00 00"; getU32 on that returns 65536.
func TestU32RoundTrip(t *testing.T) {
	b := NewBuffer()
	b.AddU32(0x10000)
	assert.Equal(t, []byte{0x4C, 0x00, 0x01, 0x00, 0x00}, b.Bytes())

	r := NewBufferFromBytes(b.Bytes())
	v, err := r.GetU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(65536), v)
	assert.True(t, r.Done())
}

// TestStringEncoding covers spec.md §8 scenario 3.
func TestStringEncoding(t *testing.T) {
	b := NewBuffer()
	b.AddString("pa")
	assert.Equal(t, []byte{'t', 'p', 'a', 0x00}, b.Bytes())

	null := NewBuffer()
	null.AddStringNull()
	assert.Equal(t, []byte{'N'}, null.Bytes())
}

// TestStringRoundTrip checks both the present and null cases decode
// back through GetString's ok flag.
func TestStringRoundTrip(t *testing.T) {
	b := NewBuffer()
	b.AddString("pa")
	b.AddStringNull()

	r := NewBufferFromBytes(b.Bytes())
	s, ok, err := r.GetString()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pa", s)

	s, ok, err = r.GetString()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", s)
	assert.True(t, r.Done())
}

// TestAddGetRoundTrip is spec.md §8's general round-trip invariant,
// exercised across every scalar tag type.
func TestAddGetRoundTrip(t *testing.T) {
	t.Run("u8", func(t *testing.T) {
		b := NewBuffer()
		b.AddU8(200)
		v, err := NewBufferFromBytes(b.Bytes()).GetU8()
		require.NoError(t, err)
		assert.Equal(t, uint8(200), v)
	})
	t.Run("u64", func(t *testing.T) {
		b := NewBuffer()
		b.AddU64(1 << 40)
		v, err := NewBufferFromBytes(b.Bytes()).GetU64()
		require.NoError(t, err)
		assert.Equal(t, uint64(1<<40), v)
	})
	t.Run("s64", func(t *testing.T) {
		b := NewBuffer()
		b.AddS64(-12345)
		v, err := NewBufferFromBytes(b.Bytes()).GetS64()
		require.NoError(t, err)
		assert.Equal(t, int64(-12345), v)
	})
	t.Run("usec", func(t *testing.T) {
		b := NewBuffer()
		b.AddUsec(987654321)
		v, err := NewBufferFromBytes(b.Bytes()).GetUsec()
		require.NoError(t, err)
		assert.Equal(t, uint64(987654321), v)
	})
	t.Run("bool true", func(t *testing.T) {
		b := NewBuffer()
		b.AddBool(true)
		v, err := NewBufferFromBytes(b.Bytes()).GetBool()
		require.NoError(t, err)
		assert.True(t, v)
	})
	t.Run("bool false", func(t *testing.T) {
		b := NewBuffer()
		b.AddBool(false)
		v, err := NewBufferFromBytes(b.Bytes()).GetBool()
		require.NoError(t, err)
		assert.False(t, v)
	})
	t.Run("arbitrary", func(t *testing.T) {
		b := NewBuffer()
		b.AddArbitrary([]byte{1, 2, 3, 4})
		v, err := NewBufferFromBytes(b.Bytes()).GetArbitrary()
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4}, v)
	})
	t.Run("sample spec", func(t *testing.T) {
		spec := SampleSpec{Format: SampleFormatS16LE, Channels: 2, Rate: 44100}
		b := NewBuffer()
		b.AddSampleSpec(spec)
		v, err := NewBufferFromBytes(b.Bytes()).GetSampleSpec()
		require.NoError(t, err)
		assert.Equal(t, spec, v)
	})
	t.Run("channel map", func(t *testing.T) {
		chmap := []uint8{1, 2}
		b := NewBuffer()
		b.AddChannelMap(chmap)
		v, err := NewBufferFromBytes(b.Bytes()).GetChannelMap()
		require.NoError(t, err)
		assert.Equal(t, chmap, v)
	})
	t.Run("cvolume", func(t *testing.T) {
		vol := []uint32{VolumeNorm, VolumeNorm}
		b := NewBuffer()
		b.AddCvolume(vol)
		v, err := NewBufferFromBytes(b.Bytes()).GetCvolume()
		require.NoError(t, err)
		assert.Equal(t, vol, v)
	})
	t.Run("volume", func(t *testing.T) {
		b := NewBuffer()
		b.AddVolume(VolumeNorm)
		v, err := NewBufferFromBytes(b.Bytes()).GetVolume()
		require.NoError(t, err)
		assert.Equal(t, VolumeNorm, v)
	})
	t.Run("proplist", func(t *testing.T) {
		props := map[string]string{"application.name": "ut"}
		b := NewBuffer()
		b.AddProps(props)
		v, err := NewBufferFromBytes(b.Bytes()).GetProps()
		require.NoError(t, err)
		assert.Equal(t, props, v)
	})
	t.Run("format info", func(t *testing.T) {
		fi := FormatInfo{Encoding: EncodingPCM, Props: map[string]string{"format.sample_format": "s16le"}}
		b := NewBuffer()
		b.AddFormatInfo(fi)
		v, err := NewBufferFromBytes(b.Bytes()).GetFormatInfo()
		require.NoError(t, err)
		assert.Equal(t, fi, v)
	})
}

// TestGetOnWrongTagFails exercises the "unexpected tag is an error"
// behavior the TIMEVAL-rejection Open Question leans on.
func TestGetOnWrongTagFails(t *testing.T) {
	b := NewBuffer()
	b.AddU32(42)
	_, err := NewBufferFromBytes(b.Bytes()).GetString()
	assert.Error(t, err)
}

// TestGetOnEmptyBufferFails checks that reading past the end of the
// buffer is reported, not silently zero-filled.
func TestGetOnEmptyBufferFails(t *testing.T) {
	b := NewBufferFromBytes(nil)
	_, err := b.GetU32()
	assert.Error(t, err)
}
