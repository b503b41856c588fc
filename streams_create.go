package pulseaudio

import (
	"fmt"
	"sync/atomic"
)

// Channel map position codes for the common mono/stereo default,
// grounded on achrafsoltani-Glow/internal/pulse/stream.go's
// CreatePlaybackStream positions table. A full WAV channel-ordering
// table is an external collaborator interface this core does not
// provide (spec.md Non-goals); callers with more than two channels
// must supply an explicit ChannelMap.
const (
	channelMono       uint8 = 0
	channelFrontLeft  uint8 = 1
	channelFrontRight uint8 = 2
)

// defaultChannelMap derives a channel map from a channel count using
// the mono/stereo convention; channels beyond 2 are left at position
// code 0 (the same code as channelMono), matching the teacher's
// fallback.
func defaultChannelMap(channels uint8) []uint8 {
	positions := make([]uint8, channels)
	switch {
	case channels == 1:
		positions[0] = channelMono
	case channels >= 2:
		positions[0] = channelFrontLeft
		positions[1] = channelFrontRight
	}
	return positions
}

// nextSyncID hands out process-wide monotonically increasing
// synchronization IDs for stream groups left unset by the caller.
var syncIDCounter uint32

func nextSyncID() uint32 {
	return atomic.AddUint32(&syncIDCounter, 1)
}

// defaultCvolume returns a full-scale cvolume for the given channel
// count, per spec.md §4.3 "Defaults" (PA_VOLUME_NORM per channel when
// omitted).
func defaultCvolume(channels uint8) []uint32 {
	vol := make([]uint32, channels)
	for i := range vol {
		vol[i] = VolumeNorm
	}
	return vol
}

// PlaybackStreamFlags are the protocol-12+/13+/14+/15+/17+/18+ boolean
// options negotiated at stream creation, per spec.md §4.3's field
// sequence for CREATE_PLAYBACK_STREAM.
type PlaybackStreamFlags struct {
	NoRemap                bool
	NoRemix                bool
	FixFormat              bool
	FixRate                bool
	FixChannels            bool
	NoMove                 bool
	VariableRate           bool
	Muted                  bool
	AdjustLatency          bool
	EarlyRequests          bool
	MutedSet               bool
	DontInhibitAutoSuspend bool
	FailOnSuspend          bool
	RelativeVolume         bool
	Passthrough            bool
}

// CreatePlaybackStreamOptions configures Client.CreatePlaybackStream.
// Zero values pick the server's own defaults for buffer sizing and a
// full-scale volume.
type CreatePlaybackStreamOptions struct {
	SinkName   string // empty selects the default sink
	SampleSpec SampleSpec
	ChannelMap []uint8 // nil derives from SampleSpec.Channels
	Attr       PlaybackBufferAttr
	Corked     bool
	SyncID     uint32 // 0 asks for a fresh one from nextSyncID
	Volume     []uint32
	Flags      PlaybackStreamFlags
	Properties map[string]string
	Formats    []FormatInfo // nil sends one PCM entry with an empty property list
}

// CreatePlaybackStream negotiates a new outbound stream and returns it
// ready for Write, per spec.md §4.3's CREATE_PLAYBACK_STREAM field
// sequence (grounded on achrafsoltani-Glow's tag-by-tag builder) and
// §4.5's credit engine.
func (c *Client) CreatePlaybackStream(opts CreatePlaybackStreamOptions) (*PlaybackStream, error) {
	chmap := opts.ChannelMap
	if chmap == nil {
		chmap = defaultChannelMap(opts.SampleSpec.Channels)
	}
	volume := opts.Volume
	if volume == nil {
		volume = defaultCvolume(opts.SampleSpec.Channels)
	}
	syncID := opts.SyncID
	if syncID == 0 {
		syncID = nextSyncID()
	}
	formats := opts.Formats
	if formats == nil {
		formats = []FormatInfo{{Encoding: EncodingPCM, Props: map[string]string{}}}
	}

	reply, err := c.disp.call(CommandCreatePlaybackStream, func(b *Buffer) {
		b.AddSampleSpec(opts.SampleSpec)
		b.AddChannelMap(chmap)
		b.AddU32(NoIndex)
		if opts.SinkName == "" {
			b.AddStringNull()
		} else {
			b.AddString(opts.SinkName)
		}
		b.AddU32(opts.Attr.MaxLength)
		b.AddBool(opts.Corked)
		b.AddU32(opts.Attr.TargetLength)
		b.AddU32(opts.Attr.PreBuffering)
		b.AddU32(opts.Attr.MinimumRequest)
		b.AddU32(syncID)
		b.AddCvolume(volume)

		f := opts.Flags
		b.AddBool(f.NoRemap)
		b.AddBool(f.NoRemix)
		b.AddBool(f.FixFormat)
		b.AddBool(f.FixRate)
		b.AddBool(f.FixChannels)
		b.AddBool(f.NoMove)
		b.AddBool(f.VariableRate)

		b.AddBool(f.Muted)
		b.AddBool(f.AdjustLatency)
		b.AddProps(opts.Properties)

		b.AddBool(volume != nil)
		b.AddBool(f.EarlyRequests)

		b.AddBool(f.MutedSet)
		b.AddBool(f.DontInhibitAutoSuspend)
		b.AddBool(f.FailOnSuspend)

		b.AddBool(f.RelativeVolume)

		b.AddBool(f.Passthrough)

		b.AddU8(uint8(len(formats)))
		for _, fi := range formats {
			b.AddFormatInfo(fi)
		}
	})
	if err != nil {
		return nil, err
	}

	index, err := reply.GetU32()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	sinkInputIndex, err := reply.GetU32()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	initialCredit, err := reply.GetU32()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	attr, err := readPlaybackBufferAttr(reply)
	if err != nil {
		return nil, err
	}
	negotiatedSpec, err := reply.GetSampleSpec()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	negotiatedMap, err := reply.GetChannelMap()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	if _, err := reply.GetU32(); err != nil { // sink index the stream landed on
		return nil, &ProtocolError{Err: err}
	}
	if _, _, err := reply.GetString(); err != nil { // sink name
		return nil, &ProtocolError{Err: err}
	}
	if _, err := reply.GetBool(); err != nil { // sink suspended
		return nil, &ProtocolError{Err: err}
	}
	if _, err := reply.GetUsec(); err != nil { // sink latency
		return nil, &ProtocolError{Err: err}
	}
	if !reply.Done() {
		if _, err := reply.GetFormatInfo(); err != nil {
			return nil, &ProtocolError{Err: err}
		}
	}

	frameSize := frameSizeOf(negotiatedSpec)
	remaining, unlimited := streamCap(opts.Attr.MaxLength)
	ps := newPlaybackStream(c.disp, index, sinkInputIndex, frameSize, negotiatedSpec, negotiatedMap, attr, initialCredit, remaining, unlimited)
	c.disp.registerPlaybackStream(index, ps)
	return ps, nil
}

// CreateRecordStreamOptions configures Client.CreateRecordStream.
type CreateRecordStreamOptions struct {
	SourceName    string // empty selects the default source
	SampleSpec    SampleSpec
	ChannelMap    []uint8
	Attr          PlaybackBufferAttr // MaxLength is sent as maxlength, MinimumRequest as fragsize; TargetLength and PreBuffering are not sent
	Corked        bool
	Volume        []uint32
	NoRemap       bool
	NoRemix       bool
	FixFormat     bool
	FixRate       bool
	FixChannels   bool
	NoMove        bool
	VariableRate  bool
	PeakDetect    bool
	AdjustLatency bool
	Properties    map[string]string
	Formats       []FormatInfo
}

// CreateRecordStream negotiates a new inbound stream and returns it
// ready to receive via its RecordConsumer, per spec.md §4.3's
// CREATE_RECORD_STREAM field sequence and §4.6's pull-model engine.
func (c *Client) CreateRecordStream(opts CreateRecordStreamOptions) (*RecordStream, error) {
	chmap := opts.ChannelMap
	if chmap == nil {
		chmap = defaultChannelMap(opts.SampleSpec.Channels)
	}
	volume := opts.Volume
	if volume == nil {
		volume = defaultCvolume(opts.SampleSpec.Channels)
	}
	formats := opts.Formats
	if formats == nil {
		formats = []FormatInfo{{Encoding: EncodingPCM, Props: map[string]string{}}}
	}

	reply, err := c.disp.call(CommandCreateRecordStream, func(b *Buffer) {
		b.AddSampleSpec(opts.SampleSpec)
		b.AddChannelMap(chmap)
		b.AddU32(NoIndex)
		if opts.SourceName == "" {
			b.AddStringNull()
		} else {
			b.AddString(opts.SourceName)
		}
		b.AddU32(opts.Attr.MaxLength)
		b.AddBool(opts.Corked)
		b.AddU32(opts.Attr.MinimumRequest) // fragsize
		b.AddCvolume(volume)

		b.AddBool(opts.NoRemap)
		b.AddBool(opts.NoRemix)
		b.AddBool(opts.FixFormat)
		b.AddBool(opts.FixRate)
		b.AddBool(opts.FixChannels)
		b.AddBool(opts.NoMove)
		b.AddBool(opts.VariableRate)
		b.AddBool(opts.PeakDetect)

		b.AddBool(false) // muted
		b.AddBool(opts.AdjustLatency)
		b.AddProps(opts.Properties)

		b.AddBool(volume != nil)

		b.AddBool(false) // muted_set
		b.AddBool(false) // dont_inhibit_auto_suspend
		b.AddBool(false) // fail_on_suspend

		b.AddU8(uint8(len(formats)))
		for _, fi := range formats {
			b.AddFormatInfo(fi)
		}
	})
	if err != nil {
		return nil, err
	}

	index, err := reply.GetU32()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	sourceOutputIndex, err := reply.GetU32()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	maxLength, err := reply.GetU32()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	negotiatedSpec, err := reply.GetSampleSpec()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	negotiatedMap, err := reply.GetChannelMap()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	if _, err := reply.GetU32(); err != nil { // source index the stream landed on
		return nil, &ProtocolError{Err: err}
	}
	if _, _, err := reply.GetString(); err != nil { // source name
		return nil, &ProtocolError{Err: err}
	}
	if _, err := reply.GetBool(); err != nil { // source suspended
		return nil, &ProtocolError{Err: err}
	}
	if _, err := reply.GetUsec(); err != nil { // source latency
		return nil, &ProtocolError{Err: err}
	}
	if !reply.Done() {
		if _, err := reply.GetFormatInfo(); err != nil {
			return nil, &ProtocolError{Err: err}
		}
	}

	remaining, unlimited := streamCap(maxLength)
	rs := newRecordStream(c.disp, index, sourceOutputIndex, negotiatedSpec, negotiatedMap, remaining, unlimited)
	c.disp.registerRecordStream(index, rs)
	return rs, nil
}

// CreateUploadStreamOptions configures Client.CreateUploadStream, used
// to populate the sample cache for later PlaySample calls.
type CreateUploadStreamOptions struct {
	Name       string
	SampleSpec SampleSpec
	ChannelMap []uint8
	Length     uint32
	Properties map[string]string
}

// CreateUploadStream opens a one-shot upload channel for filling the
// server's sample cache, per spec.md §4.3.
func (c *Client) CreateUploadStream(opts CreateUploadStreamOptions) (*UploadStream, error) {
	if opts.Name == "" {
		return nil, &UsageError{Err: fmt.Errorf("upload stream name must not be empty")}
	}
	chmap := opts.ChannelMap
	if chmap == nil {
		chmap = defaultChannelMap(opts.SampleSpec.Channels)
	}

	reply, err := c.disp.call(CommandCreateUploadStream, func(b *Buffer) {
		b.AddString(opts.Name)
		b.AddSampleSpec(opts.SampleSpec)
		b.AddChannelMap(chmap)
		b.AddU32(opts.Length)
		b.AddProps(opts.Properties)
	})
	if err != nil {
		return nil, err
	}

	index, err := reply.GetU32()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	length, err := reply.GetU32()
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}

	us := newUploadStream(c.disp, index, opts.Name, opts.SampleSpec, chmap, length)
	c.disp.registerUploadStream(index, us)
	return us, nil
}

// frameSizeOf computes the per-frame byte count of a sample spec from
// the format-code byte-size table in spec.md §4.3.
func frameSizeOf(spec SampleSpec) uint32 {
	return uint32(spec.Channels) * sampleFormatBytes[spec.Format]
}

// streamCap interprets a negotiated maxlength as either a finite
// stream cap or the "unlimited" sentinel, per spec.md §4.5/§4.6.
func streamCap(maxLength uint32) (remaining uint64, unlimited bool) {
	if maxLength == NoIndex {
		return 0, true
	}
	return uint64(maxLength), false
}
