package pulseaudio

// SinkInputInfo is the reply shape for GET_SINK_INPUT_INFO(_LIST).
// The teacher's vendored library has no sink-input support; this
// field order is extrapolated from general PulseAudio native protocol
// knowledge rather than grounded on a pack source — see DESIGN.md.
type SinkInputInfo struct {
	Index           uint32
	Name            string
	ModuleIndex     uint32
	ClientIndex     uint32
	SinkIndex       uint32
	SampleSpec      SampleSpec
	ChannelMap      []uint8
	Volume          []uint32
	BufferUsec      uint64
	SinkUsec        uint64
	ResampleMethod  string
	Driver          string
	Muted           bool
	PropList        map[string]string
	Corked          bool
	HasVolume       bool
	VolumeWritable  bool
	Formats         FormatInfo
}

func readSinkInputInfo(b *Buffer) (SinkInputInfo, error) {
	var s SinkInputInfo
	var err error

	if s.Index, err = b.GetU32(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.Name, _, err = b.GetString(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.ModuleIndex, err = b.GetU32(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.ClientIndex, err = b.GetU32(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.SinkIndex, err = b.GetU32(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.SampleSpec, err = b.GetSampleSpec(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.ChannelMap, err = b.GetChannelMap(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.Volume, err = b.GetCvolume(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.BufferUsec, err = b.GetUsec(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.SinkUsec, err = b.GetUsec(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.ResampleMethod, _, err = b.GetString(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.Driver, _, err = b.GetString(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.Muted, err = b.GetBool(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.PropList, err = b.GetProps(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.Corked, err = b.GetBool(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.HasVolume, err = b.GetBool(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.VolumeWritable, err = b.GetBool(); err != nil {
		return SinkInputInfo{}, err
	}
	if s.Formats, err = b.GetFormatInfo(); err != nil {
		return SinkInputInfo{}, err
	}
	return s, nil
}

// GetSinkInputInfoList queries every sink input (playback stream
// attached to a sink) known to the server.
func (c *Client) GetSinkInputInfoList() ([]SinkInputInfo, error) {
	reply, err := c.disp.call(CommandGetSinkInputInfoList, nil)
	if err != nil {
		return nil, err
	}
	var out []SinkInputInfo
	for !reply.Done() {
		s, err := readSinkInputInfo(reply)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SetSinkInputVolume sets the per-channel volume of a sink input.
func (c *Client) SetSinkInputVolume(index uint32, volume []uint32) error {
	_, err := c.disp.call(CommandSetSinkInputVolume, func(b *Buffer) {
		b.AddU32(index)
		b.AddCvolume(volume)
	})
	return err
}

// SetSinkInputMute sets or clears a sink input's mute flag.
func (c *Client) SetSinkInputMute(index uint32, muted bool) error {
	_, err := c.disp.call(CommandSetSinkInputMute, func(b *Buffer) {
		b.AddU32(index)
		b.AddBool(muted)
	})
	return err
}

// MoveSinkInput reassigns a sink input to a different sink.
func (c *Client) MoveSinkInput(index, sinkIndex uint32) error {
	_, err := c.disp.call(CommandMoveSinkInput, func(b *Buffer) {
		b.AddU32(index)
		b.AddU32(sinkIndex)
		b.AddStringNull()
	})
	return err
}

// KillSinkInput forcibly disconnects a sink input.
func (c *Client) KillSinkInput(index uint32) error {
	_, err := c.disp.call(CommandKillSinkInput, func(b *Buffer) {
		b.AddU32(index)
	})
	return err
}
