package pulseaudio

// SourceOutputInfo is the reply shape for
// GET_SOURCE_OUTPUT_INFO(_LIST). Extrapolated, like SinkInputInfo, from
// general PulseAudio native protocol knowledge rather than grounded on
// a pack source — see DESIGN.md.
type SourceOutputInfo struct {
	Index          uint32
	Name           string
	ModuleIndex    uint32
	ClientIndex    uint32
	SourceIndex    uint32
	SampleSpec     SampleSpec
	ChannelMap     []uint8
	BufferUsec     uint64
	SourceUsec     uint64
	ResampleMethod string
	Driver         string
	PropList       map[string]string
	Corked         bool
	Volume         []uint32
	Muted          bool
	HasVolume      bool
	VolumeWritable bool
	Formats        FormatInfo
}

func readSourceOutputInfo(b *Buffer) (SourceOutputInfo, error) {
	var s SourceOutputInfo
	var err error

	if s.Index, err = b.GetU32(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.Name, _, err = b.GetString(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.ModuleIndex, err = b.GetU32(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.ClientIndex, err = b.GetU32(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.SourceIndex, err = b.GetU32(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.SampleSpec, err = b.GetSampleSpec(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.ChannelMap, err = b.GetChannelMap(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.BufferUsec, err = b.GetUsec(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.SourceUsec, err = b.GetUsec(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.ResampleMethod, _, err = b.GetString(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.Driver, _, err = b.GetString(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.PropList, err = b.GetProps(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.Corked, err = b.GetBool(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.Volume, err = b.GetCvolume(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.Muted, err = b.GetBool(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.HasVolume, err = b.GetBool(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.VolumeWritable, err = b.GetBool(); err != nil {
		return SourceOutputInfo{}, err
	}
	if s.Formats, err = b.GetFormatInfo(); err != nil {
		return SourceOutputInfo{}, err
	}
	return s, nil
}

// GetSourceOutputInfoList queries every source output (record stream
// attached to a source) known to the server.
func (c *Client) GetSourceOutputInfoList() ([]SourceOutputInfo, error) {
	reply, err := c.disp.call(CommandGetSourceOutputInfoList, nil)
	if err != nil {
		return nil, err
	}
	var out []SourceOutputInfo
	for !reply.Done() {
		s, err := readSourceOutputInfo(reply)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SetSourceOutputVolume sets the per-channel volume of a source output.
func (c *Client) SetSourceOutputVolume(index uint32, volume []uint32) error {
	_, err := c.disp.call(CommandSetSourceOutputVolume, func(b *Buffer) {
		b.AddU32(index)
		b.AddCvolume(volume)
	})
	return err
}

// SetSourceOutputMute sets or clears a source output's mute flag.
func (c *Client) SetSourceOutputMute(index uint32, muted bool) error {
	_, err := c.disp.call(CommandSetSourceOutputMute, func(b *Buffer) {
		b.AddU32(index)
		b.AddBool(muted)
	})
	return err
}

// MoveSourceOutput reassigns a source output to a different source.
func (c *Client) MoveSourceOutput(index, sourceIndex uint32) error {
	_, err := c.disp.call(CommandMoveSourceOutput, func(b *Buffer) {
		b.AddU32(index)
		b.AddU32(sourceIndex)
		b.AddStringNull()
	})
	return err
}

// KillSourceOutput forcibly disconnects a source output.
func (c *Client) KillSourceOutput(index uint32) error {
	_, err := c.disp.call(CommandKillSourceOutput, func(b *Buffer) {
		b.AddU32(index)
	})
	return err
}
