package pulseaudio

import "fmt"

// SourceInfo is the reply shape for GET_SOURCE_INFO(_LIST). spec.md
// §4.3 specifies source and sink info share an identical field
// layout; only the entity and monitor roles are reversed (a source may
// be the monitor of a sink — MonitorOfSink/MonitorOfName take the place
// of Sink's MonitorSource fields).
type SourceInfo struct {
	Index            uint32
	Name             string
	Description      string
	SampleSpec       SampleSpec
	ChannelMap       []uint8
	ModuleIndex      uint32
	Volume           []uint32
	Muted            bool
	MonitorOfSink    uint32
	MonitorOfName    string
	Latency          uint64
	Driver           string
	Flags            uint32
	PropList         map[string]string
	RequestedLatency uint64
	BaseVolume       uint32
	State            uint32
	VolumeSteps      uint32
	CardIndex        uint32
	Ports            []Port
	ActivePortName   string
	Formats          []FormatInfo
}

func readSourceInfo(b *Buffer) (SourceInfo, error) {
	var s SourceInfo
	var err error

	if s.Index, err = b.GetU32(); err != nil {
		return SourceInfo{}, err
	}
	if s.Name, _, err = b.GetString(); err != nil {
		return SourceInfo{}, err
	}
	if s.Description, _, err = b.GetString(); err != nil {
		return SourceInfo{}, err
	}
	if s.SampleSpec, err = b.GetSampleSpec(); err != nil {
		return SourceInfo{}, err
	}
	if s.ChannelMap, err = b.GetChannelMap(); err != nil {
		return SourceInfo{}, err
	}
	if s.ModuleIndex, err = b.GetU32(); err != nil {
		return SourceInfo{}, err
	}
	if s.Volume, err = b.GetCvolume(); err != nil {
		return SourceInfo{}, err
	}
	if s.Muted, err = b.GetBool(); err != nil {
		return SourceInfo{}, err
	}
	if s.MonitorOfSink, err = b.GetU32(); err != nil {
		return SourceInfo{}, err
	}
	if s.MonitorOfName, _, err = b.GetString(); err != nil {
		return SourceInfo{}, err
	}
	if s.Latency, err = b.GetUsec(); err != nil {
		return SourceInfo{}, err
	}
	if s.Driver, _, err = b.GetString(); err != nil {
		return SourceInfo{}, err
	}
	if s.Flags, err = b.GetU32(); err != nil {
		return SourceInfo{}, err
	}
	if s.PropList, err = b.GetProps(); err != nil {
		return SourceInfo{}, err
	}
	if s.RequestedLatency, err = b.GetUsec(); err != nil {
		return SourceInfo{}, err
	}
	if s.BaseVolume, err = b.GetVolume(); err != nil {
		return SourceInfo{}, err
	}
	if s.State, err = b.GetU32(); err != nil {
		return SourceInfo{}, err
	}
	if s.VolumeSteps, err = b.GetU32(); err != nil {
		return SourceInfo{}, err
	}
	if s.CardIndex, err = b.GetU32(); err != nil {
		return SourceInfo{}, err
	}

	portCount, err := b.GetU32()
	if err != nil {
		return SourceInfo{}, err
	}
	s.Ports = make([]Port, portCount)
	for i := range s.Ports {
		if s.Ports[i], err = readPort(b); err != nil {
			return SourceInfo{}, err
		}
	}
	if s.ActivePortName, _, err = b.GetString(); err != nil {
		return SourceInfo{}, err
	}

	formatCount, err := b.GetU8()
	if err != nil {
		return SourceInfo{}, err
	}
	s.Formats = make([]FormatInfo, formatCount)
	for i := range s.Formats {
		if s.Formats[i], err = b.GetFormatInfo(); err != nil {
			return SourceInfo{}, err
		}
	}
	return s, nil
}

// GetSourceInfoList queries every source known to the server.
func (c *Client) GetSourceInfoList() ([]SourceInfo, error) {
	reply, err := c.disp.call(CommandGetSourceInfoList, nil)
	if err != nil {
		return nil, err
	}
	var out []SourceInfo
	for !reply.Done() {
		s, err := readSourceInfo(reply)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GetSourceInfoByName queries one source by name.
func (c *Client) GetSourceInfoByName(name string) (SourceInfo, error) {
	reply, err := c.disp.call(CommandGetSourceInfo, func(b *Buffer) {
		b.AddU32(NoIndex)
		b.AddString(name)
	})
	if err != nil {
		return SourceInfo{}, err
	}
	return readSourceInfo(reply)
}

// GetSourceInfoByIndex queries one source by its server-assigned
// index.
func (c *Client) GetSourceInfoByIndex(index uint32) (SourceInfo, error) {
	reply, err := c.disp.call(CommandGetSourceInfo, func(b *Buffer) {
		b.AddU32(index)
		b.AddStringNull()
	})
	if err != nil {
		return SourceInfo{}, err
	}
	return readSourceInfo(reply)
}

// SetSourceVolume sets the per-channel volume of a source.
func (c *Client) SetSourceVolume(index uint32, volume []uint32) error {
	if len(volume) < 1 || len(volume) > 32 {
		return &UsageError{Err: fmt.Errorf("volume array length %d out of range 1..32", len(volume))}
	}
	_, err := c.disp.call(CommandSetSourceVolume, func(b *Buffer) {
		b.AddU32(index)
		b.AddStringNull()
		b.AddCvolume(volume)
	})
	return err
}

// SetSourceMute sets or clears a source's mute flag.
func (c *Client) SetSourceMute(index uint32, muted bool) error {
	_, err := c.disp.call(CommandSetSourceMute, func(b *Buffer) {
		b.AddU32(index)
		b.AddStringNull()
		b.AddBool(muted)
	})
	return err
}

// SuspendSource suspends or resumes a source.
func (c *Client) SuspendSource(index uint32, suspend bool) error {
	_, err := c.disp.call(CommandSuspendSource, func(b *Buffer) {
		b.AddU32(index)
		b.AddStringNull()
		b.AddBool(suspend)
	})
	return err
}
