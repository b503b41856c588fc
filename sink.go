package pulseaudio

import "fmt"

// SinkInfo is the reply shape for GET_SINK_INFO(_LIST), per spec.md
// §4.3's "Source/sink info" field order, grounded on
// noisetorch/pulseaudio's Sink.ReadFrom.
type SinkInfo struct {
	Index              uint32
	Name               string
	Description        string
	SampleSpec         SampleSpec
	ChannelMap         []uint8
	ModuleIndex        uint32
	Volume             []uint32
	Muted              bool
	MonitorSourceIndex uint32
	MonitorSourceName  string
	Latency            uint64
	Driver             string
	Flags              uint32
	PropList           map[string]string
	RequestedLatency   uint64
	BaseVolume         uint32
	State              uint32
	VolumeSteps        uint32
	CardIndex          uint32
	Ports              []Port
	ActivePortName     string
	Formats            []FormatInfo
}

func readSinkInfo(b *Buffer) (SinkInfo, error) {
	var s SinkInfo
	var err error

	if s.Index, err = b.GetU32(); err != nil {
		return SinkInfo{}, err
	}
	if s.Name, _, err = b.GetString(); err != nil {
		return SinkInfo{}, err
	}
	if s.Description, _, err = b.GetString(); err != nil {
		return SinkInfo{}, err
	}
	if s.SampleSpec, err = b.GetSampleSpec(); err != nil {
		return SinkInfo{}, err
	}
	if s.ChannelMap, err = b.GetChannelMap(); err != nil {
		return SinkInfo{}, err
	}
	if s.ModuleIndex, err = b.GetU32(); err != nil {
		return SinkInfo{}, err
	}
	if s.Volume, err = b.GetCvolume(); err != nil {
		return SinkInfo{}, err
	}
	if s.Muted, err = b.GetBool(); err != nil {
		return SinkInfo{}, err
	}
	if s.MonitorSourceIndex, err = b.GetU32(); err != nil {
		return SinkInfo{}, err
	}
	if s.MonitorSourceName, _, err = b.GetString(); err != nil {
		return SinkInfo{}, err
	}
	if s.Latency, err = b.GetUsec(); err != nil {
		return SinkInfo{}, err
	}
	if s.Driver, _, err = b.GetString(); err != nil {
		return SinkInfo{}, err
	}
	if s.Flags, err = b.GetU32(); err != nil {
		return SinkInfo{}, err
	}
	if s.PropList, err = b.GetProps(); err != nil {
		return SinkInfo{}, err
	}
	if s.RequestedLatency, err = b.GetUsec(); err != nil {
		return SinkInfo{}, err
	}
	if s.BaseVolume, err = b.GetVolume(); err != nil {
		return SinkInfo{}, err
	}
	if s.State, err = b.GetU32(); err != nil {
		return SinkInfo{}, err
	}
	if s.VolumeSteps, err = b.GetU32(); err != nil {
		return SinkInfo{}, err
	}
	if s.CardIndex, err = b.GetU32(); err != nil {
		return SinkInfo{}, err
	}

	portCount, err := b.GetU32()
	if err != nil {
		return SinkInfo{}, err
	}
	s.Ports = make([]Port, portCount)
	for i := range s.Ports {
		if s.Ports[i], err = readPort(b); err != nil {
			return SinkInfo{}, err
		}
	}
	if s.ActivePortName, _, err = b.GetString(); err != nil {
		return SinkInfo{}, err
	}

	formatCount, err := b.GetU8()
	if err != nil {
		return SinkInfo{}, err
	}
	s.Formats = make([]FormatInfo, formatCount)
	for i := range s.Formats {
		if s.Formats[i], err = b.GetFormatInfo(); err != nil {
			return SinkInfo{}, err
		}
	}
	return s, nil
}

// GetSinkInfoList queries every sink known to the server.
func (c *Client) GetSinkInfoList() ([]SinkInfo, error) {
	reply, err := c.disp.call(CommandGetSinkInfoList, nil)
	if err != nil {
		return nil, err
	}
	var out []SinkInfo
	for !reply.Done() {
		s, err := readSinkInfo(reply)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GetSinkInfoByName queries one sink by name.
func (c *Client) GetSinkInfoByName(name string) (SinkInfo, error) {
	reply, err := c.disp.call(CommandGetSinkInfo, func(b *Buffer) {
		b.AddU32(NoIndex)
		b.AddString(name)
	})
	if err != nil {
		return SinkInfo{}, err
	}
	return readSinkInfo(reply)
}

// GetSinkInfoByIndex queries one sink by its server-assigned index.
func (c *Client) GetSinkInfoByIndex(index uint32) (SinkInfo, error) {
	reply, err := c.disp.call(CommandGetSinkInfo, func(b *Buffer) {
		b.AddU32(index)
		b.AddStringNull()
	})
	if err != nil {
		return SinkInfo{}, err
	}
	return readSinkInfo(reply)
}

// SetSinkVolume sets the per-channel volume of a sink.
func (c *Client) SetSinkVolume(index uint32, volume []uint32) error {
	if len(volume) < 1 || len(volume) > 32 {
		return &UsageError{Err: fmt.Errorf("volume array length %d out of range 1..32", len(volume))}
	}
	_, err := c.disp.call(CommandSetSinkVolume, func(b *Buffer) {
		b.AddU32(index)
		b.AddStringNull()
		b.AddCvolume(volume)
	})
	return err
}

// SetSinkMute sets or clears a sink's mute flag.
func (c *Client) SetSinkMute(index uint32, muted bool) error {
	_, err := c.disp.call(CommandSetSinkMute, func(b *Buffer) {
		b.AddU32(index)
		b.AddStringNull()
		b.AddBool(muted)
	})
	return err
}

// SuspendSink suspends or resumes a sink.
func (c *Client) SuspendSink(index uint32, suspend bool) error {
	_, err := c.disp.call(CommandSuspendSink, func(b *Buffer) {
		b.AddU32(index)
		b.AddStringNull()
		b.AddBool(suspend)
	})
	return err
}
