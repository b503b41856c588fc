package pulseaudio

// ServerInfo is the reply to GET_SERVER_INFO, grounded on
// noisetorch/pulseaudio's Server.ReadFrom field order.
type ServerInfo struct {
	PackageName    string
	PackageVersion string
	User           string
	Hostname       string
	SampleSpec     SampleSpec
	DefaultSink    string
	DefaultSource  string
	Cookie         uint32
	ChannelMap     []uint8
}

func readServerInfo(b *Buffer) (ServerInfo, error) {
	var s ServerInfo
	var err error

	if s.PackageName, _, err = b.GetString(); err != nil {
		return ServerInfo{}, err
	}
	if s.PackageVersion, _, err = b.GetString(); err != nil {
		return ServerInfo{}, err
	}
	if s.User, _, err = b.GetString(); err != nil {
		return ServerInfo{}, err
	}
	if s.Hostname, _, err = b.GetString(); err != nil {
		return ServerInfo{}, err
	}
	if s.SampleSpec, err = b.GetSampleSpec(); err != nil {
		return ServerInfo{}, err
	}
	if s.DefaultSink, _, err = b.GetString(); err != nil {
		return ServerInfo{}, err
	}
	if s.DefaultSource, _, err = b.GetString(); err != nil {
		return ServerInfo{}, err
	}
	if s.Cookie, err = b.GetU32(); err != nil {
		return ServerInfo{}, err
	}
	if s.ChannelMap, err = b.GetChannelMap(); err != nil {
		return ServerInfo{}, err
	}
	return s, nil
}

// GetServerInfo queries server identification, default sink/source,
// and cookie.
func (c *Client) GetServerInfo() (ServerInfo, error) {
	reply, err := c.disp.call(CommandGetServerInfo, nil)
	if err != nil {
		return ServerInfo{}, err
	}
	return readServerInfo(reply)
}

// SetDefaultSink changes the server's default sink by name.
func (c *Client) SetDefaultSink(name string) error {
	_, err := c.disp.call(CommandSetDefaultSink, func(b *Buffer) { b.AddString(name) })
	return err
}

// SetDefaultSource changes the server's default source by name.
func (c *Client) SetDefaultSource(name string) error {
	_, err := c.disp.call(CommandSetDefaultSource, func(b *Buffer) { b.AddString(name) })
	return err
}
