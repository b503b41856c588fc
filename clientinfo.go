package pulseaudio

// ClientInfo is the reply shape for GET_CLIENT_INFO(_LIST). No pack
// source grounds this entity directly; field order follows the same
// index/name/module/driver/proplist shape noisetorch/pulseaudio's
// Module and Card types use for their own info records.
type ClientInfo struct {
	Index       uint32
	Name        string
	ModuleIndex uint32
	Driver      string
	PropList    map[string]string
}

func readClientInfo(b *Buffer) (ClientInfo, error) {
	var c ClientInfo
	var err error

	if c.Index, err = b.GetU32(); err != nil {
		return ClientInfo{}, err
	}
	if c.Name, _, err = b.GetString(); err != nil {
		return ClientInfo{}, err
	}
	if c.ModuleIndex, err = b.GetU32(); err != nil {
		return ClientInfo{}, err
	}
	if c.Driver, _, err = b.GetString(); err != nil {
		return ClientInfo{}, err
	}
	if c.PropList, err = b.GetProps(); err != nil {
		return ClientInfo{}, err
	}
	return c, nil
}

// GetClientInfoList queries every client connected to the server.
func (c *Client) GetClientInfoList() ([]ClientInfo, error) {
	reply, err := c.disp.call(CommandGetClientInfoList, nil)
	if err != nil {
		return nil, err
	}
	var out []ClientInfo
	for !reply.Done() {
		info, err := readClientInfo(reply)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// KillClient forcibly disconnects a client by index.
func (c *Client) KillClient(index uint32) error {
	_, err := c.disp.call(CommandKillClient, func(b *Buffer) {
		b.AddU32(index)
	})
	return err
}
