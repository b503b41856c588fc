package pulseaudio

// CardInfo is the reply shape for GET_CARD_INFO_LIST, grounded on
// noisetorch/pulseaudio's Cards parsing in card.go.
type CardInfo struct {
	Index         uint32
	Name          string
	ModuleIndex   uint32
	Driver        string
	Profiles      map[string]CardProfile
	ActiveProfile string
	PropList      map[string]string
	Ports         []Port
}

func readCardInfo(b *Buffer) (CardInfo, error) {
	var c CardInfo
	var err error

	if c.Index, err = b.GetU32(); err != nil {
		return CardInfo{}, err
	}
	if c.Name, _, err = b.GetString(); err != nil {
		return CardInfo{}, err
	}
	if c.ModuleIndex, err = b.GetU32(); err != nil {
		return CardInfo{}, err
	}
	if c.Driver, _, err = b.GetString(); err != nil {
		return CardInfo{}, err
	}

	profileCount, err := b.GetU32()
	if err != nil {
		return CardInfo{}, err
	}
	c.Profiles = make(map[string]CardProfile, profileCount)
	for i := uint32(0); i < profileCount; i++ {
		p, err := readCardProfile(b)
		if err != nil {
			return CardInfo{}, err
		}
		c.Profiles[p.Name] = p
	}

	if c.ActiveProfile, _, err = b.GetString(); err != nil {
		return CardInfo{}, err
	}
	if c.PropList, err = b.GetProps(); err != nil {
		return CardInfo{}, err
	}

	portCount, err := b.GetU32()
	if err != nil {
		return CardInfo{}, err
	}
	c.Ports = make([]Port, portCount)
	for i := range c.Ports {
		if c.Ports[i], err = readPort(b); err != nil {
			return CardInfo{}, err
		}
	}
	return c, nil
}

// GetCardInfoList queries every sound card known to the server.
func (c *Client) GetCardInfoList() ([]CardInfo, error) {
	reply, err := c.disp.call(CommandGetCardInfoList, nil)
	if err != nil {
		return nil, err
	}
	var out []CardInfo
	for !reply.Done() {
		card, err := readCardInfo(reply)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

// SetCardProfile selects a card's active profile by name.
func (c *Client) SetCardProfile(cardIndex uint32, profileName string) error {
	_, err := c.disp.call(CommandSetCardProfile, func(b *Buffer) {
		b.AddU32(cardIndex)
		b.AddStringNull()
		b.AddString(profileName)
	})
	return err
}
