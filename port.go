package pulseaudio

// Port describes one physical jack/port a sink, source, or card can
// route through, grounded on noisetorch/pulseaudio's sinkPort.
type Port struct {
	Name        string
	Description string
	Priority    uint32
	Available   uint32
}

func readPort(b *Buffer) (Port, error) {
	var p Port
	var err error
	if p.Name, _, err = b.GetString(); err != nil {
		return Port{}, err
	}
	if p.Description, _, err = b.GetString(); err != nil {
		return Port{}, err
	}
	if p.Priority, err = b.GetU32(); err != nil {
		return Port{}, err
	}
	if p.Available, err = b.GetU32(); err != nil {
		return Port{}, err
	}
	return p, nil
}

// CardProfile describes one selectable profile of a Card, grounded on
// noisetorch/pulseaudio's Card profile parsing in card.go.
type CardProfile struct {
	Name        string
	Description string
	NSinks      uint32
	NSources    uint32
	Priority    uint32
	Available   uint32
}

func readCardProfile(b *Buffer) (CardProfile, error) {
	var p CardProfile
	var err error
	if p.Name, _, err = b.GetString(); err != nil {
		return CardProfile{}, err
	}
	if p.Description, _, err = b.GetString(); err != nil {
		return CardProfile{}, err
	}
	if p.NSinks, err = b.GetU32(); err != nil {
		return CardProfile{}, err
	}
	if p.NSources, err = b.GetU32(); err != nil {
		return CardProfile{}, err
	}
	if p.Priority, err = b.GetU32(); err != nil {
		return CardProfile{}, err
	}
	if p.Available, err = b.GetU32(); err != nil {
		return CardProfile{}, err
	}
	return p, nil
}
