package pulseaudio

import (
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/imdario/mergo"
)

// protocolVersion is the native protocol version this client speaks.
// spec.md §1 scopes the core to version ≥ 32 servers.
const protocolVersion = 32

// ClientOptions configures Dial. The zero value is valid; ClientOptions{}
// merged with DefaultClientOptions() picks sensible defaults the way
// gophertribe-pulseaudio's Opts/mergo.Merge pattern does.
type ClientOptions struct {
	// Address is the Unix domain socket path to dial. Empty means
	// resolve it from $PULSE_SERVER, $XDG_RUNTIME_DIR, or the uid-based
	// default path.
	Address string

	// Cookie is the 256-byte authentication cookie. Empty means read
	// it from disk via the usual PulseAudio search order.
	Cookie []byte

	// DialTimeout bounds the initial socket connect.
	DialTimeout time.Duration

	// Name is the client name announced via SET_CLIENT_NAME.
	Name string

	// Properties seeds the client's property list (application name,
	// icon, etc.) sent alongside Name.
	Properties map[string]string

	// Logger receives structured diagnostics from the dispatcher and
	// stream engine. charmbracelet/log's default logger (log.Default())
	// is used if nil.
	Logger *log.Logger
}

// DefaultClientOptions returns the options Dial uses for any field the
// caller leaves at its zero value.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Address:     defaultSocketPath(),
		DialTimeout: 5 * time.Second,
		Name:        "go-pulseaudio",
		Logger:      log.Default(),
	}
}

// Client is a connection to a PulseAudio server. It is safe for
// concurrent use: every public method may be called from any
// goroutine; internally all protocol state lives on the dispatcher's
// single main-loop goroutine.
type Client struct {
	disp       *dispatcher
	clientIdx  uint32
	properties map[string]string
}

// Dial connects to a PulseAudio server, authenticates, and announces
// the client's name and properties. The returned Client is ready for
// use; callers should defer Close.
func Dial(opts ClientOptions) (*Client, error) {
	defaults := DefaultClientOptions()
	if err := mergo.Merge(&opts, defaults); err != nil {
		return nil, fmt.Errorf("pulseaudio: merging client options: %w", err)
	}
	if opts.Cookie == nil {
		opts.Cookie = readCookie()
	}

	conn, err := net.DialTimeout("unix", opts.Address, opts.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("pulseaudio: dial %s: %w", opts.Address, err)
	}

	disp := newDispatcher(conn, opts.Logger)
	c := &Client{disp: disp, properties: opts.Properties}

	if err := c.auth(opts.Cookie); err != nil {
		disp.close()
		return nil, err
	}
	if err := c.setClientName(opts.Name, opts.Properties); err != nil {
		disp.close()
		return nil, err
	}
	return c, nil
}

// auth sends AUTH and validates the negotiated protocol version,
// per spec.md §4.3.
func (c *Client) auth(cookie []byte) error {
	padded := make([]byte, cookieSize)
	copy(padded, cookie)

	reply, err := c.disp.call(CommandAuth, func(b *Buffer) {
		b.AddU32(protocolVersion)
		b.AddArbitrary(padded)
	})
	if err != nil {
		return err
	}
	raw, err := reply.GetU32()
	if err != nil {
		return &ProtocolError{Err: err}
	}
	negotiated := raw & 0x0000ffff
	if negotiated < protocolVersion {
		return &ProtocolError{Err: fmt.Errorf("server negotiated protocol version %d, need >= %d", negotiated, protocolVersion)}
	}
	return nil
}

func (c *Client) setClientName(name string, props map[string]string) error {
	flat := make(map[string]string, len(props)+1)
	for k, v := range props {
		flat[k] = v
	}
	if name != "" {
		flat["application.name"] = name
	}

	reply, err := c.disp.call(CommandSetClientName, func(b *Buffer) { b.AddProps(flat) })
	if err != nil {
		return err
	}
	idx, err := reply.GetU32()
	if err != nil {
		return &ProtocolError{Err: err}
	}
	c.clientIdx = idx
	return nil
}

// Index is the server-assigned index of this connection's client
// object.
func (c *Client) Index() uint32 { return c.clientIdx }

// Close disconnects from the server. Outstanding requests and open
// streams observe ErrDisconnected rather than a connection-error
// notification, per spec.md §7's "user-initiated close completes
// silently".
func (c *Client) Close() error { return c.disp.close() }

// Connected reports whether the connection is still live.
func (c *Client) Connected() bool {
	select {
	case <-c.disp.done:
		return false
	default:
		return true
	}
}

// OnEvent registers fn against a subscribe-event pattern: "event",
// "event.<facility>", "event.<operation>", or
// "event.<facility>.<operation>" (see Facility and Operation String
// methods for the vocabulary). The dispatcher subscribes to the server
// on the first registration across all patterns and unsubscribes when
// the last one is removed.
func (c *Client) OnEvent(pattern string, fn EventListener) (unsubscribe func()) {
	return c.disp.events.Subscribe(pattern, fn)
}
