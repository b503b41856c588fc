package pulseaudio

import (
	"os"
	"path/filepath"
)

// cookieSize is the fixed length of a PulseAudio authentication
// cookie, per spec.md §4.3's AUTH command.
const cookieSize = 256

// readCookie locates the local authentication cookie, trying
// $PULSE_COOKIE, then ~/.config/pulse/cookie, then the legacy
// ~/.pulse-cookie, and finally falling back to 256 zero bytes — which
// PulseAudio and PipeWire both accept for same-user local transport.
// This is one of the external collaborators spec.md §1 calls out as
// out of scope for the core; it exists only to hand the core a byte
// string.
func readCookie() []byte {
	if path := os.Getenv("PULSE_COOKIE"); path != "" {
		if data, err := os.ReadFile(path); err == nil && len(data) >= cookieSize {
			return data[:cookieSize]
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return make([]byte, cookieSize)
	}

	if data, err := os.ReadFile(filepath.Join(home, ".config", "pulse", "cookie")); err == nil && len(data) >= cookieSize {
		return data[:cookieSize]
	}

	if data, err := os.ReadFile(filepath.Join(home, ".pulse-cookie")); err == nil && len(data) >= cookieSize {
		return data[:cookieSize]
	}

	return make([]byte, cookieSize)
}
