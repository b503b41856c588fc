package pulseaudio

import (
	"fmt"
	"os"
)

// defaultSocketPath resolves the per-user local stream socket
// PulseAudio and PipeWire listen on, grounded on lawl/pulseaudio's
// defaultAddr. Like readCookie, this is an external-collaborator
// concern spec.md §1 places out of scope for the core itself.
func defaultSocketPath() string {
	if addr := os.Getenv("PULSE_SERVER"); addr != "" {
		return addr
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return fmt.Sprintf("%s/pulse/native", dir)
	}
	return fmt.Sprintf("/run/user/%d/pulse/native", os.Getuid())
}
