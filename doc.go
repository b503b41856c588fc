// Package pulseaudio is a pure-Go client for the PulseAudio native
// protocol (version 32 and above). It opens a local stream connection
// to a PulseAudio (or PipeWire-pulse) daemon, authenticates, issues
// introspection and control commands, and moves PCM audio bytes to and
// from the server through long-lived playback, record, and upload
// streams with credit-based flow control.
//
// The package intentionally does not implement shared-memory transport,
// protocol versions below 32, dB/percent volume curve conversions, WAV
// channel-map defaults beyond mono/stereo, or audio format conversion —
// callers ship and receive opaque PCM bytes.
package pulseaudio
