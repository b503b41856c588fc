package pulseaudio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the fixed size of a PulseAudio packet descriptor: five
// 32-bit big-endian unsigned integers.
const HeaderSize = 20

// NoIndex is PA_NO_INDEX == PA_NO_TAG == PA_NO_VALUE: the sentinel
// meaning "not a memory-block channel" in a packet header, and
// "no such index/tag/value" everywhere else it appears on the wire.
const NoIndex uint32 = 0xFFFFFFFF

// frameSizeMax bounds how large a single packet body may be, guarding
// against a corrupt or hostile length field forcing an unbounded
// allocation. Grounded on noisetorch/pulseaudio's frameSizeMaxAllow.
const frameSizeMax = 1024 * 1024 * 16

// Header is a packet descriptor: the 20 bytes preceding every packet
// body on the wire.
type Header struct {
	Length   uint32
	Channel  uint32
	OffsetHi uint32
	OffsetLo uint32
	Flags    uint32
}

// IsMemoryBlock reports whether this header describes a memory-block
// packet (destined for a record stream) rather than a command/event
// tagstruct.
func (h Header) IsMemoryBlock() bool { return h.Channel != NoIndex }

// encodeHeader serializes a Header to its 20-byte wire form.
func encodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.Length)
	binary.BigEndian.PutUint32(buf[4:8], h.Channel)
	binary.BigEndian.PutUint32(buf[8:12], h.OffsetHi)
	binary.BigEndian.PutUint32(buf[12:16], h.OffsetLo)
	binary.BigEndian.PutUint32(buf[16:20], h.Flags)
	return buf
}

// decodeHeader parses a 20-byte descriptor.
func decodeHeader(buf []byte) (Header, error) {
	if len(buf) != HeaderSize {
		return Header{}, fmt.Errorf("pulseaudio: framing error: descriptor must be %d bytes, got %d", HeaderSize, len(buf))
	}
	return Header{
		Length:   binary.BigEndian.Uint32(buf[0:4]),
		Channel:  binary.BigEndian.Uint32(buf[4:8]),
		OffsetHi: binary.BigEndian.Uint32(buf[8:12]),
		OffsetLo: binary.BigEndian.Uint32(buf[12:16]),
		Flags:    binary.BigEndian.Uint32(buf[16:20]),
	}, nil
}

// readPacket reads one full packet (descriptor + body) from r. Any
// short read — including on the body, once the descriptor announced
// its length — is a fatal framing error, per spec.md §4.2.
func readPacket(r io.Reader) (Header, []byte, error) {
	hdrBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return Header{}, nil, fmt.Errorf("pulseaudio: framing error: reading descriptor: %w", err)
	}
	h, err := decodeHeader(hdrBuf)
	if err != nil {
		return Header{}, nil, err
	}
	if h.Length > frameSizeMax {
		return Header{}, nil, fmt.Errorf("pulseaudio: framing error: body length %d exceeds maximum %d", h.Length, frameSizeMax)
	}
	body := make([]byte, h.Length)
	if h.Length > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return Header{}, nil, fmt.Errorf("pulseaudio: framing error: reading body (%d bytes): %w", h.Length, err)
		}
	}
	return h, body, nil
}

// writeTagstructPacket frames a command/event tagstruct body (channel
// set to NoIndex) and writes it to w in one call, preserving order.
func writeTagstructPacket(w io.Writer, body []byte) error {
	return writePacket(w, NoIndex, body)
}

// writeMemoryBlockPacket frames a PCM chunk destined for the given
// stream channel.
func writeMemoryBlockPacket(w io.Writer, channel uint32, body []byte) error {
	return writePacket(w, channel, body)
}

func writePacket(w io.Writer, channel uint32, body []byte) error {
	h := Header{Length: uint32(len(body)), Channel: channel}
	if _, err := w.Write(encodeHeader(h)); err != nil {
		return fmt.Errorf("pulseaudio: writing descriptor: %w", err)
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("pulseaudio: writing body: %w", err)
		}
	}
	return nil
}
