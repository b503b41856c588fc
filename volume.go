package pulseaudio

// Volume sentinels and the channel-count ceiling, per spec.md §6
// "Sentinels".
const (
	VolumeMuted   uint32 = 0
	VolumeNorm    uint32 = 0x10000
	VolumeMax     uint32 = 0x7FFFFFFF
	VolumeInvalid uint32 = 0xFFFFFFFF

	MaxChannels = 32
)

// Default sink/source names the server resolves to whatever is
// currently selected as the system default, per spec.md §6.
const (
	DefaultSinkName   = "@DEFAULT_SINK@"
	DefaultSourceName = "@DEFAULT_SOURCE@"
)

// Sample format codes, per spec.md §4.3 "Sample format codes".
const (
	SampleFormatU8        uint8 = 0
	SampleFormatALAW      uint8 = 1
	SampleFormatULAW      uint8 = 2
	SampleFormatS16LE     uint8 = 3
	SampleFormatS16BE     uint8 = 4
	SampleFormatFloat32LE uint8 = 5
	SampleFormatFloat32BE uint8 = 6
	SampleFormatS32LE     uint8 = 7
	SampleFormatS32BE     uint8 = 8
	SampleFormatS24LE     uint8 = 9
	SampleFormatS24BE     uint8 = 10
	SampleFormatS24_32LE  uint8 = 11
	SampleFormatS24_32BE  uint8 = 12
)

// sampleFormatBytes is the per-sample byte size table from spec.md
// §4.3, indexed by sample format code.
var sampleFormatBytes = map[uint8]uint32{
	SampleFormatU8:        1,
	SampleFormatALAW:      1,
	SampleFormatULAW:      1,
	SampleFormatS16LE:     2,
	SampleFormatS16BE:     2,
	SampleFormatFloat32LE: 4,
	SampleFormatFloat32BE: 4,
	SampleFormatS32LE:     4,
	SampleFormatS32BE:     4,
	SampleFormatS24LE:     3,
	SampleFormatS24BE:     3,
	SampleFormatS24_32LE:  4,
	SampleFormatS24_32BE:  4,
}

// Format-info encoding codes. PCM is the only encoding this core
// builds streams with; the others are accepted when parsing
// FormatInfo from the server but never constructed locally.
const (
	EncodingAny              uint8 = 0
	EncodingPCM              uint8 = 1
	EncodingAC3IEC61937      uint8 = 2
	EncodingEAC3IEC61937     uint8 = 3
	EncodingMPEGIEC61937     uint8 = 4
	EncodingDTSIEC61937      uint8 = 5
	EncodingMPEG2AACIEC61937 uint8 = 6
)
