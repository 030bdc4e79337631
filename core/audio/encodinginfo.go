package audio

const (
	// DefaultCaptureSampleRate matches what the speech recognizers expect.
	DefaultCaptureSampleRate = 16000
	// DefaultPlaybackSampleRate matches what the speech synthesizers produce.
	DefaultPlaybackSampleRate = 24000

	DefaultFormat = "linear16"
)

func DefaultCaptureEncoding() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultCaptureSampleRate, Format: EncodingLinear16}
}

func DefaultPlaybackEncoding() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultPlaybackSampleRate, Format: EncodingLinear16}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

// BytesPerSecond is the raw audio throughput for a single channel.
func (e EncodingInfo) BytesPerSecond() int {
	return e.SampleRate * e.Format.ByteSize()
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
