package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	minSampleRate = 8000
	maxSampleRate = 192000
)

// convertPCM resamples 16-bit PCM samples to the target rate and channel
// count with linear interpolation. Stereo is averaged down to mono and mono
// is duplicated up to stereo.
func convertPCM(samples []byte, from, to Format) ([]byte, error) {
	if err := checkConvertible(from); err != nil {
		return nil, err
	}
	if from == to {
		return samples, nil
	}

	frames := len(samples) / (2 * from.Channels)
	if frames == 0 {
		return nil, nil
	}
	outFrames := int(int64(frames) * int64(to.SampleRate) / int64(from.SampleRate))
	out := make([]byte, outFrames*2*to.Channels)
	step := float64(from.SampleRate) / float64(to.SampleRate)

	for i := 0; i < outFrames; i++ {
		position := float64(i) * step
		index := int(position)
		fraction := position - float64(index)
		next := min(index+1, frames-1)
		for channel := 0; channel < to.Channels; channel++ {
			a := frameSample(samples, from.Channels, to.Channels, index, channel)
			b := frameSample(samples, from.Channels, to.Channels, next, channel)
			value := math.Round(a + (b-a)*fraction)
			offset := (i*to.Channels + channel) * 2
			binary.LittleEndian.PutUint16(out[offset:], uint16(int16(value)))
		}
	}
	return out, nil
}

// checkConvertible reports whether convertPCM accepts the source format.
func checkConvertible(format Format) error {
	if format.SampleRate < minSampleRate || format.SampleRate > maxSampleRate {
		return fmt.Errorf("sample rate %d Hz: %w", format.SampleRate, ErrUnsupportedFormat)
	}
	return nil
}

func frameSample(samples []byte, channels, outChannels, frame, channel int) float64 {
	base := frame * channels * 2
	sample := func(c int) float64 {
		return float64(int16(binary.LittleEndian.Uint16(samples[base+2*c:])))
	}
	switch {
	case channels == 1:
		return sample(0)
	case outChannels == 1:
		return (sample(0) + sample(1)) / 2
	default:
		return sample(channel)
	}
}
