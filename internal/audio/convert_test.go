package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcm(values ...int16) []byte {
	out := make([]byte, 2*len(values))
	for i, value := range values {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(value))
	}
	return out
}

func TestConvertPCM(t *testing.T) {
	mono22 := Format{SampleRate: 22050, Channels: 1, BitDepth: 16}
	stereo44 := Format{SampleRate: 44100, Channels: 2, BitDepth: 16}

	tests := []struct {
		name    string
		samples []byte
		from    Format
		to      Format
		want    []byte
	}{
		{name: "same format", samples: pcm(1, 2, 3), from: ChimeFormat, to: ChimeFormat, want: pcm(1, 2, 3)},
		{name: "upsample interpolates", samples: pcm(0, 100), from: mono22, to: ChimeFormat, want: pcm(0, 50, 100, 100)},
		{name: "stereo to mono averages", samples: pcm(100, 200, -100, -300), from: stereo44, to: ChimeFormat, want: pcm(150, -200)},
		{name: "mono to stereo duplicates", samples: pcm(7, -7), from: ChimeFormat, to: stereo44, want: pcm(7, 7, -7, -7)},
		{name: "empty", samples: nil, from: mono22, to: ChimeFormat, want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := convertPCM(tc.samples, tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConvertPCMRejectsExtremeRates(t *testing.T) {
	for _, rate := range []int{1, 7999, 192001} {
		_, err := convertPCM(pcm(1), Format{SampleRate: rate, Channels: 1, BitDepth: 16}, ChimeFormat)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, rate)
	}
}
