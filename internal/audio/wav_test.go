package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChimeIsPlayableWAV(t *testing.T) {
	format, samples, err := ParseWAV(Chime())
	require.NoError(t, err)

	assert.Equal(t, ChimeFormat, format)
	var length time.Duration
	for _, tone := range chimeTones {
		length += tone.length
	}
	assert.Len(t, samples, 2*samplesFor(ChimeFormat.SampleRate, length))
	assert.NotEqual(t, make([]byte, len(samples)), samples, "chime is not silence")
}

func TestChimeFadesFromSilence(t *testing.T) {
	_, samples, err := ParseWAV(Chime())
	require.NoError(t, err)

	first := int16(binary.LittleEndian.Uint16(samples[0:2]))
	assert.Zero(t, first)
}

func TestParseWAVSkipsUnknownChunks(t *testing.T) {
	format := Format{SampleRate: 22050, Channels: 2, BitDepth: 16}
	samples := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	encoded := EncodeWAV(format, samples)

	// Insert a LIST chunk with odd length between fmt and data.
	fmtEnd := 12 + 8 + 16
	var list bytes.Buffer
	list.WriteString("LIST")
	_ = binary.Write(&list, binary.LittleEndian, uint32(3))
	list.Write([]byte{'a', 'b', 'c', 0})
	withList := append(append(append([]byte{}, encoded[:fmtEnd]...), list.Bytes()...), encoded[fmtEnd:]...)

	gotFormat, gotSamples, err := ParseWAV(withList)
	require.NoError(t, err)
	assert.Equal(t, format, gotFormat)
	assert.Equal(t, samples, gotSamples)
}

func TestParseWAVTruncatedData(t *testing.T) {
	encoded := EncodeWAV(ChimeFormat, []byte{1, 0, 2, 0, 3, 0})

	_, samples, err := ParseWAV(encoded[:len(encoded)-3])
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0}, samples, "partial frames are dropped")
}

func TestParseWAVOversizedDataChunk(t *testing.T) {
	samples := []byte{1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 6, 0, 7, 0, 8, 0}
	encoded := EncodeWAV(ChimeFormat, samples)

	for _, size := range []uint32{1 << 30, 0xFFFFFFFF} {
		binary.LittleEndian.PutUint32(encoded[40:44], size)

		_, got, err := ParseWAV(encoded)
		require.NoError(t, err)
		assert.Equal(t, samples, got)
		assert.LessOrEqual(t, cap(got), len(encoded), "allocation is bounded by the file")
	}
}

func TestParseWAVRejects(t *testing.T) {
	eightBit := EncodeWAV(Format{SampleRate: 8000, Channels: 1, BitDepth: 8}, []byte{1, 2})
	floatTag := EncodeWAV(ChimeFormat, []byte{1, 0})
	binary.LittleEndian.PutUint16(floatTag[20:22], 3)
	noData := EncodeWAV(ChimeFormat, nil)[:36]
	hugeFmt := EncodeWAV(ChimeFormat, []byte{1, 0})
	binary.LittleEndian.PutUint32(hugeFmt[16:20], 0xFFFFFFFF)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "not riff", data: []byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00")},
		{name: "8-bit", data: eightBit},
		{name: "non-pcm", data: floatTag},
		{name: "no data chunk", data: noData},
		{name: "fmt chunk larger than file", data: hugeFmt},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseWAV(tc.data)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestParseWAVShortInput(t *testing.T) {
	_, _, err := ParseWAV([]byte("RIFF"))
	assert.Error(t, err)
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, clampVolume(-1))
	assert.Equal(t, 0.5, clampVolume(0.5))
	assert.Equal(t, 1.0, clampVolume(3))
}
