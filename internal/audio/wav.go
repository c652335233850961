package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedFormat indicates WAV data the player cannot play.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

const pcmFormatTag = 1

// Format holds the PCM layout of a sound.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ParseWAV parses 16-bit PCM WAV data and returns its format and samples.
func ParseWAV(data []byte) (Format, []byte, error) {
	reader := bytes.NewReader(data)

	var header [12]byte
	if _, err := io.ReadFull(reader, header[:]); err != nil {
		return Format{}, nil, fmt.Errorf("read wav header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return Format{}, nil, fmt.Errorf("not a RIFF/WAVE file: %w", ErrUnsupportedFormat)
	}

	var format Format
	haveFormat := false

	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(reader, chunkID[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return Format{}, nil, fmt.Errorf("wav has no data chunk: %w", ErrUnsupportedFormat)
			}
			return Format{}, nil, fmt.Errorf("read chunk id: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return Format{}, nil, fmt.Errorf("read chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if chunkSize < 16 {
				return Format{}, nil, fmt.Errorf("fmt chunk too short: %w", ErrUnsupportedFormat)
			}
			if int64(chunkSize) > int64(reader.Len()) {
				return Format{}, nil, fmt.Errorf("fmt chunk of %d bytes exceeds file: %w", chunkSize, ErrUnsupportedFormat)
			}
			chunk := make([]byte, chunkSize)
			if _, err := io.ReadFull(reader, chunk); err != nil {
				return Format{}, nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			if tag := binary.LittleEndian.Uint16(chunk[0:2]); tag != pcmFormatTag {
				return Format{}, nil, fmt.Errorf("format tag %d: %w", tag, ErrUnsupportedFormat)
			}
			format.Channels = int(binary.LittleEndian.Uint16(chunk[2:4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(chunk[4:8]))
			format.BitDepth = int(binary.LittleEndian.Uint16(chunk[14:16]))
			if format.BitDepth != 16 {
				return Format{}, nil, fmt.Errorf("%d-bit samples: %w", format.BitDepth, ErrUnsupportedFormat)
			}
			if format.Channels < 1 || format.Channels > 2 || format.SampleRate <= 0 {
				return Format{}, nil, fmt.Errorf("%d channels at %d Hz: %w", format.Channels, format.SampleRate, ErrUnsupportedFormat)
			}
			haveFormat = true
		case "data":
			if !haveFormat {
				return Format{}, nil, fmt.Errorf("data chunk before fmt chunk: %w", ErrUnsupportedFormat)
			}
			// Truncated files still play what they have.
			samples := make([]byte, min(int64(chunkSize), int64(reader.Len())))
			n, err := io.ReadFull(reader, samples)
			if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
				return Format{}, nil, fmt.Errorf("read data chunk: %w", err)
			}
			return format, samples[:n-n%(2*format.Channels)], nil
		default:
			skip := int64(chunkSize) + int64(chunkSize%2)
			if _, err := reader.Seek(skip, io.SeekCurrent); err != nil {
				return Format{}, nil, fmt.Errorf("skip chunk: %w", err)
			}
		}
	}
}

// EncodeWAV wraps 16-bit PCM samples in a WAV container.
func EncodeWAV(format Format, samples []byte) []byte {
	var buf bytes.Buffer
	blockAlign := format.Channels * format.BitDepth / 8

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(pcmFormatTag))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(format.Channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(format.SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(format.SampleRate*blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(format.BitDepth))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)

	return buf.Bytes()
}
