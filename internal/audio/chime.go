package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
)

// ChimeFormat is the PCM layout of the built-in alarm.
var ChimeFormat = Format{SampleRate: 44100, Channels: 1, BitDepth: 16}

type tone struct {
	frequency float64
	length    time.Duration
}

// Three rising notes separated by short rests.
var chimeTones = []tone{
	{frequency: 784, length: 140 * time.Millisecond},
	{frequency: 0, length: 50 * time.Millisecond},
	{frequency: 988, length: 140 * time.Millisecond},
	{frequency: 0, length: 50 * time.Millisecond},
	{frequency: 1175, length: 320 * time.Millisecond},
}

const (
	chimeAmplitude = 0.45
	chimeFade      = 8 * time.Millisecond
)

var (
	chimeOnce sync.Once
	chimeWAV  []byte
)

// Chime returns the built-in alarm as WAV data.
func Chime() []byte {
	chimeOnce.Do(func() {
		chimeWAV = EncodeWAV(ChimeFormat, synthesize(ChimeFormat.SampleRate, chimeTones))
	})
	return chimeWAV
}

func synthesize(sampleRate int, tones []tone) []byte {
	var total int
	for _, t := range tones {
		total += samplesFor(sampleRate, t.length)
	}

	out := make([]byte, 0, total*2)
	fade := samplesFor(sampleRate, chimeFade)
	for _, t := range tones {
		count := samplesFor(sampleRate, t.length)
		for i := 0; i < count; i++ {
			var value float64
			if t.frequency > 0 {
				envelope := 1.0
				if i < fade {
					envelope = float64(i) / float64(fade)
				} else if count-i < fade {
					envelope = float64(count-i) / float64(fade)
				}
				phase := 2 * math.Pi * t.frequency * float64(i) / float64(sampleRate)
				value = math.Sin(phase) * envelope * chimeAmplitude
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(value*math.MaxInt16)))
		}
	}
	return out
}

func samplesFor(sampleRate int, length time.Duration) int {
	return int(int64(sampleRate) * int64(length) / int64(time.Second))
}
