package audio

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"pomodoro/internal/core/timer"
)

// Output plays WAV data. *Player satisfies it.
type Output interface {
	Play(wavData []byte) error
	SetVolume(volume float64)
}

// Alarm is the timer's sound sink. Playback runs on its own goroutine and
// failures are logged.
type Alarm struct {
	output    Output
	mu        sync.RWMutex
	enabled   bool
	soundFile string
	wg        sync.WaitGroup
}

// NewAlarm creates an enabled alarm that plays the built-in chime.
func NewAlarm(output Output) *Alarm {
	return &Alarm{output: output, enabled: true}
}

// Configure applies user preferences. An empty soundFile selects the
// built-in chime.
func (alarm *Alarm) Configure(enabled bool, soundFile string, volume float64) {
	alarm.mu.Lock()
	alarm.enabled = enabled
	alarm.soundFile = soundFile
	alarm.mu.Unlock()
	alarm.output.SetVolume(volume)
}

// Play implements timer.Sound.
func (alarm *Alarm) Play(cue timer.Cue) {
	alarm.mu.RLock()
	enabled := alarm.enabled
	soundFile := alarm.soundFile
	alarm.mu.RUnlock()
	if !enabled {
		return
	}

	alarm.wg.Add(1)
	go func() {
		defer alarm.wg.Done()
		err := alarm.output.Play(loadSound(soundFile))
		if err != nil && soundFile != "" && errors.Is(err, ErrUnsupportedFormat) {
			log.Printf("audio: play %s: %v, using built-in chime", cue, err)
			err = alarm.output.Play(Chime())
		}
		if err != nil {
			log.Printf("audio: play %s: %v", cue, err)
		}
	}()
}

// Wait blocks until every started playback request has been handed to the
// output.
func (alarm *Alarm) Wait() {
	alarm.wg.Wait()
}

func loadSound(soundFile string) []byte {
	if soundFile == "" {
		return Chime()
	}
	data, err := readSound(soundFile)
	if err != nil {
		log.Printf("audio: %v, using built-in chime", err)
		return Chime()
	}
	return data
}

func readSound(soundFile string) ([]byte, error) {
	data, err := os.ReadFile(soundFile)
	if err != nil {
		return nil, fmt.Errorf("read sound file: %w", err)
	}
	format, _, err := ParseWAV(data)
	if err == nil {
		err = checkConvertible(format)
	}
	if err != nil {
		return nil, fmt.Errorf("sound file %s: %w", soundFile, err)
	}
	return data, nil
}
