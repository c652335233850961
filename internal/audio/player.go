package audio

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays WAV sounds through a lazily created oto context. oto allows
// one context per process, so every sound is converted to one output format.
type Player struct {
	mu      sync.Mutex
	context *oto.Context
	format  Format
	initErr error
	current *oto.Player
	volume  float64
}

// NewPlayer creates a player at full volume that outputs ChimeFormat.
func NewPlayer() *Player {
	return &Player{format: ChimeFormat, volume: 1}
}

// Play starts playing WAV data once and returns without waiting. A running
// sound is stopped first.
func (p *Player) Play(wavData []byte) error {
	format, samples, err := ParseWAV(wavData)
	if err != nil {
		return fmt.Errorf("parse wav: %w", err)
	}
	samples, err = convertPCM(samples, format, p.format)
	if err != nil {
		return fmt.Errorf("convert wav: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	context, err := p.contextLocked()
	if err != nil {
		return err
	}

	if p.current != nil {
		p.current.Pause()
	}

	player := context.NewPlayer(bytes.NewReader(samples))
	player.SetVolume(p.volume)
	player.Play()
	p.current = player

	go p.release(player)
	return nil
}

// Stop pauses the running sound, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Pause()
		p.current = nil
	}
}

// SetVolume sets the volume for the running and future sounds.
func (p *Player) SetVolume(volume float64) {
	volume = clampVolume(volume)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	if p.current != nil {
		p.current.SetVolume(volume)
	}
}

func (p *Player) contextLocked() (*oto.Context, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}
	if p.context != nil {
		return p.context, nil
	}

	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   p.format.SampleRate,
		ChannelCount: p.format.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		p.initErr = fmt.Errorf("init audio context: %w", err)
		return nil, p.initErr
	}
	<-ready

	p.context = context
	log.Printf("audio: output ready at %d Hz, %d channels", p.format.SampleRate, p.format.Channels)
	return context, nil
}

func (p *Player) release(player *oto.Player) {
	for player.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}

	p.mu.Lock()
	if p.current == player {
		p.current = nil
	}
	p.mu.Unlock()

	if err := player.Close(); err != nil {
		log.Printf("audio: close player: %v", err)
	}
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
