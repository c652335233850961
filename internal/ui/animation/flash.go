package animation

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// Config contains flash timing values.
type Config struct {
	Interval time.Duration
	Cycles   int
}

// DefaultConfig flashes for about three seconds.
func DefaultConfig() Config {
	return Config{
		Interval: 250 * time.Millisecond,
		Cycles:   6,
	}
}

// Engine alternates between two icons to draw attention to a phase change.
type Engine struct {
	mu         sync.Mutex
	config     Config
	updateIcon func(fyne.Resource)
	cancel     context.CancelFunc
	done       chan struct{}
}

// New creates a new animation engine. updateIcon is called from the
// animation goroutine.
func New(config Config, updateIcon func(fyne.Resource)) *Engine {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if config.Cycles <= 0 {
		config.Cycles = DefaultConfig().Cycles
	}
	return &Engine{config: config, updateIcon: updateIcon}
}

// Flash alternates highlight and rest, ending on rest. A running flash is
// replaced.
func (engine *Engine) Flash(ctx context.Context, highlight, rest fyne.Resource) {
	engine.start(ctx, func(runCtx context.Context) {
		defer engine.updateIcon(rest)
		for i := 0; i < engine.config.Cycles; i++ {
			engine.updateIcon(highlight)
			if !sleepWithContext(runCtx, engine.config.Interval) {
				return
			}
			engine.updateIcon(rest)
			if !sleepWithContext(runCtx, engine.config.Interval) {
				return
			}
		}
	})
}

// Stop terminates any active animation and waits for it to settle.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel := engine.cancel
	done := engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.mu.Lock()
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		run(runCtx)
	}()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
