package timer

import (
	"fmt"
	"sync"
	"time"

	"pomodoro/internal/core/model"
)

// Display receives the formatted status text.
type Display interface {
	SetText(text string)
}

// Notifier delivers a desktop notification. Show must not block.
type Notifier interface {
	Show(title, body string)
}

// Sound plays a short alarm cue. Play must not block.
type Sound interface {
	Play(cue Cue)
}

// Clock reports the current time. Readings must carry a monotonic component
// so that elapsed time survives wall clock changes.
type Clock interface {
	Now() time.Time
}

// Handle identifies a periodic registration. The zero value means none.
type Handle string

// Scheduler drives the engine's tick. RegisterPeriodic must not invoke the
// callback synchronously, and Cancel must not wait for a running callback.
// A callback returning false removes its own registration.
type Scheduler interface {
	RegisterPeriodic(interval time.Duration, callback func() bool) Handle
	Cancel(handle Handle)
}

// Dependencies bundles the collaborators an Engine calls into.
// Nil sinks are skipped; a nil Clock uses the system clock and a nil
// Scheduler runs ticks on their own goroutine.
type Dependencies struct {
	Clock     Clock
	Scheduler Scheduler
	Display   Display
	Notifier  Notifier
	Sound     Sound
}

// Engine is the Pomodoro state machine: Stopped, Working, OnBreak.
type Engine struct {
	mu        sync.Mutex
	config    model.TimerConfig
	deps      Dependencies
	phase     Phase
	duration  time.Duration
	startedAt time.Time
	tick      Handle
	events    []chan Event
	closed    bool
}

type notification struct {
	body  string
	sound bool
}

// effects are computed under the lock and delivered after it is released.
type effects struct {
	label  string
	notice *notification
	event  *Event
}

// New creates a stopped Engine.
func New(config model.TimerConfig, deps Dependencies) *Engine {
	defaults := model.DefaultTimerConfig()
	if config.WorkDuration <= 0 {
		config.WorkDuration = defaults.WorkDuration
	}
	if config.BreakDuration <= 0 {
		config.BreakDuration = defaults.BreakDuration
	}
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Scheduler == nil {
		deps.Scheduler = NewTickerScheduler(nil)
	}

	return &Engine{
		config: config,
		deps:   deps,
		phase:  PhaseStopped,
	}
}

// Subscribe registers a new observer channel for phase changes.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Activate handles the discrete user input: start, abort the pomodoro, or
// end the break.
func (engine *Engine) Activate() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}

	now := engine.deps.Clock.Now()
	previous := engine.phase
	var fx effects

	switch engine.phase {
	case PhaseStopped:
		engine.enterLocked(PhaseWorking, engine.config.WorkDuration, now)
		engine.scheduleLocked()
	case PhaseWorking:
		engine.enterLocked(PhaseOnBreak, engine.config.BreakDuration, now)
		fx.notice = &notification{body: MessageAborted}
	case PhaseOnBreak:
		engine.phase = PhaseStopped
		engine.cancelLocked()
	}

	fx.event = engine.eventLocked(previous, CauseActivate, now)
	fx.label = engine.labelLocked(now)
	engine.mu.Unlock()

	engine.apply(fx)
}

// Tick advances the countdown. It performs at most one phase transition and
// returns false once the timer is stopped.
func (engine *Engine) Tick() bool {
	engine.mu.Lock()
	if engine.closed || engine.phase == PhaseStopped {
		engine.mu.Unlock()
		return false
	}

	now := engine.deps.Clock.Now()
	var fx effects

	if engine.remainingLocked(now) <= 0 {
		previous := engine.phase
		switch engine.phase {
		case PhaseWorking:
			engine.enterLocked(PhaseOnBreak, engine.config.BreakDuration, now)
			fx.notice = &notification{body: MessageBreakTime, sound: true}
		case PhaseOnBreak:
			engine.phase = PhaseStopped
			engine.cancelLocked()
			fx.notice = &notification{body: MessageBreakOver, sound: true}
		}
		fx.event = engine.eventLocked(previous, CauseExpired, now)
	}

	fx.label = engine.labelLocked(now)
	running := engine.phase != PhaseStopped
	engine.mu.Unlock()

	engine.apply(fx)
	return running
}

// Label renders the current state for display.
func (engine *Engine) Label() string {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.labelLocked(engine.deps.Clock.Now())
}

// Phase returns the current phase.
func (engine *Engine) Phase() Phase {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.phase
}

// Remaining returns the time left in the active phase, or zero when stopped.
func (engine *Engine) Remaining() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.phase == PhaseStopped {
		return 0
	}
	remaining := engine.remainingLocked(engine.deps.Clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Close cancels any live tick registration and closes observers. The
// engine ignores all further input.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.cancelLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) enterLocked(phase Phase, duration time.Duration, now time.Time) {
	engine.phase = phase
	engine.duration = duration
	engine.startedAt = now
}

func (engine *Engine) scheduleLocked() {
	engine.cancelLocked()
	engine.tick = engine.deps.Scheduler.RegisterPeriodic(engine.config.TickInterval, engine.Tick)
}

func (engine *Engine) cancelLocked() {
	if engine.tick == "" {
		return
	}
	engine.deps.Scheduler.Cancel(engine.tick)
	engine.tick = ""
}

func (engine *Engine) remainingLocked(now time.Time) time.Duration {
	return engine.duration - now.Sub(engine.startedAt)
}

func (engine *Engine) labelLocked(now time.Time) string {
	if engine.phase == PhaseStopped {
		return IdleLabel
	}
	return FormatLabel(engine.phase, engine.remainingLocked(now))
}

func (engine *Engine) eventLocked(previous Phase, cause Cause, now time.Time) *Event {
	event := Event{
		Phase:    engine.phase,
		Previous: previous,
		Cause:    cause,
		At:       now,
	}
	if engine.phase != PhaseStopped {
		event.Remaining = engine.duration
	}
	return &event
}

func (engine *Engine) apply(fx effects) {
	if fx.notice != nil {
		if engine.deps.Notifier != nil {
			engine.deps.Notifier.Show(NotificationTitle, fx.notice.body)
		}
		if fx.notice.sound && engine.deps.Sound != nil {
			engine.deps.Sound.Play(CueTimerExpired)
		}
	}
	if engine.deps.Display != nil {
		engine.deps.Display.SetText(fx.label)
	}
	if fx.event != nil {
		engine.emit(*fx.event)
	}
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// FormatLabel renders a countdown as "Work: MM:SS" or "Break: MM:SS".
// Partial seconds are truncated and negative values render as 00:00.
func FormatLabel(phase Phase, remaining time.Duration) string {
	seconds := int(remaining / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	switch phase {
	case PhaseWorking:
		return fmt.Sprintf("Work: %02d:%02d", seconds/60, seconds%60)
	case PhaseOnBreak:
		return fmt.Sprintf("Break: %02d:%02d", seconds/60, seconds%60)
	default:
		return IdleLabel
	}
}
