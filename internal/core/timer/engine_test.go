package timer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/model"
)

type fakeClock struct {
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	return clock.now
}

func (clock *fakeClock) Advance(delta time.Duration) {
	clock.now = clock.now.Add(delta)
}

type fakeScheduler struct {
	next      int
	intervals map[Handle]time.Duration
	callbacks map[Handle]func() bool
	cancelled []Handle
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		intervals: make(map[Handle]time.Duration),
		callbacks: make(map[Handle]func() bool),
	}
}

func (scheduler *fakeScheduler) RegisterPeriodic(interval time.Duration, callback func() bool) Handle {
	scheduler.next++
	handle := Handle(fmt.Sprintf("h%d", scheduler.next))
	scheduler.intervals[handle] = interval
	scheduler.callbacks[handle] = callback
	return handle
}

func (scheduler *fakeScheduler) Cancel(handle Handle) {
	if _, ok := scheduler.callbacks[handle]; !ok {
		return
	}
	delete(scheduler.callbacks, handle)
	scheduler.cancelled = append(scheduler.cancelled, handle)
}

// fire invokes every live callback once, as the host loop would.
func (scheduler *fakeScheduler) fire() {
	for handle, callback := range scheduler.callbacks {
		if !callback() {
			scheduler.Cancel(handle)
		}
	}
}

func (scheduler *fakeScheduler) live() int {
	return len(scheduler.callbacks)
}

type shownNotification struct {
	title string
	body  string
}

type recorder struct {
	texts         []string
	notifications []shownNotification
	cues          []Cue
}

func (rec *recorder) SetText(text string) {
	rec.texts = append(rec.texts, text)
}

func (rec *recorder) Show(title, body string) {
	rec.notifications = append(rec.notifications, shownNotification{title: title, body: body})
}

func (rec *recorder) Play(cue Cue) {
	rec.cues = append(rec.cues, cue)
}

func (rec *recorder) lastText() string {
	if len(rec.texts) == 0 {
		return ""
	}
	return rec.texts[len(rec.texts)-1]
}

type harness struct {
	engine    *Engine
	clock     *fakeClock
	scheduler *fakeScheduler
	sinks     *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	scheduler := newFakeScheduler()
	sinks := &recorder{}
	engine := New(model.DefaultTimerConfig(), Dependencies{
		Clock:     clock,
		Scheduler: scheduler,
		Display:   sinks,
		Notifier:  sinks,
		Sound:     sinks,
	})
	t.Cleanup(engine.Close)
	return &harness{engine: engine, clock: clock, scheduler: scheduler, sinks: sinks}
}

func TestNewEngineIsStopped(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, PhaseStopped, h.engine.Phase())
	assert.Equal(t, IdleLabel, h.engine.Label())
	assert.Zero(t, h.engine.Remaining())
	assert.Zero(t, h.scheduler.live())
}

func TestActivateCyclesPhases(t *testing.T) {
	h := newHarness(t)
	want := []Phase{PhaseWorking, PhaseOnBreak, PhaseStopped, PhaseWorking, PhaseOnBreak, PhaseStopped}

	for i, phase := range want {
		h.clock.Advance(time.Duration(i*37) * time.Second)
		h.engine.Activate()
		require.Equal(t, phase, h.engine.Phase(), "activation %d", i+1)
	}

	assert.Zero(t, h.scheduler.live())
	assert.Equal(t, []shownNotification{
		{title: NotificationTitle, body: MessageAborted},
		{title: NotificationTitle, body: MessageAborted},
	}, h.sinks.notifications)
	assert.Empty(t, h.sinks.cues, "manual transitions never play a sound")
	assert.Len(t, h.sinks.texts, len(want), "every activation updates the display")
}

func TestStartRegistersTickAtFixedCadence(t *testing.T) {
	h := newHarness(t)

	h.engine.Activate()

	require.Equal(t, 1, h.scheduler.live())
	assert.Equal(t, model.TickInterval, h.scheduler.intervals["h1"])
	assert.Equal(t, "Work: 25:00", h.sinks.lastText())
	assert.Equal(t, model.WorkDuration, h.engine.Remaining())
}

func TestTickBeforeExpiryOnlyUpdatesDisplay(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()

	h.clock.Advance(61*time.Second + 500*time.Millisecond)
	running := h.engine.Tick()

	assert.True(t, running)
	assert.Equal(t, PhaseWorking, h.engine.Phase())
	assert.Equal(t, "Work: 23:58", h.sinks.lastText())
	assert.Empty(t, h.sinks.notifications)
	assert.Empty(t, h.sinks.cues)
}

func TestTickExpiresWorkIntoBreak(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()

	h.clock.Advance(model.WorkDuration)
	running := h.engine.Tick()

	assert.True(t, running)
	assert.Equal(t, PhaseOnBreak, h.engine.Phase())
	assert.Equal(t, model.BreakDuration, h.engine.Remaining(), "break reference resets at the expiry tick")
	assert.Equal(t, "Break: 05:00", h.sinks.lastText())
	assert.Equal(t, []shownNotification{{title: NotificationTitle, body: MessageBreakTime}}, h.sinks.notifications)
	assert.Equal(t, []Cue{CueTimerExpired}, h.sinks.cues)
	assert.Equal(t, 1, h.scheduler.live())
}

func TestTickNeverCascadesThroughBreak(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()

	// Starved long enough to cover both work and break.
	h.clock.Advance(model.WorkDuration + model.BreakDuration + time.Minute)
	require.True(t, h.engine.Tick())

	assert.Equal(t, PhaseOnBreak, h.engine.Phase())
	assert.Equal(t, model.BreakDuration, h.engine.Remaining())
	assert.Len(t, h.sinks.notifications, 1)
}

func TestTickExpiresBreakAndCancelsScheduling(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()
	h.clock.Advance(model.WorkDuration)
	require.True(t, h.engine.Tick())

	h.clock.Advance(model.BreakDuration + time.Second)
	running := h.engine.Tick()

	assert.False(t, running)
	assert.Equal(t, PhaseStopped, h.engine.Phase())
	assert.Equal(t, IdleLabel, h.sinks.lastText())
	assert.Equal(t, []Handle{"h1"}, h.scheduler.cancelled)
	assert.Zero(t, h.scheduler.live())
	assert.Equal(t, MessageBreakOver, h.sinks.notifications[len(h.sinks.notifications)-1].body)
	assert.Equal(t, []Cue{CueTimerExpired, CueTimerExpired}, h.sinks.cues)

	texts := len(h.sinks.texts)
	assert.False(t, h.engine.Tick(), "a stray tick after stopping is a no-op")
	assert.Len(t, h.sinks.texts, texts)
}

func TestScenarioFullCycleThroughScheduler(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()

	h.clock.Advance(1500*time.Second + 100*time.Millisecond)
	h.scheduler.fire()
	require.Equal(t, PhaseOnBreak, h.engine.Phase())
	assert.Equal(t, model.BreakDuration, h.engine.Remaining())

	h.clock.Advance(300*time.Second + 100*time.Millisecond)
	h.scheduler.fire()

	assert.Equal(t, PhaseStopped, h.engine.Phase())
	assert.Zero(t, h.scheduler.live())
	assert.Equal(t, []shownNotification{
		{title: NotificationTitle, body: MessageBreakTime},
		{title: NotificationTitle, body: MessageBreakOver},
	}, h.sinks.notifications)
	assert.Equal(t, []Cue{CueTimerExpired, CueTimerExpired}, h.sinks.cues)

	texts := len(h.sinks.texts)
	h.scheduler.fire()
	assert.Len(t, h.sinks.texts, texts, "no ticks arrive after scheduling is cancelled")
}

func TestScenarioAbortDuringWork(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()

	h.clock.Advance(10 * time.Second)
	h.engine.Activate()

	assert.Equal(t, PhaseOnBreak, h.engine.Phase())
	assert.Equal(t, model.BreakDuration, h.engine.Remaining())
	assert.Equal(t, []shownNotification{{title: NotificationTitle, body: MessageAborted}}, h.sinks.notifications)
	assert.Empty(t, h.sinks.cues)
	assert.Equal(t, 1, h.scheduler.live(), "the tick keeps running into the break")

	h.clock.Advance(299 * time.Second)
	h.scheduler.fire()
	assert.Equal(t, "Break: 00:01", h.sinks.lastText())
}

func TestStopDuringBreakCancelsTick(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()
	h.engine.Activate()

	h.engine.Activate()

	assert.Equal(t, PhaseStopped, h.engine.Phase())
	assert.Equal(t, []Handle{"h1"}, h.scheduler.cancelled)
	assert.Equal(t, IdleLabel, h.sinks.lastText())
	assert.Len(t, h.sinks.notifications, 1, "ending a break manually is silent")
}

func TestRestartDoesNotDoubleSchedule(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 3; i++ {
		h.engine.Activate()
		h.engine.Activate()
		h.engine.Activate()
	}
	h.engine.Activate()

	assert.Equal(t, 1, h.scheduler.live())
	assert.Equal(t, []Handle{"h1", "h2", "h3"}, h.scheduler.cancelled)
}

func TestRemainingIgnoresMissedTicks(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()

	// One tick after a long stall lands on the same reading as steady ticking.
	h.clock.Advance(7*time.Minute + 30*time.Second)
	h.engine.Tick()

	assert.Equal(t, "Work: 17:30", h.sinks.lastText())
	assert.Equal(t, 17*time.Minute+30*time.Second, h.engine.Remaining())
}

func TestLabelIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.engine.Activate()
	h.clock.Advance(42 * time.Second)

	first := h.engine.Label()
	second := h.engine.Label()

	assert.Equal(t, first, second)
	assert.Equal(t, "Work: 24:18", first)
	assert.Equal(t, PhaseWorking, h.engine.Phase())
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		name      string
		phase     Phase
		remaining time.Duration
		want      string
	}{
		{name: "full work", phase: PhaseWorking, remaining: 1500 * time.Second, want: "Work: 25:00"},
		{name: "truncates partial seconds", phase: PhaseWorking, remaining: 1499*time.Second + 900*time.Millisecond, want: "Work: 24:59"},
		{name: "pads single digits", phase: PhaseOnBreak, remaining: 65 * time.Second, want: "Break: 01:05"},
		{name: "seconds wrap", phase: PhaseOnBreak, remaining: 59 * time.Second, want: "Break: 00:59"},
		{name: "zero", phase: PhaseOnBreak, remaining: 0, want: "Break: 00:00"},
		{name: "negative floors at zero", phase: PhaseWorking, remaining: -3 * time.Second, want: "Work: 00:00"},
		{name: "stopped", phase: PhaseStopped, remaining: time.Minute, want: IdleLabel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatLabel(tc.phase, tc.remaining))
		})
	}
}

func TestLabelSecondsStayInRange(t *testing.T) {
	for remaining := time.Duration(0); remaining <= model.WorkDuration; remaining += 7*time.Second + 300*time.Millisecond {
		label := FormatLabel(PhaseWorking, remaining)
		var minutes, seconds int
		_, err := fmt.Sscanf(label, "Work: %d:%d", &minutes, &seconds)
		require.NoError(t, err, label)
		require.Len(t, label, len("Work: 00:00"), label)
		require.GreaterOrEqual(t, seconds, 0)
		require.LessOrEqual(t, seconds, 59)
		require.GreaterOrEqual(t, minutes, 0)
	}
}

func TestSubscribeReceivesPhaseChanges(t *testing.T) {
	h := newHarness(t)
	events := h.engine.Subscribe(4)

	h.engine.Activate()
	h.clock.Advance(model.WorkDuration)
	h.engine.Tick()
	h.clock.Advance(time.Second)
	h.engine.Tick()

	first := <-events
	assert.Equal(t, PhaseWorking, first.Phase)
	assert.Equal(t, PhaseStopped, first.Previous)
	assert.Equal(t, CauseActivate, first.Cause)
	assert.Equal(t, model.WorkDuration, first.Remaining)

	second := <-events
	assert.Equal(t, PhaseOnBreak, second.Phase)
	assert.Equal(t, CauseExpired, second.Cause)

	select {
	case extra := <-events:
		t.Fatalf("unexpected event for a non-transitioning tick: %+v", extra)
	default:
	}
}

func TestCloseCancelsLiveTick(t *testing.T) {
	h := newHarness(t)
	events := h.engine.Subscribe(1)
	h.engine.Activate()
	<-events

	h.engine.Close()

	assert.Zero(t, h.scheduler.live())
	_, open := <-events
	assert.False(t, open)

	h.engine.Activate()
	assert.Equal(t, PhaseWorking, h.engine.Phase(), "closed engine ignores input")
	assert.False(t, h.engine.Tick())
	assert.Zero(t, h.scheduler.live())
}

func TestEngineWithoutSinks(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	scheduler := newFakeScheduler()
	engine := New(model.TimerConfig{}, Dependencies{Clock: clock, Scheduler: scheduler})
	defer engine.Close()

	engine.Activate()
	clock.Advance(model.WorkDuration)

	assert.NotPanics(t, func() { engine.Tick() })
	assert.Equal(t, PhaseOnBreak, engine.Phase())
}
