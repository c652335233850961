package timer

import "time"

// Phase represents the current timer mode.
type Phase string

const (
	PhaseStopped Phase = "stopped"
	PhaseWorking Phase = "working"
	PhaseOnBreak Phase = "on_break"
)

// Cause describes what triggered a phase change.
type Cause string

const (
	CauseActivate Cause = "activate"
	CauseExpired  Cause = "expired"
)

// Cue identifies a sound the Sound sink should play.
type Cue string

// CueTimerExpired is played when a work or break period runs out.
const CueTimerExpired Cue = "timer-expired"

// Notification and label texts.
const (
	NotificationTitle = "Pomodoro"
	MessageBreakTime  = "Break time!"
	MessageBreakOver  = "The break period is over."
	MessageAborted    = "The current pomodoro was aborted."
	IdleLabel         = "Pomodoro"
)

// Event represents a phase change for observers.
type Event struct {
	Phase     Phase
	Previous  Phase
	Cause     Cause
	Remaining time.Duration
	At        time.Time
}
