package model

import "time"

// Fixed Pomodoro intervals. They are deliberately not user-configurable.
const (
	WorkDuration  = 25 * time.Minute
	BreakDuration = 5 * time.Minute
	TickInterval  = 100 * time.Millisecond
)

// TimerConfig contains runtime settings for the timer state machine.
type TimerConfig struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
	TickInterval  time.Duration
}

// DefaultTimerConfig returns the standard 25/5 minute cycle.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:  WorkDuration,
		BreakDuration: BreakDuration,
		TickInterval:  TickInterval,
	}
}
