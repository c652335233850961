package timer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SystemClock reads time.Now, which includes a monotonic reading.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// TickerScheduler runs each periodic registration on its own time.Ticker and
// hands every callback to a dispatch function. Passing fyne.Do as dispatch
// serializes all callbacks on the UI thread.
type TickerScheduler struct {
	mu            sync.Mutex
	dispatch      func(func())
	registrations map[Handle]*registration
}

type registration struct {
	stopCh    chan struct{}
	cancelled atomic.Bool
	once      sync.Once
}

// NewTickerScheduler creates a scheduler. A nil dispatch invokes callbacks
// directly on the ticker goroutine.
func NewTickerScheduler(dispatch func(func())) *TickerScheduler {
	if dispatch == nil {
		dispatch = func(callback func()) { callback() }
	}
	return &TickerScheduler{
		dispatch:      dispatch,
		registrations: make(map[Handle]*registration),
	}
}

// RegisterPeriodic starts calling callback every interval until it returns
// false or the handle is cancelled.
func (scheduler *TickerScheduler) RegisterPeriodic(interval time.Duration, callback func() bool) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	handle := Handle(uuid.NewString())
	reg := &registration{stopCh: make(chan struct{})}

	scheduler.mu.Lock()
	scheduler.registrations[handle] = reg
	scheduler.mu.Unlock()

	go scheduler.run(handle, reg, interval, callback)
	return handle
}

// Cancel stops a registration. Unknown or already cancelled handles are
// ignored.
func (scheduler *TickerScheduler) Cancel(handle Handle) {
	scheduler.mu.Lock()
	reg, ok := scheduler.registrations[handle]
	delete(scheduler.registrations, handle)
	scheduler.mu.Unlock()

	if ok {
		reg.stop()
	}
}

// Live reports the number of active registrations.
func (scheduler *TickerScheduler) Live() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return len(scheduler.registrations)
}

// Close cancels every live registration.
func (scheduler *TickerScheduler) Close() {
	scheduler.mu.Lock()
	registrations := scheduler.registrations
	scheduler.registrations = make(map[Handle]*registration)
	scheduler.mu.Unlock()

	for _, reg := range registrations {
		reg.stop()
	}
}

func (scheduler *TickerScheduler) run(handle Handle, reg *registration, interval time.Duration, callback func() bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// At most one callback per registration waits in the dispatcher.
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-reg.stopCh:
			return
		case <-ticker.C:
			select {
			case pending <- struct{}{}:
			default:
				continue
			}
			scheduler.dispatch(func() {
				defer func() { <-pending }()
				if reg.cancelled.Load() {
					return
				}
				if !callback() {
					scheduler.Cancel(handle)
				}
			})
		}
	}
}

func (reg *registration) stop() {
	reg.once.Do(func() {
		reg.cancelled.Store(true)
		close(reg.stopCh)
	})
}
