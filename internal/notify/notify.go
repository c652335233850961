// Package notify delivers desktop notifications for the timer.
package notify

import (
	"errors"
	"log"
	"sync"
)

// ErrNoSender indicates no sender is configured.
var ErrNoSender = errors.New("no notification sender configured")

// Notification contains data for a desktop notification.
type Notification struct {
	Title string
	Body  string
	Icon  string // icon name or file path, optional
}

// Sender delivers a notification through one backend.
type Sender interface {
	Name() string
	Send(notification Notification) error
}

// Dispatcher fans a notification out to the first sender that accepts it.
// Show never blocks and never fails; delivery errors are logged.
type Dispatcher struct {
	mu      sync.RWMutex
	senders []Sender
	enabled bool
	icon    string
	wg      sync.WaitGroup
}

// NewDispatcher creates an enabled dispatcher trying senders in order.
func NewDispatcher(senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders, enabled: true}
}

// SetEnabled turns delivery on or off.
func (dispatcher *Dispatcher) SetEnabled(enabled bool) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.enabled = enabled
}

// SetSenders replaces the sender chain.
func (dispatcher *Dispatcher) SetSenders(senders ...Sender) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.senders = senders
}

// SetIcon sets the icon attached to every notification.
func (dispatcher *Dispatcher) SetIcon(icon string) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.icon = icon
}

// Show implements timer.Notifier.
func (dispatcher *Dispatcher) Show(title, body string) {
	dispatcher.mu.RLock()
	enabled := dispatcher.enabled
	senders := append([]Sender(nil), dispatcher.senders...)
	notification := Notification{Title: title, Body: body, Icon: dispatcher.icon}
	dispatcher.mu.RUnlock()

	if !enabled {
		return
	}

	dispatcher.wg.Add(1)
	go func() {
		defer dispatcher.wg.Done()
		if err := deliver(senders, notification); err != nil {
			log.Printf("notify: %q not delivered: %v", body, err)
		}
	}()
}

// Wait blocks until in-flight deliveries finish.
func (dispatcher *Dispatcher) Wait() {
	dispatcher.wg.Wait()
}

func deliver(senders []Sender, notification Notification) error {
	if len(senders) == 0 {
		return ErrNoSender
	}
	var errs []error
	for _, sender := range senders {
		err := sender.Send(notification)
		if err == nil {
			return nil
		}
		log.Printf("notify: %s: %v", sender.Name(), err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
