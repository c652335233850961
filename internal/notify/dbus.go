package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest      = "org.freedesktop.Notifications"
	notificationsPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify    = notificationsDest + ".Notify"
	defaultExpireTimeoutMs = int32(-1)
)

// DBusSender talks to the freedesktop notification daemon on the session
// bus. Each notification replaces the previous one.
type DBusSender struct {
	appName string

	mu         sync.Mutex
	conn       *dbus.Conn
	replacesID uint32
	connect    func() (*dbus.Conn, error)
}

// NewDBusSender creates a sender. The bus connection is opened on first use.
func NewDBusSender(appName string) *DBusSender {
	return &DBusSender{appName: appName, connect: func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() }}
}

// Name identifies the backend in logs.
func (sender *DBusSender) Name() string {
	return "dbus"
}

// Send calls org.freedesktop.Notifications.Notify.
func (sender *DBusSender) Send(notification Notification) error {
	sender.mu.Lock()
	defer sender.mu.Unlock()

	if sender.conn == nil {
		conn, err := sender.connect()
		if err != nil {
			return fmt.Errorf("connect session bus: %w", err)
		}
		sender.conn = conn
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(1)),
	}
	call := sender.conn.Object(notificationsDest, notificationsPath).Call(
		notificationsNotify, 0,
		sender.appName,
		sender.replacesID,
		notification.Icon,
		notification.Title,
		notification.Body,
		[]string{},
		hints,
		defaultExpireTimeoutMs,
	)
	if call.Err != nil {
		// Drop the connection so the next attempt reconnects.
		_ = sender.conn.Close()
		sender.conn = nil
		return fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("read notification id: %w", err)
	}
	sender.replacesID = id
	return nil
}

// Close releases the bus connection.
func (sender *DBusSender) Close() error {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	if sender.conn == nil {
		return nil
	}
	err := sender.conn.Close()
	sender.conn = nil
	return err
}
