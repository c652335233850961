package notify

import (
	"errors"

	"fyne.io/fyne/v2"
)

// AppSender delivers notifications through the fyne application.
type AppSender struct {
	app      fyne.App
	dispatch func(func())
}

// NewAppSender creates a sender. dispatch runs the call on the UI thread;
// nil calls it directly.
func NewAppSender(app fyne.App, dispatch func(func())) *AppSender {
	if dispatch == nil {
		dispatch = func(callback func()) { callback() }
	}
	return &AppSender{app: app, dispatch: dispatch}
}

// Name identifies the backend in logs.
func (sender *AppSender) Name() string {
	return "app"
}

// Send hands the notification to fyne.
func (sender *AppSender) Send(notification Notification) error {
	if sender.app == nil {
		return errors.New("no application")
	}
	message := fyne.NewNotification(notification.Title, notification.Body)
	sender.dispatch(func() {
		sender.app.SendNotification(message)
	})
	return nil
}
