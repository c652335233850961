package about

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Info describes the program shown in the about window.
type Info struct {
	Name      string
	Version   string
	Comments  string
	Copyright string
	License   string
}

// DefaultInfo returns the program description.
func DefaultInfo() Info {
	return Info{
		Name:      "Pomodoro Applet",
		Version:   "1.0.0",
		Comments:  "Timer for the Pomodoro Technique",
		Copyright: "Copyright © Pomodoro contributors",
		License:   "GNU General Public License, version 3 or later",
	}
}

// Window shows program information and the logo.
type Window struct {
	window fyne.Window
	title  *widget.Label
	body   *widget.Label
}

// New creates a hidden about window.
func New(app fyne.App, info Info, logo fyne.Resource) *Window {
	window := app.NewWindow("About " + info.Name)

	image := canvas.NewImageFromResource(logo)
	image.FillMode = canvas.ImageFillContain
	image.SetMinSize(fyne.NewSize(96, 96))

	about := &Window{
		window: window,
		title: widget.NewLabelWithStyle(info.Name+" "+info.Version,
			fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		body: widget.NewLabelWithStyle(info.Comments+"\n\n"+info.Copyright+"\n"+info.License,
			fyne.TextAlignCenter, fyne.TextStyle{}),
	}

	closeButton := widget.NewButton("Close", window.Hide)
	window.SetContent(container.NewVBox(image, about.title, about.body, container.NewCenter(closeButton)))
	window.SetCloseIntercept(window.Hide)
	window.SetFixedSize(true)
	return about
}

// Show displays the about window.
func (about *Window) Show() {
	about.window.Show()
	about.window.RequestFocus()
}
