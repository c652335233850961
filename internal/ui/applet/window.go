package applet

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/timer"
)

const (
	iconSize  = float32(24)
	labelSize = float32(15)
)

var (
	labelColor      = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	backgroundColor = color.NRGBA{R: 32, G: 32, B: 32, A: 230}
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is a small floating stand-in for a panel applet: an icon and the
// countdown label. Clicking anywhere activates the timer.
type Window struct {
	window     fyne.Window
	icon       *canvas.Image
	label      *canvas.Text
	area       *tapArea
	onActivate func()
}

// New creates the applet window. It is hidden until Show is called.
func New(app fyne.App, icon fyne.Resource, onActivate func()) *Window {
	window := app.NewWindow("Pomodoro")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash windows are undecorated, like a panel slot.
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	image := canvas.NewImageFromResource(icon)
	image.FillMode = canvas.ImageFillContain
	image.SetMinSize(fyne.NewSize(iconSize, iconSize))

	label := canvas.NewText(timer.IdleLabel, labelColor)
	label.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	label.TextSize = labelSize

	applet := &Window{
		window:     window,
		icon:       image,
		label:      label,
		onActivate: onActivate,
	}

	row := container.NewHBox(image, label)
	applet.area = newTapArea(container.NewStack(canvas.NewRectangle(backgroundColor), container.NewPadded(row)), applet.activate)

	window.SetContent(applet.area)
	window.SetCloseIntercept(window.Hide)
	window.Resize(applet.area.MinSize())
	window.SetFixedSize(true)

	return applet
}

// SetText implements timer.Display.
func (applet *Window) SetText(text string) {
	applet.label.Text = text
	applet.label.Refresh()
}

// Text returns the displayed label.
func (applet *Window) Text() string {
	return applet.label.Text
}

// SetIcon replaces the icon next to the label.
func (applet *Window) SetIcon(resource fyne.Resource) {
	applet.icon.Resource = resource
	applet.icon.Refresh()
}

// Show displays the window.
func (applet *Window) Show() {
	applet.window.Show()
}

// Hide hides the window.
func (applet *Window) Hide() {
	applet.window.Hide()
}

func (applet *Window) activate() {
	if applet.onActivate != nil {
		applet.onActivate()
	}
}

// tapArea turns any content into a single click target.
type tapArea struct {
	widget.BaseWidget
	content fyne.CanvasObject
	onTap   func()
}

func newTapArea(content fyne.CanvasObject, onTap func()) *tapArea {
	area := &tapArea{content: content, onTap: onTap}
	area.ExtendBaseWidget(area)
	return area
}

func (area *tapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(area.content)
}

func (area *tapArea) Tapped(*fyne.PointEvent) {
	if area.onTap != nil {
		area.onTap()
	}
}
