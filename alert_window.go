package main

import (
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-reminder/pkg/platform"
	"github.com/borgmon/schedule-reminder/pkg/ui/components"
)

const (
	dismissHold   = time.Second
	refocusPeriod = 2 * time.Second
)

// AlertWindow stays open until the user holds the dismiss button
type AlertWindow struct {
	window fyne.Window
	app    fyne.App
	logger *slog.Logger
	title  string
	body   string

	stopMonitoring chan struct{}
}

func NewAlertWindow(app fyne.App, logger *slog.Logger, title, body string) *AlertWindow {
	aw := &AlertWindow{
		app:            app,
		logger:         logger,
		title:          title,
		body:           body,
		stopMonitoring: make(chan struct{}),
	}

	aw.window = app.NewWindow(title)
	aw.buildUI()
	aw.window.SetCloseIntercept(func() {
		// the close button is ignored, only the hold button dismisses
		aw.logger.Debug("alert close ignored, hold the dismiss button")
	})
	aw.window.SetOnClosed(func() {
		close(aw.stopMonitoring)
	})

	return aw
}

func (aw *AlertWindow) buildUI() {
	title := canvas.NewText(aw.title, nil)
	title.TextSize = 28
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	body := widget.NewLabel(aw.body)
	body.Wrapping = fyne.TextWrapWord
	body.Alignment = fyne.TextAlignCenter

	shownAt := widget.NewLabel("Shown at " + time.Now().Format("3:04 PM"))
	shownAt.Alignment = fyne.TextAlignCenter
	shownAt.Importance = widget.LowImportance

	dismiss := components.NewHoldButton("Dismiss (hold 1s)", dismissHold, func() {
		fyne.Do(aw.dismiss)
	})

	content := container.NewVBox(
		container.NewPadded(title),
		body,
		shownAt,
		widget.NewSeparator(),
		container.NewCenter(dismiss),
	)

	aw.window.SetContent(container.NewPadded(container.NewCenter(content)))
	aw.window.Resize(fyne.NewSize(520, 260))
	aw.window.CenterOnScreen()
}

func (aw *AlertWindow) dismiss() {
	aw.logger.Info("alert dismissed", "title", aw.title)
	aw.window.Close()
}

func (aw *AlertWindow) Show() {
	aw.window.Show()
	aw.window.RequestFocus()
	aw.setupFocusMonitoring()
}

// setupFocusMonitoring brings the app back to the front until the alert is dismissed
func (aw *AlertWindow) setupFocusMonitoring() {
	go func() {
		ticker := time.NewTicker(refocusPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-aw.stopMonitoring:
				return
			case <-ticker.C:
				if platform.BringToFront() {
					aw.logger.Debug("alert window not active, bringing to front")
					fyne.Do(func() {
						aw.window.Show()
						aw.window.RequestFocus()
					})
				}
			}
		}
	}()
}
