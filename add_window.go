package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-reminder/pkg/models"
)

type AddScheduleWindow struct {
	window fyne.Window
	sr     *ScheduleReminder

	titleEntry       *widget.Entry
	descriptionEntry *widget.Entry
	startEntry       *widget.Entry
	endEntry         *widget.Entry
}

func NewAddScheduleWindow(sr *ScheduleReminder) *AddScheduleWindow {
	aw := &AddScheduleWindow{sr: sr}
	aw.window = sr.app.NewWindow("Add Schedule")
	aw.buildUI()
	return aw
}

func (sr *ScheduleReminder) showAddWindow() {
	if sr.addWindow != nil {
		sr.addWindow.window.Show()
		sr.addWindow.window.RequestFocus()
		return
	}

	sr.addWindow = NewAddScheduleWindow(sr)
	sr.addWindow.window.SetOnClosed(func() {
		sr.addWindow = nil
	})
	sr.addWindow.window.Show()
	sr.addWindow.window.Canvas().Focus(sr.addWindow.titleEntry)
}

func (aw *AddScheduleWindow) buildUI() {
	aw.titleEntry = widget.NewEntry()
	aw.titleEntry.SetPlaceHolder("Team standup")

	aw.descriptionEntry = widget.NewMultiLineEntry()
	aw.descriptionEntry.SetPlaceHolder("Optional notes or a meeting link")
	aw.descriptionEntry.SetMinRowsVisible(3)

	aw.startEntry = widget.NewEntry()
	aw.startEntry.SetText(formatFormTime(models.DefaultStart(time.Now())))
	aw.startEntry.SetPlaceHolder(formTimeLayout)

	aw.endEntry = widget.NewEntry()
	aw.endEntry.SetPlaceHolder("Optional, " + formTimeLayout)

	form := widget.NewForm(
		widget.NewFormItem("Title", aw.titleEntry),
		widget.NewFormItem("Description", aw.descriptionEntry),
		widget.NewFormItem("Start", aw.startEntry),
		widget.NewFormItem("End", aw.endEntry),
	)
	form.SubmitText = "Add"
	form.CancelText = "Cancel"
	form.OnSubmit = aw.submit
	form.OnCancel = func() {
		aw.window.Close()
	}

	aw.window.SetContent(container.NewPadded(form))
	aw.window.Resize(fyne.NewSize(460, 320))
	aw.window.CenterOnScreen()
}

func (aw *AddScheduleWindow) submit() {
	input, err := newItemFromForm(
		aw.titleEntry.Text,
		aw.descriptionEntry.Text,
		aw.startEntry.Text,
		aw.endEntry.Text,
		time.Local,
	)
	if err != nil {
		dialog.ShowError(err, aw.window)
		return
	}

	item, err := aw.sr.repo.Create(input)
	if err != nil {
		dialog.ShowError(err, aw.window)
		return
	}

	aw.sr.logger.Info("schedule added", "id", item.ID, "title", item.Title, "start", item.StartTime)
	aw.sr.itemsChanged()
	aw.window.Close()
}
