package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-reminder/pkg/agenda"
	"github.com/borgmon/schedule-reminder/pkg/calendar"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/borgmon/schedule-reminder/pkg/ui/components"
)

type SchedulesWindow struct {
	window fyne.Window
	sr     *ScheduleReminder

	list         *components.ScheduleList
	items        []models.ScheduleItem
	summaryLabel *widget.Label
	emptyLabel   *widget.Label
}

func NewSchedulesWindow(sr *ScheduleReminder) *SchedulesWindow {
	sw := &SchedulesWindow{sr: sr}
	sw.window = sr.app.NewWindow("Schedule Reminder - Schedules")
	sw.buildUI()
	return sw
}

func (sr *ScheduleReminder) showSchedulesWindow() {
	// If the window already exists, just bring it to front
	if sr.schedulesWindow != nil {
		sr.schedulesWindow.Refresh()
		sr.schedulesWindow.window.Show()
		sr.schedulesWindow.window.RequestFocus()
		return
	}

	sr.schedulesWindow = NewSchedulesWindow(sr)
	sr.schedulesWindow.window.SetOnClosed(func() {
		sr.schedulesWindow = nil
	})
	sr.schedulesWindow.window.Show()
}

func (sw *SchedulesWindow) buildUI() {
	sw.summaryLabel = widget.NewLabel("")
	sw.summaryLabel.TextStyle = fyne.TextStyle{Bold: true}

	sw.emptyLabel = widget.NewLabel("")
	sw.emptyLabel.Importance = widget.LowImportance
	sw.emptyLabel.Wrapping = fyne.TextWrapWord

	var listContainer *fyne.Container
	sw.list, listContainer = components.NewScheduleList(components.ScheduleListConfig{
		OnAdd:    sw.sr.showAddWindow,
		OnToggle: sw.toggle,
		OnRemove: sw.confirmDelete,
	})

	importFileButton := widget.NewButton("Import .ics…", sw.showImportFileDialog)
	importURLButton := widget.NewButton("Import URL…", sw.showImportURLDialog)
	exportButton := widget.NewButton("Export .ics…", sw.showExportDialog)

	header := container.NewBorder(nil, nil, sw.summaryLabel,
		container.NewHBox(importFileButton, importURLButton, exportButton))

	content := container.NewBorder(
		container.NewVBox(header, widget.NewSeparator()),
		sw.emptyLabel,
		nil,
		nil,
		listContainer,
	)

	sw.window.SetContent(container.NewPadded(content))
	sw.window.Resize(fyne.NewSize(640, 520))
	sw.window.CenterOnScreen()
	sw.Refresh()
}

// Refresh reloads the visible items from the repository
func (sw *SchedulesWindow) Refresh() {
	now := time.Now()
	all := sw.sr.repo.List()
	sw.items = agenda.Visible(all, now)

	rows := make([]components.Row, len(sw.items))
	for i, item := range sw.items {
		rows[i] = rowFor(item, now)
	}
	sw.list.SetRows(rows)

	open, total := agenda.Counts(sw.items)
	sw.summaryLabel.SetText(fmt.Sprintf("%d / %d open", open, total))

	switch {
	case len(all) == 0:
		sw.emptyLabel.SetText("No schedules yet. Use Add to create one.")
	case len(sw.items) == 0:
		sw.emptyLabel.SetText("Completed schedules are hidden one day after they end.")
	default:
		sw.emptyLabel.SetText("")
	}
}

func rowFor(item models.ScheduleItem, now time.Time) components.Row {
	start := agenda.Describe(item.StartTime, now)

	when := item.StartTime.Format("Mon Jan 2 15:04")
	if item.HasEnd() {
		when += " – " + item.EndTime.Format("15:04")
	}

	parts := []string{when}
	if start.Relative != "" {
		parts = append(parts, start.Relative)
	}
	if item.HasEnd() && start.Past {
		if end := agenda.Relative(*item.EndTime, now); end != "" {
			parts = append(parts, "ends "+end)
		}
	}
	if item.Description != "" {
		parts = append(parts, truncateString(item.Description, 60))
	}

	return components.Row{
		Title:  item.Title,
		Detail: strings.Join(parts, " · "),
		Done:   item.Completed,
		Urgent: start.Urgent && !item.Completed,
	}
}

func (sw *SchedulesWindow) toggle(index int) {
	if index >= len(sw.items) {
		return
	}
	if err := sw.sr.repo.ToggleCompleted(sw.items[index].ID); err != nil {
		dialog.ShowError(err, sw.window)
		return
	}
	sw.sr.itemsChanged()
}

func (sw *SchedulesWindow) confirmDelete(index int) {
	if index >= len(sw.items) {
		return
	}
	item := sw.items[index]

	dialog.ShowConfirm("Delete Schedule",
		fmt.Sprintf("Delete %q?", item.Title),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := sw.sr.repo.Delete(item.ID); err != nil {
				dialog.ShowError(err, sw.window)
				return
			}
			sw.sr.itemsChanged()
		}, sw.window)
}

func (sw *SchedulesWindow) showImportFileDialog() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, sw.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		incoming, err := sw.sr.importer.Parse(reader)
		if err != nil {
			dialog.ShowError(err, sw.window)
			return
		}
		sw.importItems(incoming)
	}, sw.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	fd.Show()
}

func (sw *SchedulesWindow) showImportURLDialog() {
	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://calendar.example.com/feed.ics")

	items := []*widget.FormItem{
		widget.NewFormItem("Calendar URL", urlEntry),
	}

	dialog.ShowForm("Import Calendar", "Import", "Cancel", items, func(confirmed bool) {
		if !confirmed || strings.TrimSpace(urlEntry.Text) == "" {
			return
		}
		source := strings.TrimSpace(urlEntry.Text)

		go func() {
			incoming, err := sw.sr.importer.Fetch(context.Background(), source)
			fyne.Do(func() {
				if err != nil {
					sw.sr.logger.Error("calendar import failed", "source", source, "error", err)
					dialog.ShowError(err, sw.window)
					return
				}
				sw.importItems(incoming)
			})
		}()
	}, sw.window)
}

func (sw *SchedulesWindow) importItems(incoming []models.NewItem) {
	fresh := calendar.Merge(sw.sr.repo.List(), incoming)

	created := 0
	for _, input := range fresh {
		if _, err := sw.sr.repo.Create(input); err != nil {
			sw.sr.logger.Warn("skipping imported event", "title", input.Title, "error", err)
			continue
		}
		created++
	}

	sw.sr.itemsChanged()
	dialog.ShowInformation("Import Complete",
		fmt.Sprintf("Added %d of %d events (%d already present).", created, len(incoming), len(incoming)-len(fresh)),
		sw.window)
}

func (sw *SchedulesWindow) showExportDialog() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, sw.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if err := calendar.Export(writer, sw.sr.repo.List(), time.Now()); err != nil {
			dialog.ShowError(err, sw.window)
			return
		}
		sw.sr.logger.Info("schedules exported", "uri", writer.URI().String())
	}, sw.window)
	fd.SetFileName("schedules.ics")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	fd.Show()
}
