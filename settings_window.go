package main

import (
	"os/exec"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-reminder/pkg/models"
)

const savedStatus = "Settings saved successfully"

type SettingsWindow struct {
	window fyne.Window
	sr     *ScheduleReminder

	leadSelect     *widget.Select
	autoStartCheck *widget.Check

	// UI state
	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
}

func NewSettingsWindow(sr *ScheduleReminder) *SettingsWindow {
	sw := &SettingsWindow{sr: sr}
	sw.window = sr.app.NewWindow("Schedule Reminder - Settings")
	sw.buildUI()
	return sw
}

func (sr *ScheduleReminder) showSettingsWindow() {
	if sr.settingsWindow != nil {
		sr.settingsWindow.window.Show()
		sr.settingsWindow.window.RequestFocus()
		return
	}

	sr.settingsWindow = NewSettingsWindow(sr)
	sr.settingsWindow.window.SetOnClosed(func() {
		sr.settingsWindow = nil
	})
	sr.settingsWindow.window.Show()
}

func (sw *SettingsWindow) buildUI() {
	sw.leadSelect = widget.NewSelect(leadOptions(), func(string) {
		sw.markChanged()
	})
	sw.autoStartCheck = widget.NewCheck("Auto Start on System Boot", func(bool) {
		sw.markChanged()
	})
	sw.loadFromStore()

	leadLabel := widget.NewLabel("Notify Before:")
	leadHelp := widget.NewLabel("How long before a schedule starts or ends to send a notification")
	leadHelp.Wrapping = fyne.TextWrapWord
	leadHelp.Importance = widget.MediumImportance

	previewButton := widget.NewButton("Preview Notification", func() {
		minutes, err := parseLead(sw.leadSelect.Selected)
		if err != nil {
			minutes = models.DefaultLeadMinutes
		}
		sw.sr.previewNotification(minutes)
	})

	autoStartLabel := widget.NewLabel("Auto Start:")
	autoStartHelp := widget.NewLabel("Launch Schedule Reminder automatically when your system starts")
	autoStartHelp.Wrapping = fyne.TextWrapWord
	autoStartHelp.Importance = widget.MediumImportance

	storageURIEntry := widget.NewEntry()
	storageURIEntry.SetText(sw.sr.app.Storage().RootURI().String())
	storageURIEntry.Disable()

	openStorageButton := widget.NewButton("Open in File Manager", sw.openStorage)

	storageLabel := widget.NewLabel("Storage Location:")
	storageHelp := widget.NewLabel("Schedules and settings are stored here")
	storageHelp.Wrapping = fyne.TextWrapWord
	storageHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(leadLabel, leadHelp),
		container.NewVBox(sw.leadSelect, previewButton),

		container.NewVBox(autoStartLabel, autoStartHelp),
		sw.autoStartCheck,

		container.NewVBox(storageLabel, storageHelp),
		container.NewBorder(nil, container.NewPadded(openStorageButton), nil, nil, storageURIEntry),
	)

	sw.saveStatusLabel = widget.NewLabel("")
	sw.saveStatusLabel.Importance = widget.SuccessImportance

	sw.saveButton = widget.NewButton("Save", sw.save)
	sw.saveButton.Importance = widget.HighImportance

	resetButton := widget.NewButton("Reset to Defaults", sw.confirmReset)
	closeButton := widget.NewButton("Close", func() {
		sw.window.Close()
	})

	buttons := container.NewBorder(nil, nil, sw.saveStatusLabel,
		container.NewHBox(resetButton, closeButton, sw.saveButton))

	content := container.NewBorder(
		container.NewVBox(widget.NewLabel("Notification Settings"), widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), buttons),
		nil,
		nil,
		container.NewVScroll(form),
	)

	sw.window.SetContent(container.NewPadded(content))
	sw.window.Resize(fyne.NewSize(560, 380))
	sw.window.CenterOnScreen()

	sw.window.SetCloseIntercept(func() {
		if !sw.hasUnsavedChanges {
			sw.window.Close()
			return
		}
		dialog.ShowConfirm("Unsaved Changes",
			"You have unsaved changes. Close without saving?",
			func(discard bool) {
				if discard {
					sw.window.Close()
				}
			}, sw.window)
	})

	sw.updateSaveButtonState()
}

func (sw *SettingsWindow) loadFromStore() {
	settings := sw.sr.settings.Load()
	cfg := sw.sr.settings.LoadAppConfig()

	sw.leadSelect.SetSelected(formatLead(settings.LeadMinutes))
	sw.autoStartCheck.SetChecked(cfg.AutoStart)
	sw.hasUnsavedChanges = false
}

func (sw *SettingsWindow) markChanged() {
	sw.hasUnsavedChanges = true
	sw.updateSaveButtonState()
}

func (sw *SettingsWindow) updateSaveButtonState() {
	if sw.saveButton == nil {
		return
	}
	if sw.hasUnsavedChanges {
		sw.saveButton.Enable()
	} else {
		sw.saveButton.Disable()
	}
}

func (sw *SettingsWindow) setStatus(text string, importance widget.Importance) {
	sw.saveStatusLabel.SetText(text)
	sw.saveStatusLabel.Importance = importance
	sw.saveStatusLabel.Refresh()
}

func (sw *SettingsWindow) save() {
	minutes, err := parseLead(sw.leadSelect.Selected)
	if err != nil {
		dialog.ShowError(err, sw.window)
		return
	}
	settings := models.NotificationSettings{LeadMinutes: minutes}
	cfg := models.AppConfig{AutoStart: sw.autoStartCheck.Checked}

	if err := sw.sr.settings.Save(settings); err != nil {
		dialog.ShowError(err, sw.window)
		return
	}

	sw.saveButton.Disable()
	sw.setStatus("Saving...", widget.MediumImportance)

	go func() {
		if err := setupAutostart(sw.sr.logger, cfg.AutoStart); err != nil {
			sw.sr.logger.Error("failed to set autostart", "error", err)
			fyne.Do(func() {
				sw.setStatus("Error: Failed to set autostart", widget.DangerImportance)
				sw.updateSaveButtonState()
			})
			return
		}
		if err := sw.sr.settings.SaveAppConfig(cfg); err != nil {
			sw.sr.logger.Error("failed to save app config", "error", err)
		}

		fyne.Do(func() {
			sw.hasUnsavedChanges = false
			sw.setStatus(savedStatus, widget.SuccessImportance)
			sw.updateSaveButtonState()
			sw.sr.itemsChanged()

			go func() {
				time.Sleep(3 * time.Second)
				fyne.Do(func() {
					if sw.saveStatusLabel.Text == savedStatus {
						sw.setStatus("", widget.SuccessImportance)
					}
				})
			}()
		})
	}()
}

func (sw *SettingsWindow) confirmReset() {
	dialog.ShowConfirm("Reset Settings",
		"Restore the default notification lead time?",
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := sw.sr.settings.Reset(); err != nil {
				dialog.ShowError(err, sw.window)
				return
			}
			sw.loadFromStore()
			sw.updateSaveButtonState()
			sw.setStatus("Defaults restored", widget.SuccessImportance)
			sw.sr.itemsChanged()
		}, sw.window)
}

func (sw *SettingsWindow) openStorage() {
	path := sw.sr.app.Storage().RootURI().Path()
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		sw.sr.logger.Warn("unsupported OS for file manager", "os", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		sw.sr.logger.Error("failed to open file manager", "error", err)
	}
}
