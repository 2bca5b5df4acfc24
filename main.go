package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/borgmon/schedule-reminder/pkg/audio"
	"github.com/borgmon/schedule-reminder/pkg/calendar"
	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/borgmon/schedule-reminder/pkg/notify"
	"github.com/borgmon/schedule-reminder/pkg/platform"
	"github.com/borgmon/schedule-reminder/pkg/policy"
	"github.com/borgmon/schedule-reminder/pkg/scheduler"
	"github.com/borgmon/schedule-reminder/pkg/store"
	"golang.design/x/hotkey"
)

const appID = "com.borgmon.schedule-reminder"

type ScheduleReminder struct {
	app      fyne.App
	logger   *slog.Logger
	repo     *store.ScheduleRepository
	settings *store.SettingsStore
	importer *calendar.Importer

	notifier   *notify.FyneNotifier
	chime      *audio.Player
	dispatcher *notify.Dispatcher
	poller     *scheduler.Poller
	pollHandle *scheduler.Handle

	hotkeyMu sync.Mutex
	quickAdd *hotkey.Hotkey

	schedulesWindow *SchedulesWindow
	settingsWindow  *SettingsWindow
	addWindow       *AddScheduleWindow

	shutdownOnce sync.Once
}

func main() {
	logger, err := logging.New(os.Stderr, os.Getenv("SCHEDULE_REMINDER_LOG_LEVEL"), os.Getenv("SCHEDULE_REMINDER_LOG_FORMAT"))
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger)

	sr := &ScheduleReminder{
		app:    app.NewWithID(appID),
		logger: logger,
	}

	if err := sr.initialize(); err != nil {
		log.Fatal(err)
	}

	sr.run()
}

func (sr *ScheduleReminder) initialize() error {
	kv := store.NewPrefsKV(sr.app.Preferences())
	sr.repo = store.NewScheduleRepository(kv, sr.logger)
	sr.settings = store.NewSettingsStore(kv, sr.logger)
	sr.importer = calendar.NewImporter(sr.logger)

	// Sync autostart state with config on startup
	cfg := sr.settings.LoadAppConfig()
	if err := setupAutostart(sr.logger, cfg.AutoStart); err != nil {
		sr.logger.Warn("failed to set up autostart", "error", err)
	}

	sr.notifier = notify.NewFyneNotifier(sr.app)
	sr.notifier.OnAlert = sr.showAlert
	sr.chime = audio.NewPlayer(sr.logger)
	sr.dispatcher = notify.NewDispatcher(sr.notifier, sr.chime, sr.repo, sr.logger)

	sr.poller = scheduler.New(scheduler.Options{
		Items:      sr.repo,
		Settings:   sr.settings,
		Dispatcher: sr.dispatcher,
		Logger:     sr.logger,
		OnTick: func(int) {
			fyne.Do(sr.refreshViews)
		},
	})

	sr.setupSystemTray()
	sr.registerQuickAddHotkey()
	return nil
}

func (sr *ScheduleReminder) run() {
	sr.app.Lifecycle().SetOnStarted(func() {
		platform.HideFromDock()

		if perm := sr.notifier.RequestPermission(context.Background()); perm != notify.Granted {
			sr.logger.Warn("notifications not available", "permission", perm.String())
		}

		handle, err := sr.poller.Start(context.Background())
		if err != nil {
			sr.logger.Error("failed to start poller", "error", err)
			return
		}
		sr.pollHandle = handle
	})
	sr.app.Lifecycle().SetOnStopped(sr.shutdown)
	sr.app.Run()
}

// refreshViews redraws everything that shows schedule data. Must run on the UI goroutine.
func (sr *ScheduleReminder) refreshViews() {
	sr.updateSystemTrayMenu()
	if sr.schedulesWindow != nil {
		sr.schedulesWindow.Refresh()
	}
}

// itemsChanged is called after the user edits the schedule
func (sr *ScheduleReminder) itemsChanged() {
	sr.refreshViews()
	sr.poller.CheckNow()
}

func (sr *ScheduleReminder) showAlert(title, body string) {
	NewAlertWindow(sr.app, sr.logger, title, body).Show()
}

// previewNotification shows a sample notification with the current lead time
func (sr *ScheduleReminder) previewNotification(leadMinutes int) {
	sample := models.ScheduleItem{Title: "Sample meeting"}
	minutes := leadMinutes
	if minutes == 0 {
		minutes = 1
	}
	title, body := policy.Message(sample, policy.Due{Boundary: models.BoundaryStart, MinutesLeft: minutes})

	if err := sr.notifier.Show(title, body); err != nil {
		sr.logger.Warn("failed to show preview", "error", err)
	}
	if err := sr.chime.Play(); err != nil {
		sr.logger.Warn("failed to play chime", "error", err)
	}
}

func (sr *ScheduleReminder) shutdown() {
	sr.shutdownOnce.Do(func() {
		if sr.pollHandle != nil {
			sr.pollHandle.Stop()
		}
		sr.unregisterQuickAddHotkey()
		sr.logger.Info("schedule reminder stopped")
	})
}

func (sr *ScheduleReminder) quit() {
	sr.shutdown()
	sr.app.Quit()
}
