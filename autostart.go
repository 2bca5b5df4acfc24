package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

func setupAutostart(logger *slog.Logger, enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "schedule-reminder",
		DisplayName: "Schedule Reminder",
		Exec:        []string{execPath},
	}

	if enable == app.IsEnabled() {
		return nil
	}

	if enable {
		if err := app.Enable(); err != nil {
			return err
		}
		logger.Info("autostart enabled", "exec", execPath)
		return nil
	}

	if err := app.Disable(); err != nil {
		return err
	}
	logger.Info("autostart disabled")
	return nil
}
