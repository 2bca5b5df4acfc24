package main

import (
	"fyne.io/fyne/v2"
	"golang.design/x/hotkey"
)

// registerQuickAddHotkey binds Ctrl+Shift+R to the add-schedule window from anywhere
func (sr *ScheduleReminder) registerQuickAddHotkey() {
	go func() {
		hk := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyR)
		if err := hk.Register(); err != nil {
			sr.logger.Warn("failed to register quick-add hotkey", "error", err)
			return
		}

		sr.hotkeyMu.Lock()
		sr.quickAdd = hk
		sr.hotkeyMu.Unlock()
		sr.logger.Debug("quick-add hotkey registered", "keys", "Ctrl+Shift+R")

		for range hk.Keydown() {
			fyne.Do(sr.showAddWindow)
		}
	}()
}

func (sr *ScheduleReminder) unregisterQuickAddHotkey() {
	sr.hotkeyMu.Lock()
	defer sr.hotkeyMu.Unlock()

	if sr.quickAdd == nil {
		return
	}
	if err := sr.quickAdd.Unregister(); err != nil {
		sr.logger.Warn("failed to unregister quick-add hotkey", "error", err)
	}
	sr.quickAdd = nil
}
