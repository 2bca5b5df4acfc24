package main

import (
	"fmt"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/schedule-reminder/pkg/agenda"
	"github.com/borgmon/schedule-reminder/pkg/calendar"
	"github.com/borgmon/schedule-reminder/pkg/models"
)

const trayUpcomingLimit = 5

func (sr *ScheduleReminder) setupSystemTray() {
	if desk, ok := sr.app.(desktop.App); ok {
		desk.SetSystemTrayIcon(theme.HistoryIcon())
	}
	sr.updateSystemTrayMenu()
}

func (sr *ScheduleReminder) updateSystemTrayMenu() {
	desk, ok := sr.app.(desktop.App)
	if !ok {
		return
	}

	now := time.Now()
	menuItems := []*fyne.MenuItem{}

	// Upcoming boundaries for the rest of today at the top
	upcoming := agenda.UpcomingBoundaries(sr.repo.List(), now, agenda.EndOfDay(now), trayUpcomingLimit)
	if len(upcoming) > 0 {
		header := fyne.NewMenuItem("Upcoming Today:", nil)
		header.Disabled = true
		menuItems = append(menuItems, header)

		for _, u := range upcoming {
			menuItems = append(menuItems, sr.upcomingMenuItem(u))
		}
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Schedules", sr.showSchedulesWindow),
		fyne.NewMenuItem("Add Schedule…", sr.showAddWindow),
		fyne.NewMenuItem("Check Now", sr.poller.CheckNow),
		fyne.NewMenuItem("Settings", sr.showSettingsWindow),
	)

	quit := fyne.NewMenuItem("Quit", sr.quit)
	quit.IsQuit = true
	menuItems = append(menuItems, fyne.NewMenuItemSeparator(), quit)

	desk.SetSystemTrayMenu(fyne.NewMenu("Schedule Reminder", menuItems...))
}

// upcomingMenuItem opens the meeting link of the item if it has one, otherwise the schedules window
func (sr *ScheduleReminder) upcomingMenuItem(u agenda.Upcoming) *fyne.MenuItem {
	marker := "▶"
	if u.Boundary == models.BoundaryEnd {
		marker = "■"
	}
	label := fmt.Sprintf("  %s %s %s", u.At.Format("3:04 PM"), marker, truncateString(u.Item.Title, 35))

	action := sr.showSchedulesWindow
	if link := calendar.ExtractMeetingLink(u.Item.Description); link != "" {
		action = func() {
			if target, err := url.Parse(link); err == nil {
				if err := sr.app.OpenURL(target); err != nil {
					sr.logger.Warn("failed to open meeting link", "url", link, "error", err)
				}
			}
		}
	}
	return fyne.NewMenuItem(label, action)
}
