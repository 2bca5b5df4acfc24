package notify

import (
	"context"

	"fyne.io/fyne/v2"
)

// FyneNotifier sends OS notifications through the running Fyne app and
// hands every alert to OnAlert so the UI can open a window that must be dismissed.
type FyneNotifier struct {
	app     fyne.App
	OnAlert func(title, body string)
}

// NewFyneNotifier creates a notifier for app
func NewFyneNotifier(app fyne.App) *FyneNotifier {
	return &FyneNotifier{app: app}
}

func (n *FyneNotifier) Permission() Permission {
	if n.app == nil {
		return Unsupported
	}
	return Granted
}

func (n *FyneNotifier) RequestPermission(ctx context.Context) Permission {
	return n.Permission()
}

func (n *FyneNotifier) Show(title, body string) error {
	if n.app == nil {
		return ErrUnsupported
	}

	n.app.SendNotification(fyne.NewNotification(title, body))

	if n.OnAlert != nil {
		fyne.Do(func() {
			n.OnAlert(title, body)
		})
	}
	return nil
}
