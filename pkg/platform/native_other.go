//go:build !darwin

package platform

// HideFromDock is a no-op: only macOS shows tray apps in a dock
func HideFromDock() {}

// IsAppActive always reports true because focus is left to the window manager
func IsAppActive() bool {
	return true
}

func ActivateApp() {}
