// Package platform wraps the native calls the tray app needs on macOS.
package platform

// BringToFront activates the app if another app holds focus and reports whether it did
func BringToFront() bool {
	if IsAppActive() {
		return false
	}
	ActivateApp()
	return true
}
