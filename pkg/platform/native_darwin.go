//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

static void srHideFromDock(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}

static int srAppIsActive(void) {
    return [NSApp isActive] ? 1 : 0;
}

static void srActivate(void) {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// HideFromDock keeps the reminder in the menu bar only
func HideFromDock() {
	C.srHideFromDock()
}

// IsAppActive reports whether the reminder currently holds focus
func IsAppActive() bool {
	return C.srAppIsActive() == 1
}

// ActivateApp pulls the reminder in front of other applications
func ActivateApp() {
	C.srActivate()
}
