// Package notify delivers due boundaries to the platform notification service.
package notify

import "context"

// Permission is the state of the platform notification permission
type Permission int

const (
	Unsupported Permission = iota
	Undetermined
	Denied
	Granted
)

func (p Permission) String() string {
	switch p {
	case Undetermined:
		return "undetermined"
	case Denied:
		return "denied"
	case Granted:
		return "granted"
	default:
		return "unsupported"
	}
}

// Notifier is a platform notification service
type Notifier interface {
	// Permission returns the current permission without prompting
	Permission() Permission
	// RequestPermission prompts if needed and returns the resolved permission
	RequestPermission(ctx context.Context) Permission
	// Show displays a notification that stays until the user dismisses it
	Show(title, body string) error
}

// Chime plays the audible cue accompanying a notification
type Chime interface {
	Play() error
}
