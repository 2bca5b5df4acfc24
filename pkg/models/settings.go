package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinLeadMinutes     = 0
	MaxLeadMinutes     = 10
	DefaultLeadMinutes = 10
)

// ErrLeadOutOfRange is returned when lead minutes fall outside [0, 10]
var ErrLeadOutOfRange = errors.New("lead minutes out of range")

// NotificationSettings controls when boundary notifications fire
type NotificationSettings struct {
	LeadMinutes int `json:"lead_minutes"` // minutes before a boundary, 0-10
}

// DefaultSettings returns the settings used when nothing valid is stored
func DefaultSettings() NotificationSettings {
	return NotificationSettings{LeadMinutes: DefaultLeadMinutes}
}

// Validate rejects lead minutes outside the supported range
func (s NotificationSettings) Validate() error {
	if s.LeadMinutes < MinLeadMinutes || s.LeadMinutes > MaxLeadMinutes {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrLeadOutOfRange, s.LeadMinutes, MinLeadMinutes, MaxLeadMinutes)
	}
	return nil
}

// Lead returns the lead window as a duration
func (s NotificationSettings) Lead() time.Duration {
	return time.Duration(s.LeadMinutes) * time.Minute
}

// AppConfig holds desktop application preferences
type AppConfig struct {
	AutoStart bool `json:"auto_start"`
}
