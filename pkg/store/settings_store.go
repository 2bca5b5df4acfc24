package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/models"
)

const (
	settingsKey  = "notification_settings"
	autoStartKey = "auto_start"
)

// SettingsStore persists notification settings and desktop preferences
type SettingsStore struct {
	kv     KV
	logger *slog.Logger
}

// NewSettingsStore creates a settings store over kv
func NewSettingsStore(kv KV, logger *slog.Logger) *SettingsStore {
	return &SettingsStore{
		kv:     kv,
		logger: logging.Component(logger, "settings"),
	}
}

// Load returns the stored settings, or the defaults when nothing valid is stored
func (s *SettingsStore) Load() models.NotificationSettings {
	raw, err := s.kv.Get(settingsKey)
	if err != nil {
		s.logger.Error("failed to read settings", "error", err)
		return models.DefaultSettings()
	}
	if raw == "" {
		return models.DefaultSettings()
	}

	var settings models.NotificationSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.logger.Warn("ignoring corrupt settings", "error", err)
		return models.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		s.logger.Warn("ignoring stored settings", "error", err)
		return models.DefaultSettings()
	}
	return settings
}

// Save validates and stores settings
func (s *SettingsStore) Save(settings models.NotificationSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.kv.Set(settingsKey, string(data)); err != nil {
		s.logger.Error("failed to save settings", "error", err)
		return err
	}
	s.logger.Info("settings saved", "lead_minutes", settings.LeadMinutes)
	return nil
}

// Reset removes the stored settings so the defaults apply again
func (s *SettingsStore) Reset() error {
	if err := s.kv.Remove(settingsKey); err != nil {
		s.logger.Error("failed to reset settings", "error", err)
		return err
	}
	s.logger.Info("settings reset to defaults")
	return nil
}

// LoadAppConfig returns the desktop preferences
func (s *SettingsStore) LoadAppConfig() models.AppConfig {
	raw, err := s.kv.Get(autoStartKey)
	if err != nil {
		s.logger.Error("failed to read app config", "error", err)
		return models.AppConfig{}
	}
	autoStart, _ := strconv.ParseBool(raw)
	return models.AppConfig{AutoStart: autoStart}
}

// SaveAppConfig stores the desktop preferences
func (s *SettingsStore) SaveAppConfig(cfg models.AppConfig) error {
	if err := s.kv.Set(autoStartKey, strconv.FormatBool(cfg.AutoStart)); err != nil {
		s.logger.Error("failed to save app config", "error", err)
		return err
	}
	return nil
}
