package service

import (
	"context"
	"fmt"

	"realestate/internal/model"

	"github.com/samber/oops"
)

// AppVersion is reported on the settings screen
const AppVersion = "1.0.0"

type flagDef struct {
	def      bool
	enabled  string
	disabled string
}

var flagDefs = map[string]flagDef{
	model.SettingDarkMode:      {false, "Dark mode enabled", "Light mode enabled"},
	model.SettingNotifications: {true, "Notifications enabled", "Notifications disabled"},
	model.SettingBiometric:     {false, "Biometric authentication enabled", "Biometric authentication disabled"},
}

// SettingsService handles the settings screen
type SettingsService struct {
	store SettingsStore
}

// NewSettingsService creates a new settings service
func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns every flag with its default applied
func (s *SettingsService) Get(ctx context.Context, userID string) (*model.Settings, error) {
	var values [3]bool
	for i, name := range []string{model.SettingDarkMode, model.SettingNotifications, model.SettingBiometric} {
		v, err := s.store.GetBool(ctx, userID, name, flagDefs[name].def)
		if err != nil {
			return nil, oops.In("settings").With("setting", name).Wrapf(err, "failed to read settings")
		}
		values[i] = v
	}
	return &model.Settings{
		DarkMode:      values[0],
		Notifications: values[1],
		Biometric:     values[2],
		Version:       AppVersion,
	}, nil
}

// Set writes a flag and returns the confirmation notice
func (s *SettingsService) Set(ctx context.Context, userID, name string, enabled bool) (*model.UpdateSettingResponse, error) {
	def, ok := flagDefs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	if err := s.store.SetBool(ctx, userID, name, enabled); err != nil {
		return nil, oops.In("settings").With("setting", name).Wrapf(err, "failed to save setting")
	}

	notice := def.disabled
	if enabled {
		notice = def.enabled
	}
	return &model.UpdateSettingResponse{Name: name, Enabled: enabled, Notice: notice}, nil
}
