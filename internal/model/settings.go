package model

// Setting flag names
const (
	SettingDarkMode      = "dark_mode"
	SettingNotifications = "notifications_enabled"
	SettingBiometric     = "biometric_enabled"
)

// Settings represents the settings screen
type Settings struct {
	DarkMode      bool   `json:"dark_mode"`
	Notifications bool   `json:"notifications_enabled"`
	Biometric     bool   `json:"biometric_enabled"`
	Version       string `json:"version"`
}

// UpdateSettingRequest toggles a single flag
type UpdateSettingRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// UpdateSettingResponse carries the confirmation notice
type UpdateSettingResponse struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Notice  string `json:"notice"`
}
