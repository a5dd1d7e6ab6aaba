package models

import "time"

// SettingsID is the fixed key of the singleton settings row.
const SettingsID = "school_settings"

// Settings holds school-wide presentation settings.
type Settings struct {
	ID            string    `db:"id" json:"id"`
	SchoolLogoURL string    `db:"school_logo_url" json:"school_logo_url"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
