package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

// SettingsRepository stores the singleton settings row.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row. A missing row yields sql.ErrNoRows.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	const query = `SELECT id, school_logo_url, updated_at FROM settings WHERE id = $1`
	var settings models.Settings
	if err := r.db.GetContext(ctx, &settings, query, models.SettingsID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveLogo records the logo URL, creating the row when needed.
func (r *SettingsRepository) SaveLogo(ctx context.Context, url string) (*models.Settings, error) {
	settings := models.Settings{ID: models.SettingsID, SchoolLogoURL: url, UpdatedAt: time.Now().UTC()}
	const query = `INSERT INTO settings (id, school_logo_url, updated_at) VALUES (:id, :school_logo_url, :updated_at)
        ON CONFLICT (id) DO UPDATE SET school_logo_url = EXCLUDED.school_logo_url, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return &settings, nil
}
