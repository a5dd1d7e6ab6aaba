package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/pkg/cache"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
	"github.com/noah-isme/school-ledger-api/pkg/storage"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	SaveLogo(ctx context.Context, url string) (*models.Settings, error)
}

// SettingsService manages school-wide presentation settings.
type SettingsService struct {
	repo      settingsRepository
	store     objectStore
	cache     *CacheService
	logger    *zap.Logger
	maxUpload int64
}

// NewSettingsService constructs the settings service. cache may be nil.
func NewSettingsService(repo settingsRepository, store objectStore, cacheSvc *CacheService, maxUpload int64, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = 2 * 1024 * 1024
	}
	return &SettingsService{repo: repo, store: store, cache: cacheSvc, logger: logger, maxUpload: maxUpload}
}

// Get returns the settings. A school that never saved settings gets an empty record.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	var cached models.Settings
	if s.cache.Get(ctx, cache.SettingsKey, &cached) {
		return &cached, nil
	}
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
		}
		settings = &models.Settings{ID: models.SettingsID}
	}
	s.cache.Set(ctx, cache.SettingsKey, settings, 0)
	return settings, nil
}

// UploadLogo stores a new school logo and records its public URL.
func (s *SettingsService) UploadLogo(ctx context.Context, data []byte) (*models.Settings, error) {
	if int64(len(data)) > s.maxUpload {
		return nil, appErrors.ErrPayloadTooLarge
	}
	_, ext, ok := storage.DetectImage(data)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "logo must be a JPEG, PNG, WebP or GIF image")
	}
	name := storage.RandomName("logos", "logo", "", ext)
	if err := s.store.Upload(ctx, name, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store logo")
	}
	settings, err := s.repo.SaveLogo(ctx, s.store.PublicURL(name))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.cache.Invalidate(ctx, cache.SettingsKey)
	s.logger.Info("school logo updated", zap.String("url", settings.SchoolLogoURL))
	return settings, nil
}
