// Package app assembles repositories and services from configuration for the API server and schoolctl.
package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/school-ledger-api/internal/repository"
	"github.com/noah-isme/school-ledger-api/internal/service"
	"github.com/noah-isme/school-ledger-api/migrations"
	"github.com/noah-isme/school-ledger-api/pkg/cache"
	"github.com/noah-isme/school-ledger-api/pkg/config"
	"github.com/noah-isme/school-ledger-api/pkg/database"
	"github.com/noah-isme/school-ledger-api/pkg/export"
	"github.com/noah-isme/school-ledger-api/pkg/storage"
)

const tokenIssuer = "school-ledger-api"

// Repositories holds the data access layer.
type Repositories struct {
	Students *repository.StudentRepository
	Payments *repository.PaymentRepository
	Results  *repository.ResultRepository
	Subjects *repository.SubjectRepository
	Settings *repository.SettingsRepository
	Users    *repository.UserRepository
}

// Services holds the use-case layer.
type Services struct {
	Metrics  *service.MetricsService
	Cache    *service.CacheService
	Auth     *service.AuthService
	Students *service.StudentService
	Ledger   *service.LedgerService
	Subjects *service.SubjectService
	Results  *service.ResultService
	Settings *service.SettingsService
	Export   *service.ExportService
}

// App owns the open connections of a running process.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *sqlx.DB
	Redis    *redis.Client
	Storage  *storage.LocalStorage
	Repos    Repositories
	Services Services
}

// New connects to PostgreSQL and, when caching is enabled, Redis. A Redis outage disables the cache
// instead of failing start-up.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, DB: db}
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, cache disabled", zap.Error(err))
		} else {
			a.Redis = client
		}
	}

	a.Storage, err = storage.NewLocalStorage(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Repos = Repositories{
		Students: repository.NewStudentRepository(db),
		Payments: repository.NewPaymentRepository(db),
		Results:  repository.NewResultRepository(db),
		Subjects: repository.NewSubjectRepository(db),
		Settings: repository.NewSettingsRepository(db),
		Users:    repository.NewUserRepository(db),
	}
	a.Services = a.buildServices()
	return a, nil
}

func (a *App) buildServices() Services {
	cfg := a.Config
	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if a.Redis != nil {
		cacheRepo = repository.NewCacheRepository(a.Redis, a.Logger)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.LedgerTTL, a.Logger, a.Redis != nil)

	subjects := service.NewSubjectService(a.Repos.Subjects, validate, a.Logger)
	return Services{
		Metrics: metrics,
		Cache:   cacheSvc,
		Auth: service.NewAuthService(a.Repos.Users, validate, a.Logger, service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            tokenIssuer,
		}),
		Students: service.NewStudentService(a.Repos.Students, a.Storage, cacheSvc, cfg.Storage.MaxUploadBytes, validate, a.Logger),
		Ledger: service.NewLedgerService(a.Repos.Students, a.Repos.Payments, cacheSvc, metrics, service.LedgerConfig{
			CardSize: cfg.Print.LedgerCardSize,
			CacheTTL: cfg.Cache.LedgerTTL,
		}, validate, a.Logger),
		Subjects: subjects,
		Results:  service.NewResultService(a.Repos.Results, a.Repos.Students, subjects, metrics, validate, a.Logger),
		Settings: service.NewSettingsService(a.Repos.Settings, a.Storage, cacheSvc, cfg.Storage.MaxUploadBytes, a.Logger),
		Export: service.NewExportService(service.ExportConfig{SchoolName: cfg.SchoolName}, metrics, a.Logger,
			export.NewCSVExporter(), export.NewPDFExporter(cfg.Print.FontPath)),
	}
}

// LedgerStore adapts the repositories to the interactive ledger controller.
func (a *App) LedgerStore() *service.LedgerStore {
	return service.NewLedgerStore(a.Repos.Students, a.Repos.Payments, a.Services.Cache)
}

// Migrate applies pending schema migrations.
func (a *App) Migrate(ctx context.Context) ([]string, error) {
	return database.Migrate(ctx, a.DB, migrations.Files, a.Logger)
}

// PingDatabase checks the PostgreSQL connection.
func (a *App) PingDatabase(ctx context.Context) error {
	return a.DB.PingContext(ctx)
}

// PingCache reports Redis reachability. It succeeds trivially when the cache is disabled.
func (a *App) PingCache(ctx context.Context) error {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Ping(ctx).Err()
}

// Close releases connections.
func (a *App) Close() error {
	var firstErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
