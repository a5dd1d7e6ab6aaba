package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-ledger-api/api/swagger"
	"github.com/noah-isme/school-ledger-api/internal/app"
	"github.com/noah-isme/school-ledger-api/internal/handler"
	"github.com/noah-isme/school-ledger-api/internal/middleware"
	"github.com/noah-isme/school-ledger-api/pkg/config"
	"github.com/noah-isme/school-ledger-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-ledger-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-ledger-api/pkg/middleware/requestid"
)

// @title School Ledger API
// @version 1.0.0
// @description Student admissions, monthly fee ledger and exam results for a school office
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise application", zap.Error(err))
	}
	defer a.Close() //nolint:errcheck

	if applied, err := a.Migrate(ctx); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	} else if len(applied) > 0 {
		logr.Info("database migrated", zap.Strings("versions", applied))
	}

	r := newRouter(a)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func newRouter(a *app.App) *gin.Engine {
	cfg := a.Config
	svc := a.Services

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svc.Metrics))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(svc.Metrics, map[string]handler.ReadinessCheck{
		"database": a.PingDatabase,
		"cache":    a.PingCache,
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.Static("/files", a.Storage.Dir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:     handler.NewAuthHandler(svc.Auth),
		Students: handler.NewStudentHandler(svc.Students, svc.Export),
		Ledger:   handler.NewLedgerHandler(svc.Ledger, svc.Export),
		Subjects: handler.NewSubjectHandler(svc.Subjects),
		Results:  handler.NewResultHandler(svc.Results, svc.Export),
		Settings: handler.NewSettingsHandler(svc.Settings),
		Metrics:  metricsHandler,
	}, middleware.JWT(svc.Auth), middleware.OptionalJWT(svc.Auth))

	return r
}
