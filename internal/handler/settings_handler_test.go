package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/internal/service"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
)

type fakeSettingsSrv struct {
	logo []byte
	err  error
}

func (f *fakeSettingsSrv) Get(context.Context) (*models.Settings, error) {
	return &models.Settings{ID: models.SettingsID}, nil
}

func (f *fakeSettingsSrv) UploadLogo(_ context.Context, data []byte) (*models.Settings, error) {
	f.logo = data
	if f.err != nil {
		return nil, f.err
	}
	return &models.Settings{ID: models.SettingsID, SchoolLogoURL: "/files/logos/logo.png"}, nil
}

func TestSettingsHandlerGet(t *testing.T) {
	h := NewSettingsHandler(&fakeSettingsSrv{})
	c, rec := newTestContext(http.MethodGet, "/settings", nil)

	h.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.SettingsID)
}

func TestSettingsHandlerUploadLogo(t *testing.T) {
	srv := &fakeSettingsSrv{}
	h := NewSettingsHandler(srv)

	c, rec := multipartContext(t, "/settings/logo", "logo", []byte("img"))
	h.UploadLogo(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("img"), srv.logo)

	srv.err = appErrors.ErrPayloadTooLarge
	c, rec = multipartContext(t, "/settings/logo", "logo", []byte("img"))
	h.UploadLogo(c)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{
		"database": func(context.Context) error { return nil },
	})
	c, rec := newTestContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	h = NewMetricsHandler(nil, map[string]ReadinessCheck{
		"database": func(context.Context) error { return nil },
		"cache":    func(context.Context) error { return errors.New("connection refused") },
	})
	c, rec = newTestContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordDocument(service.DocumentLedgerPDF)
	h := NewMetricsHandler(metrics, nil)

	c, rec := newTestContext(http.MethodGet, "/metrics", nil)
	h.Prometheus(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "documents_rendered_total")

	c, _ = newTestContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, c.Writer.Status())
}
