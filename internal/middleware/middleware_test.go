package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/internal/service"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
	"github.com/noah-isme/school-ledger-api/pkg/logger"
)

type stubAuthenticator struct {
	claims *models.JWTClaims
	err    error
	tokens []string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*models.JWTClaims, error) {
	s.tokens = append(s.tokens, token)
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	auth := &stubAuthenticator{claims: &models.JWTClaims{UserID: "u-1"}}
	r := newRouter()
	r.GET("/p", JWT(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
	assert.Empty(t, auth.tokens)
}

func TestJWTStoresClaims(t *testing.T) {
	auth := &stubAuthenticator{claims: &models.JWTClaims{UserID: "u-1", Email: "clerk@school.test"}}
	r := newRouter()
	r.GET("/p", JWT(auth), func(c *gin.Context) {
		v, ok := c.Get(ContextUserKey)
		require.True(t, ok)
		assert.Equal(t, "u-1", v.(*models.JWTClaims).UserID)
		assert.Equal(t, "u-1", c.GetString(logger.UserIDKey))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "bearer tok-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"tok-1"}, auth.tokens)
}

func TestJWTPropagatesSessionErrors(t *testing.T) {
	auth := &stubAuthenticator{err: appErrors.ErrSessionExpired}
	r := newRouter()
	r.GET("/p", JWT(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer stale")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrSessionExpired.Code)
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	auth := &stubAuthenticator{err: appErrors.ErrUnauthorized}
	r := newRouter()
	r.GET("/p", OptionalJWT(auth), func(c *gin.Context) {
		_, ok := c.Get(ContextUserKey)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer bad")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResponseMeta(t *testing.T) {
	r := newRouter()
	r.Use(WithResponseMeta())
	r.GET("/hit", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.JSON(http.StatusOK, ExtractMeta(c))
	})
	r.GET("/none", func(c *gin.Context) {
		assert.Nil(t, ExtractMeta(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hit", nil))
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/none", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsRecordsRoutePattern(t *testing.T) {
	metrics := service.NewMetricsService()
	r := newRouter()
	r.Use(Metrics(metrics))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	snap := metrics.Snapshot()
	assert.EqualValues(t, 1, snap.RequestsTotal)
}

func TestMetricsNilServicePassesThrough(t *testing.T) {
	r := newRouter()
	r.Use(Metrics(nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
