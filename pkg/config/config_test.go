package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10, cfg.Print.LedgerCardSize)
	assert.Equal(t, 5*time.Minute, cfg.Cache.LedgerTTL)
	assert.Equal(t, int64(2*1024*1024), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, "/files", cfg.Storage.PublicBaseURL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("LEDGER_CARD_SIZE", 0)
	v.Set("LEDGER_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("STORAGE_PUBLIC_BASE_URL", "https://cdn.example/files/")

	cfg := fromViper(v)

	assert.Equal(t, 10, cfg.Print.LedgerCardSize)
	assert.Equal(t, 5*time.Minute, cfg.Cache.LedgerTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "https://cdn.example/files", cfg.Storage.PublicBaseURL)
}
