package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KEYWORD_PROVIDER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, ProviderMock, cfg.KeywordProvider)
	assert.Equal(t, "v22", cfg.GoogleAds.APIVersion)
	assert.Equal(t, 10*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", cfg.Scraper.UserAgent)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "sem_analysis_requests", cfg.AMQP.RequestQueue)
	assert.Empty(t, cfg.AMQP.URL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCRAPER_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("GOOGLE_ADS_CUSTOMER_ID", "123-456-7890")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "1234567890", cfg.GoogleAds.CustomerID)
}

func TestLoadGoogleAdsRequiresCredentials(t *testing.T) {
	t.Setenv("KEYWORD_PROVIDER", "googleads")
	t.Setenv("GOOGLE_ADS_DEVELOPER_TOKEN", "dev")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_ADS_REFRESH_TOKEN")
	assert.NotContains(t, err.Error(), "GOOGLE_ADS_DEVELOPER_TOKEN")
}

func TestLoadUnknownProvider(t *testing.T) {
	t.Setenv("KEYWORD_PROVIDER", "bing")

	_, err := Load()
	assert.Error(t, err)
}
