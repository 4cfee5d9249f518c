package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost:5001", cfg.Server.Addr)
		assert.Equal(t, "./fund_data_cache", cfg.Cache.Dir)
		assert.Equal(t, 500*time.Millisecond, cfg.Source.PageDelay)
		assert.Equal(t, 10*time.Second, cfg.Source.HTTPTimeout)
		assert.Equal(t, 1000, cfg.Source.MaxPages)
		assert.InDelta(t, 0.03, cfg.Analytics.RiskFreeRate, 1e-12)
		assert.Empty(t, cfg.Refresh.Funds)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("CACHE_DIR", "/tmp/navcache")
		t.Setenv("PAGE_DELAY", "1s")
		t.Setenv("RISK_FREE_RATE", "0.025")
		t.Setenv("REFRESH_FUNDS", "000001, 110022,,")
		t.Setenv("EASTMONEY_F10_URL", "http://127.0.0.1:9000/")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost:8080", cfg.Server.Addr)
		assert.Equal(t, "/tmp/navcache", cfg.Cache.Dir)
		assert.Equal(t, time.Second, cfg.Source.PageDelay)
		assert.InDelta(t, 0.025, cfg.Analytics.RiskFreeRate, 1e-12)
		assert.Equal(t, []string{"000001", "110022"}, cfg.Refresh.Funds)
		assert.Equal(t, "http://127.0.0.1:9000", cfg.Source.F10BaseURL)
	})

	t.Run("rejects malformed durations", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "ten seconds")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects non-positive page bound", func(t *testing.T) {
		t.Setenv("MAX_PAGES", "0")

		_, err := Load()
		assert.Error(t, err)
	})
}
