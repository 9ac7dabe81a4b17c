package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "disable", cfg.DB.SSLMode)
		assert.Equal(t, "@every 30s", cfg.StockReleaseSchedule)
		assert.Equal(t, 50, cfg.StockReleaseBatchSize)
		assert.Empty(t, cfg.RabbitMQURL)
	})

	t.Run("environment wins over defaults", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("REQUEST_TIMEOUT", "750ms")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("STOCK_RELEASE_BATCH_SIZE", "5")

		cfg, err := LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
		assert.Equal(t, "db.internal", cfg.DB.Host)
		assert.Equal(t, 5, cfg.StockReleaseBatchSize)
	})

	t.Run("env file seeds unset variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("DB_NAME=grocery_test\n"), 0o600))
		t.Setenv("DB_NAME", "")
		require.NoError(t, os.Unsetenv("DB_NAME"))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "grocery_test", cfg.DB.Name)
	})

	t.Run("missing env file is fine", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))

		assert.NoError(t, err)
	})

	t.Run("invalid values are reported together", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "0s")
		t.Setenv("STOCK_RELEASE_BATCH_SIZE", "-1")

		_, err := LoadConfig("")

		require.Error(t, err)
		assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
		assert.ErrorContains(t, err, "STOCK_RELEASE_BATCH_SIZE")
	})
}
