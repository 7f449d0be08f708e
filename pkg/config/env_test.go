package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gitlab.connectwisedev.com/storefront-service/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := config.Load()

		assert.Equal(t, "https://graphql.contentful.com/content/v1/spaces", cfg.ContentfulBaseURL)
		assert.Equal(t, "https://api.courier.com", cfg.CourierBaseURL)
		assert.Equal(t, 2, cfg.SummaryPageSize)
		assert.Equal(t, 3, cfg.RecentListSize)
		assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("CONTENTFUL_SPACE_ID", "space-1")
		t.Setenv("CONTENTFUL_ACCESS_TOKEN", "read")
		t.Setenv("CONTENTFUL_PREVIEW_ACCESS_TOKEN", "preview")
		t.Setenv("COURIER_AUTH_TOKEN", "courier")
		t.Setenv("PAGE_SIZE", "6")
		t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
		t.Setenv("LOG_LEVEL", "debug")

		cfg := config.Load()

		assert.Equal(t, "space-1", cfg.ContentfulSpaceID)
		assert.Equal(t, "read", cfg.ContentfulAccessToken)
		assert.Equal(t, "preview", cfg.ContentfulPreviewAccessToken)
		assert.Equal(t, "courier", cfg.CourierAuthToken)
		assert.Equal(t, 6, cfg.SummaryPageSize)
		assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	})

	t.Run("BadLogLevelFallsBackToInfo", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "shouting")
		assert.Equal(t, slog.LevelInfo, config.Load().LogLevel)
	})
}
