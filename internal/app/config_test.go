package app

import (
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-pagination/better-pagination/internal/pagination"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 30*time.Second, cfg.AppRequestTimeout)
	assert.Equal(t, "page", cfg.PageName)
	assert.Equal(t, "global:pagination_offset", cfg.OffsetName)
	assert.Equal(t, 100, cfg.DefaultLimit)
	assert.Equal(t, 100, cfg.MaxLinks)
	assert.Equal(t, "bottom", cfg.Placement)
	assert.Equal(t, 5*time.Minute, cfg.CountCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PAGINATION_PAGE_NAME", "p")
	t.Setenv("PAGINATION_OFFSET_NAME", "global:offset")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "25")
	t.Setenv("PAGINATION_MAX_LINKS", "7")
	t.Setenv("PAGINATION_EVENT_LIMIT", "10")
	t.Setenv("PAGINATION_PLACEMENT", "both")
	t.Setenv("SITE_URL", "https://example.com")
	t.Setenv("COUNT_CACHE_TTL", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.CountCacheTTL)
	assert.Equal(t, 10, cfg.EventLimit)
	assert.Equal(t, "both", cfg.Placement)

	settings := cfg.ExtensionSettings()
	assert.Equal(t, "p", settings.PageName)
	assert.Equal(t, "global:offset", settings.OffsetName)
	assert.Equal(t, 25, settings.DefaultLimit)
	assert.Equal(t, 7, settings.MaxLinks)
	assert.Equal(t, "https://example.com", settings.SiteURL)
}

func TestLoadConfigRejectsInvalidPagination(t *testing.T) {
	cases := map[string][2]string{
		"zero default limit": {"PAGINATION_DEFAULT_LIMIT", "0"},
		"zero max links":     {"PAGINATION_MAX_LINKS", "0"},
		"max below default":  {"PAGINATION_MAX_LIMIT", "10"},
		"max above cap":      {"PAGINATION_MAX_LIMIT", "5000"},
		"negative events":    {"PAGINATION_EVENT_LIMIT", "-1"},
		"bad placement":      {"PAGINATION_PLACEMENT", "middle"},
		"not a number":       {"PAGINATION_DEFAULT_LIMIT", "many"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigRejectsDefaultAboveCap(t *testing.T) {
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "1500")
	t.Setenv("PAGINATION_MAX_LIMIT", "2000")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "must not exceed")
}

func TestLoadConfigAcceptsCap(t *testing.T) {
	t.Setenv("PAGINATION_DEFAULT_LIMIT", strconv.Itoa(pagination.MaxPerPage))
	t.Setenv("PAGINATION_MAX_LIMIT", strconv.Itoa(pagination.MaxPerPage))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, pagination.MaxPerPage, cfg.ExtensionSettings().DefaultLimit)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, parseLevel(nil))
	assert.Equal(t, slog.LevelDebug, parseLevel(&Config{LogLevel: "DEBUG"}))
	assert.Equal(t, slog.LevelWarn, parseLevel(&Config{LogLevel: "warning"}))
	assert.Equal(t, slog.LevelError, parseLevel(&Config{LogLevel: "error"}))
	assert.Equal(t, slog.LevelInfo, parseLevel(&Config{LogLevel: "chatty"}))
}
