package logger_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/schemareg/internal/config"
	"github.com/koustreak/schemareg/internal/fixture"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/registry"
	"github.com/koustreak/schemareg/internal/server"
)

// capture installs a JSON logger writing to a buffer as the global logger
// and restores the previous one when the test ends.
func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := logger.FromContext(context.Background())
	t.Cleanup(func() {
		logger.SetGlobal(prev)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	var buf bytes.Buffer
	logger.SetGlobal(logger.New(&logger.Config{Level: level, Format: "json", Output: &buf}))
	return &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), sc.Text())
		out = append(out, e)
	}
	return out
}

func TestDefaultConfig(t *testing.T) {
	cfg := logger.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, os.Stderr, cfg.Output)
}

func TestConfigFromYAML(t *testing.T) {
	cfg, err := config.Parse([]byte("log:\n  level: warn\n  format: console\n  time_format: unixms\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "unixms", cfg.Log.TimeFormat)
	assert.Equal(t, os.Stderr, cfg.Log.Output, "output is not configurable from YAML")
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"debug", []string{"debug", "info", "warn", "error"}},
		{"info", []string{"info", "warn", "error"}},
		{"warn", []string{"warn", "error"}},
		{"error", []string{"error"}},
		{"disabled", nil},
		{"bogus", []string{"info", "warn", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := capture(t, tt.level)
			log := logger.With().Logger()
			log.Debug("d")
			log.Info("i")
			log.Warn("w")
			log.Error("e")

			var got []string
			for _, e := range entries(t, buf) {
				got = append(got, e["level"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFields(t *testing.T) {
	buf := capture(t, "info")

	logger.With().Str("schema", "public").Int("tables", 5).Err(errors.New("no such bucket")).Logger().
		Info("loaded")
	logger.With().Logger().ErrorWith("reload failed", errors.New("bad yaml"), map[string]any{"file": "schema.yaml"})

	got := entries(t, buf)
	require.Len(t, got, 2)

	assert.Equal(t, "loaded", got[0]["message"])
	assert.Equal(t, "public", got[0]["schema"])
	assert.EqualValues(t, 5, got[0]["tables"])
	assert.Equal(t, "no such bucket", got[0]["error"])
	assert.Contains(t, got[0], "time")
	assert.Contains(t, got[0], "caller")

	assert.Equal(t, "error", got[1]["level"])
	assert.Equal(t, "bad yaml", got[1]["error"])
	assert.Equal(t, "schema.yaml", got[1]["file"])
}

func TestFromContext(t *testing.T) {
	buf := capture(t, "info")

	logger.FromContext(context.Background()).Info("global")

	scoped := logger.With().Str("request_id", "r-1").Logger()
	ctx := scoped.WithContext(context.Background())
	logger.FromContext(ctx).Info("scoped")

	got := entries(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, "global", got[0]["message"])
	assert.NotContains(t, got[0], "request_id")
	assert.Equal(t, "r-1", got[1]["request_id"])
}

func TestRequestLogger(t *testing.T) {
	reg, err := registry.New(fixture.Travel(), nil)
	require.NoError(t, err)
	srv, err := server.New(reg, nil)
	require.NoError(t, err)

	buf := capture(t, "info")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schemas/graphql_public/functions/graphql", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	got := entries(t, buf)
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "request", e["message"])
	assert.Equal(t, "info", e["level"])
	assert.Equal(t, http.MethodGet, e["method"])
	assert.Equal(t, "/schemas/{schema}/functions/{name}", e["route"])
	assert.EqualValues(t, http.StatusOK, e["status"])
	assert.NotEmpty(t, e["request_id"])
}
