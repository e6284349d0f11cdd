package logging_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/taxon/internal/logging"
)

var env = &logging.Env{
	Format: "TEST_LOG_FORMAT",
	Level:  "TEST_LOG_LEVEL",
	File:   "TEST_LOG_FILE",
}

func TestFinalizeDefaults(t *testing.T) {
	var cfg logging.Config
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Equal(t, 100, cfg.MaxSizeMB)
}

func TestFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_LOG_FORMAT", "TEXT")
	t.Setenv("TEST_LOG_LEVEL", "debug")

	var cfg logging.Config
	require.NoError(t, cfg.Finalize(env))
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestFinalizeRejects(t *testing.T) {
	cfg := logging.Config{Format: "xml"}
	assert.Error(t, cfg.Finalize(nil))

	cfg = logging.Config{Level: "verbose"}
	assert.Error(t, cfg.Finalize(nil))
}

func TestMerge(t *testing.T) {
	cfg := logging.Config{Format: "json", Level: "info"}
	cfg.Merge(&logging.Config{Level: "warn"})
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "warn", cfg.Level)
}

func TestNewJSON(t *testing.T) {
	var cfg logging.Config
	require.NoError(t, cfg.Finalize(nil))

	var buf bytes.Buffer
	logger, closer := logging.New(cfg, &buf, "serve")
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "taxon", entry["app"])
	assert.Equal(t, "serve", entry["command"])
	assert.Equal(t, "v", entry["k"])
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxon.log")
	cfg := logging.Config{Format: "text", File: path}
	require.NoError(t, cfg.Finalize(nil))

	var buf bytes.Buffer
	logger, closer := logging.New(cfg, &buf, "")
	logger.Info("to both")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to both"))
	assert.Contains(t, buf.String(), "to both")
}
