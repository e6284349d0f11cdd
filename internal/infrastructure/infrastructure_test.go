package infrastructure_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/infrastructure"
	"github.com/JaimeStill/taxon/pkg/storage"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	require.NoError(t, cfg.Finalize())
	return cfg
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	infra, err := infrastructure.New(validConfig(t), &buf, "serve")
	require.NoError(t, err)

	assert.NotNil(t, infra.Lifecycle)
	assert.NotNil(t, infra.Logger)
	assert.NotNil(t, infra.Prompts)
	assert.NotNil(t, infra.Dispatcher)
	assert.IsType(t, &storage.Memory{}, infra.Storage)
	assert.IsType(t, &classifier.Mock{}, infra.Classifier)

	infra.Logger.Info("hello")
	assert.Contains(t, buf.String(), `"command":"serve"`)
	assert.NoError(t, infra.Close())
}

func TestNewRejectsBadStorage(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage = storage.Config{Provider: storage.ProviderAzure, ContainerName: "c", ConnectionString: "not a connection string"}

	_, err := infrastructure.New(cfg, &bytes.Buffer{}, "serve")
	assert.Error(t, err)
}

func TestStartAndShutdown(t *testing.T) {
	infra, err := infrastructure.New(validConfig(t), &bytes.Buffer{}, "serve")
	require.NoError(t, err)

	require.NoError(t, infra.Start())
	infra.Lifecycle.WaitForStartup()
	assert.True(t, infra.Lifecycle.Ready())

	require.NoError(t, infra.Lifecycle.Shutdown(time.Second))
	assert.False(t, infra.Lifecycle.Ready())
}
