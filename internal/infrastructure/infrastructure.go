// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, storage, classifier) that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/logging"
	"github.com/JaimeStill/taxon/internal/prompts"
	"github.com/JaimeStill/taxon/pkg/lifecycle"
	"github.com/JaimeStill/taxon/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, export storage, prompts, and the classifier dispatcher.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Storage    storage.System
	Prompts    prompts.System
	Classifier classifier.Classifier
	Dispatcher *classifier.Dispatcher

	logCloser io.Closer
}

// New creates an Infrastructure from the application configuration. Logs go
// to w (stdout when nil) tagged with command. It initializes all systems but
// does not start them; call Start separately.
func New(cfg *config.Config, w io.Writer, command string) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger, closer := logging.New(cfg.Logging, w, command)

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	ps := prompts.New(logger)

	client := &http.Client{Timeout: cfg.Classifier.TimeoutDuration()}
	c, err := classifier.New(cfg.Classifier, ps, client)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("classifier init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Storage:    store,
		Prompts:    ps,
		Classifier: c,
		Dispatcher: classifier.NewDispatcher(c, cfg.Classifier, logger),
		logCloser:  closer,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

// Close releases the log file. Call after Lifecycle.Shutdown returns.
func (i *Infrastructure) Close() error {
	return i.logCloser.Close()
}
