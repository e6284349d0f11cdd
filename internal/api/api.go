// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/infrastructure"
	"github.com/JaimeStill/taxon/internal/metrics"
	"github.com/JaimeStill/taxon/pkg/middleware"
	"github.com/JaimeStill/taxon/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.RequestID(),
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger, metrics.ObserveRequest),
		middleware.Recover(runtime.Logger),
	)

	return m, nil
}
