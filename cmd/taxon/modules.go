package main

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/JaimeStill/taxon/internal/api"
	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/infrastructure"
	"github.com/JaimeStill/taxon/internal/metrics"
	"github.com/JaimeStill/taxon/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": cfg.Version})
	})

	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"status": "ready", "tasks": infra.Lifecycle.Active()})
	})

	if cfg.Metrics.On() {
		router.Handle("GET "+cfg.Metrics.Path, metrics.Handler())
	}

	return router
}
