package api

import (
	"net/http"

	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/filter"
	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/pkg/handlers"
	"github.com/JaimeStill/taxon/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	patterns := routes.Register(
		mux,
		domain.Sessions.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Prompts.Handler().Routes(),
		newExportsHandler(runtime.Storage, runtime.Logger).routes(),
		catalogRoutes(),
	)
	runtime.Logger.Debug("routes registered", "base_path", cfg.API.BasePath, "count", len(patterns))
}

func catalogRoutes() routes.Group {
	return routes.Group{
		Prefix: "/catalog",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/fields", Handler: func(w http.ResponseWriter, r *http.Request) {
				handlers.RespondJSON(w, http.StatusOK, records.Fields())
			}},
			{Method: "GET", Pattern: "/operators", Handler: func(w http.ResponseWriter, r *http.Request) {
				handlers.RespondJSON(w, http.StatusOK, filter.Operators())
			}},
		},
	}
}
