package main

import (
	"errors"
	"time"

	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/infrastructure"
	"github.com/JaimeStill/taxon/pkg/module"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	router  *module.Router
	http    *httpServer
}

func NewServer(cfg *config.Config, infra *infrastructure.Infrastructure) (*Server, error) {
	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"classifier", cfg.Classifier.Provider,
		"storage", cfg.Storage.Provider,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		router:  router,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown stops the server and waits for in-flight classification tasks,
// then releases the log file.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	err := s.infra.Lifecycle.Shutdown(timeout)
	return errors.Join(err, s.infra.Close())
}
