package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/infrastructure"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root.configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	infra, err := infrastructure.New(cfg, os.Stdout, "serve")
	if err != nil {
		return err
	}

	srv, err := NewServer(cfg, infra)
	if err != nil {
		infra.Close()
		return err
	}

	if err := srv.Start(); err != nil {
		srv.Shutdown(cfg.ShutdownTimeoutDuration())
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		return err
	}
	return nil
}
