package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/koustreak/schemareg/internal/loader"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/registry"
	"github.com/koustreak/schemareg/internal/schema"
	"github.com/koustreak/schemareg/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schema catalog over HTTP",
		Long: `Serve loads the configured schema description and exposes it as a
read-only JSON catalog. With source.watch set, a local document is reloaded
whenever it changes; a document that fails to load leaves the previous
catalog in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				root.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, root)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

func serve(ctx context.Context, root *rootOptions) error {
	cfg := root.cfg

	reg, err := openRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(reg, &cfg.Server)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	if cfg.Source.Watch && cfg.Source.Store == nil {
		g.Go(func() error {
			return loader.Watch(gctx, cfg.Source.Path, func(db *schema.Database) {
				next, err := registry.New(db, &cfg.Registry)
				if err != nil {
					logger.With().Err(err).Logger().Error("reloaded schema rejected")
					return
				}
				srv.Swap(next)
			})
		})
	}

	return g.Wait()
}
