package main

import (
	"context"
	"log/slog"

	"github.com/NastyaGoryachaya/block-aggregator/internal/app"
	"github.com/NastyaGoryachaya/block-aggregator/internal/config"
	"github.com/NastyaGoryachaya/block-aggregator/pkg/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "block-aggregator",
		Short:         "Latest blocks from blockchain explorers behind an authenticated API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config (defaults to CONFIG_PATH, then env only)")

	root.AddCommand(
		serveCmd(opts),
		ingestCmd(opts),
		migrateCmd(opts),
		initAdminCmd(opts),
		providerCmd(opts),
		currencyCmd(opts),
	)
	return root
}

// load - конфиг и логгер; ошибки конфигурации фатальны для любой команды
func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(&cfg.Logger), nil
}

// withApp - поднимает соединения, выполняет fn и закрывает их
func (o *rootOptions) withApp(ctx context.Context, fn func(ctx context.Context, a *app.App, log *slog.Logger) error) error {
	cfg, log, err := o.load()
	if err != nil {
		return err
	}
	a, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("app init failed", slog.String("error", err.Error()))
		return err
	}
	defer a.Close()
	return fn(ctx, a, log)
}

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API, ingestion scheduler and optional Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App, log *slog.Logger) error {
				if err := a.Run(ctx); err != nil {
					log.Error("application stopped with error", slog.String("error", err.Error()))
					return err
				}
				log.Info("block-aggregator stopped")
				return nil
			})
		},
	}
}

func ingestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run exactly one ingestion cycle and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *slog.Logger) error {
				return a.IngestOnce(ctx)
			})
		},
	}
}
