package commands

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapi-view/internal/cli/config"
	"github.com/conduit-lang/jsonapi-view/internal/web/server"
)

var servePort int

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON:API server",
		Long: `Open the database, seed it if configured, and serve the blog resources.

Examples:
  jsonapi-view serve
  jsonapi-view serve --port 8080
  JSONAPI_VIEW_CACHE_ENABLED=true jsonapi-view serve`,
		RunE: runServe,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides server.port)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	logger, err := NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv, err := server.New(server.DefaultConfig(cfg.Server.Addr(), app))
	if err != nil {
		app.Close()
		return err
	}

	shutdown := server.NewGracefulShutdown(srv, &server.ShutdownConfig{
		Timeout: 15 * time.Second,
		Logger:  logger,
	})
	shutdown.RegisterHook(func(ctx context.Context) error {
		return app.Close()
	})

	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(),
		"Serving JSON:API documents on http://%s%s\n", cfg.Server.Addr(), cfg.Server.APIPrefix)
	logger.Info("server configured",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("include_param", cfg.JSONAPI.IncludeParam),
		zap.String("naming", cfg.JSONAPI.Naming),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	return shutdown.Run(ctx)
}
