package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sprintfang/internal/burndown"
	"github.com/Sumatoshi-tech/sprintfang/internal/config"
	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
	"github.com/Sumatoshi-tech/sprintfang/internal/server"
	"github.com/Sumatoshi-tech/sprintfang/internal/version"
)

// ServeCommand holds flags for the serve command.
type ServeCommand struct {
	port       int
	dataDir    string
	configPath string
}

// NewServeCommand creates the serve command: an HTTP server accepting
// export uploads and running the pipeline with today's date.
func NewServeCommand() *cobra.Command {
	sc := &ServeCommand{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the export upload server",
		Long:  "Start a web server that accepts tracker CSV uploads and processes them immediately.",
		RunE:  sc.run,
	}

	cmd.Flags().IntVarP(&sc.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVar(&sc.dataDir, "data-dir", "", "Data directory root (default from config)")
	cmd.Flags().StringVar(&sc.configPath, "config", "", "Config file path (default: .sprintfang.yaml in CWD or $HOME)")

	return cmd
}

func (sc *ServeCommand) run(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(sc.configPath)
	if err != nil {
		return err
	}

	port := sc.port
	if port == 0 {
		port = cfg.Server.Port
	}

	dataDir := sc.dataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	providers, err := observability.Init(observability.Config{
		OTLPEndpoint:   cfg.OTLP.Endpoint,
		OTLPInsecure:   cfg.OTLP.Insecure,
		ServiceVersion: version.Version,
		LogLevel:       observability.ParseLogLevel(cfg.Log.Level),
		LogJSON:        cfg.Log.JSON,
	})
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	slog.SetDefault(providers.Logger)

	srv := server.New(server.Options{
		DataDir:         dataDir,
		Port:            port,
		ReadTimeoutSec:  cfg.Server.ReadTimeoutSec,
		WriteTimeoutSec: cfg.Server.WriteTimeoutSec,
		IdleTimeoutSec:  cfg.Server.IdleTimeoutSec,
		MaxUploadMB:     cfg.Server.MaxUploadMB,
		Done:            burndown.NewStatusSet(cfg.DoneStatuses),
		Logger:          providers.Logger,
		Tracer:          providers.Tracer,
	})

	return srv.ListenAndServe()
}
