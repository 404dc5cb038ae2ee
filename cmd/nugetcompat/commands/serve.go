package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/version"
	"github.com/willibrandon/nugetcompat/observability"
	"github.com/willibrandon/nugetcompat/server"
)

// NewServeCommand creates the serve command
func NewServeCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine as a JSON HTTP API",
		Long: `Serve framework parsing, compatibility and version range evaluation over
HTTP, with Prometheus metrics on /metrics and health on /healthz.

Without TLS the server speaks HTTP/1.1 and cleartext HTTP/2 (h2c). With
--tls-cert and --tls-key it serves HTTPS, and --http3 adds HTTP/3 over QUIC.

Examples:
  nugetcompat serve --listen :8080
  nugetcompat serve --tls-cert cert.pem --tls-key key.pem --http3
  NUGETCOMPAT_TRACING_EXPORTER=otlp NUGETCOMPAT_TRACING_ENDPOINT=collector:4317 nugetcompat serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), console, cfg)
		},
	}

	// Flag values reach cfg through the config bindings of the root command.
	d := config.Default()
	cmd.Flags().String("listen", d.Server.Listen, "Listen address")
	cmd.Flags().String("tls-cert", "", "TLS certificate file")
	cmd.Flags().String("tls-key", "", "TLS private key file")
	cmd.Flags().Bool("http3", false, "Also serve HTTP/3 over QUIC (requires TLS)")
	cmd.Flags().Float64("rate-limit", d.Server.RateLimit, "Requests per second per client (0 disables)")
	cmd.Flags().String("tracing-exporter", d.Tracing.Exporter, "Trace exporter (none, stdout, otlp)")
	cmd.Flags().String("tracing-endpoint", "", "OTLP collector endpoint")
	cmd.Flags().Bool("tracing-insecure", false, "Connect to the OTLP collector without TLS")

	return cmd
}

func runServe(ctx context.Context, console *output.Console, cfg *config.Config) error {
	logger := newLogger(console, cfg)

	srvCfg := cfg.ServerConfig()
	if err := srvCfg.Validate(); err != nil {
		return err
	}

	tp, err := observability.SetupTracing(ctx, cfg.TracerConfig(version.Current().Version))
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := observability.ShutdownTracing(context.Background(), tp); err != nil {
			logger.Warn("Tracing shutdown failed: {Error}", err)
		}
	}()

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("nugetcompat {Version} serving {Profiles} portable profiles from {Source}",
		version.Current().Version, engine.Catalog().Len(), catalogSource(cfg))

	return server.New(engine, logger, cfg.ServerOptions()...).ListenAndServe(ctx, srvCfg)
}
