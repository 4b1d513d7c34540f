package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"infilld/internal/breaker"
	"infilld/internal/common/fsutil"
	"infilld/internal/config"
	"infilld/internal/docstore"
	"infilld/internal/httpapi"
	"infilld/internal/infill"
	"infilld/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	var (
		addr        string
		cfgPath     string
		endpoint    string
		logLevel    string
		logFormat   string
		corsOrigins string
	)
	root := &cobra.Command{
		Use:           "infilld",
		Short:         "Inline completion daemon bridging editors to a llama.cpp infill endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, cfgPath, endpoint, logLevel, logFormat, corsOrigins)
		},
	}
	root.Flags().StringVar(&addr, "addr", envOr("INFILLD_ADDR", ":8013"), "HTTP listen address, e.g. :8013")
	root.Flags().StringVar(&cfgPath, "config", envOr("INFILLD_CONFIG", ""), "Path to a yaml/json/toml config file")
	root.Flags().StringVar(&endpoint, "llama-endpoint", envOr("INFILLD_LLAMA_ENDPOINT", ""), "llama.cpp infill URL (overrides config file)")
	root.Flags().StringVar(&logLevel, "log-level", envOr("INFILLD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.Flags().StringVar(&logFormat, "log-format", envOr("INFILLD_LOG_FORMAT", "console"), "Log format: console|json")
	root.Flags().StringVar(&corsOrigins, "cors-origins", envOr("INFILLD_CORS_ORIGINS", ""), "Comma-separated allowed CORS origins (empty disables CORS)")
	return root
}

func run(addr, cfgPath, endpoint, logLevel, logFormat, corsOrigins string) error {
	var cfg config.Config
	if cfgPath != "" {
		expanded, err := fsutil.ExpandHome(cfgPath)
		if err != nil {
			return err
		}
		if !fsutil.PathExists(expanded) {
			return fmt.Errorf("config file not found: %s", expanded)
		}
		loaded, err := config.Load(expanded)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// Flags fill in what the config file left unspecified.
	if cfg.Addr == "" {
		cfg.Addr = addr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = logFormat
	}
	if endpoint != "" {
		cfg.Llama.Endpoint = &endpoint
	}

	log := newLogger(cfg.LogLevel, cfg.LogFormat)

	if corsOrigins != "" {
		httpapi.SetCORSOptions(true,
			strings.Split(corsOrigins, ","),
			[]string{"GET", "POST"},
			[]string{"Content-Type"},
		)
	}

	resolver := config.NewResolver(cfg.Llama, nil)
	docs := docstore.NewStore()
	br := breaker.New(breaker.Config{})
	client := infill.NewClient(5*time.Second, log.With().Str("component", "infill").Logger())
	coord := pipeline.New(pipeline.Config{
		Resolver: resolver,
		Docs:     docs,
		Client:   infill.NewResilientClient(client, br),
		Breaker:  br,
		Log:      log.With().Str("component", "pipeline").Logger(),
	})

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(coord)}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("infilld listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		coord.Shutdown()
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	coord.Shutdown()
	return nil
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	var out = zerolog.New(os.Stderr)
	if format != "json" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return out.Level(lvl).With().Timestamp().Logger()
}
