package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"scriptgate/internal/app/server"
	"scriptgate/internal/app/version"
	"scriptgate/internal/config"
	"scriptgate/internal/content"
	"scriptgate/internal/gate"
	"scriptgate/internal/geo"
)

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, os.Args[1:], os.Stdout)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	// Anything logged before the configured level is known still goes to out.
	newLogger(out, log.InfoLevel)
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.ShowVersion {
		_, err := fmt.Fprintln(out, version.Get())
		return err
	}

	logger := newLogger(out, cfg.LogLevel)
	build := version.Get()
	logger.Info("Starting scriptgate",
		"version", build.BuildVersion,
		"route", cfg.RoutePath,
		"header", cfg.HeaderName,
		"file", cfg.FilePath,
		"allowed_ips", len(cfg.AllowedIPs),
		"allowed_ids", len(cfg.AllowedIDs),
	)

	opts := gate.Options{
		HeaderName:   cfg.HeaderName,
		AllowedIPs:   cfg.AllowedIPs,
		AllowedIDs:   cfg.AllowedIDs,
		RequiredHash: cfg.RequiredHash,
		Logger:       logger,
	}
	if cfg.GeoIPPath != "" {
		lookup, err := geo.Open(cfg.GeoIPPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := lookup.Close(); err != nil {
				logger.Warn("error closing geoip database", "error", err)
			}
		}()
		opts.Countries = lookup
		logger.Debug("GeoIP enrichment enabled", "db", cfg.GeoIPPath)
	}

	handler := server.NewHandler(cfg.RoutePath, gate.NewValidator(opts), content.NewFileSource(cfg.FilePath), logger)

	listener, err := server.Listen(cfg.Addr())
	if err != nil {
		return err
	}

	served := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(served)
		return server.Serve(gctx, listener, handler, logger)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-served:
		}
		if ctx.Err() != nil {
			logger.Info("Shutdown requested", "cause", context.Cause(ctx))
		}
		return nil
	})
	return g.Wait()
}

func newLogger(out io.Writer, level log.Level) *log.Logger {
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	log.SetDefault(logger)
	return logger
}
