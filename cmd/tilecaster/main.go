// Package main is the entry point for tilecaster.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/samdwyer/tilecaster/internal/game"
	"github.com/samdwyer/tilecaster/internal/gamedata"
	"github.com/samdwyer/tilecaster/internal/telemetry"
	"github.com/samdwyer/tilecaster/internal/ui"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_TILECASTER_API_KEY and TILECASTER_* available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

func run(cfg game.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx, telemetry.Config{SampleRatio: cfg.TraceRatio})
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	maps, err := gamedata.LoadMapRegistry()
	if err != nil {
		return fmt.Errorf("load maps: %w", err)
	}
	if cfg.MapsFile != "" {
		extra, err := gamedata.LoadMapsFile(cfg.MapsFile)
		if err != nil {
			return fmt.Errorf("load maps file: %w", err)
		}
		if err := maps.Add(extra); err != nil {
			return fmt.Errorf("maps file %s: %w", cfg.MapsFile, err)
		}
	}
	level, err := game.LoadLevel(ctx, cfg, maps)
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}

	// Terminal hosts own stdout, so logs go to a file or nowhere.
	restoreLog, err := redirectLog(cfg)
	if err != nil {
		return err
	}
	defer restoreLog()

	host, err := newHost(cfg, level, stop)
	if err != nil {
		return fmt.Errorf("start %s host: %w", cfg.Host, err)
	}
	defer host.Close()

	log.Printf("Running map %q on the %s host", level.Name, cfg.Host)
	return game.New(level, host, cfg).Run(ctx)
}

// newHost builds the configured host. onQuit is called when the user asks
// to leave.
func newHost(cfg game.Config, level game.Level, onQuit func()) (ui.Host, error) {
	opts := ui.Options{
		Width:         cfg.ViewportWidth,
		Height:        cfg.ViewportHeight,
		KeyHold:       cfg.KeyHold,
		OnQuit:        onQuit,
		Palette:       level.Palette,
		MiniMapWidth:  level.Grid.Width(),
		MiniMapHeight: level.Grid.Height(),
		Addr:          cfg.Addr,
	}

	switch cfg.Host {
	case ui.KindStream:
		return ui.NewStream(opts)
	case ui.KindBrowser:
		return ui.NewBrowser(opts)
	default:
		return ui.NewScreen(opts)
	}
}

// redirectLog sends log output to cfg.LogFile, or discards it, while a
// terminal host is running. The returned func restores stderr.
func redirectLog(cfg game.Config) (func(), error) {
	restore := func() { log.SetOutput(os.Stderr) }

	if cfg.Host == ui.KindBrowser {
		return func() {}, nil
	}
	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
		return restore, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		restore()
		f.Close()
	}, nil
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Respect an endpoint that is already configured, otherwise use Honeycomb
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// Always set headers from our API key - the .env file may have an unexpanded
	// variable reference that doesn't work, so we construct it properly here
	apiKey := os.Getenv("HONEYCOMB_TILECASTER_API_KEY")
	dataset := os.Getenv("HONEYCOMB_TILECASTER_DATASET")
	if dataset == "" {
		dataset = "tilecaster" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
