package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joeshaw/envdecode"

	"github.com/goliatone/go-formstate/pkg/engine"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/tui"
)

// Config holds the defaults read from the environment. Flags override them.
type Config struct {
	Schema    string `env:"FORMSTATE_SCHEMA,default=schema.json"`
	Operation string `env:"FORMSTATE_OPERATION"`
	Mode      string `env:"FORMSTATE_MODE,default=uncontrolled"`
	LogLevel  string `env:"FORMSTATE_LOG_LEVEL,default=warn"`
	Output    string `env:"FORMSTATE_OUTPUT,default=json"`
}

func main() {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		log.Fatalf("Failed to read environment: %v", err)
	}

	source := flag.String("source", cfg.Schema, "JSON schema or OpenAPI document path")
	opID := flag.String("operation", cfg.Operation, "operation ID whose request body defines the form")
	mode := flag.String("mode", cfg.Mode, "projection mode (controlled|uncontrolled)")
	level := flag.String("log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	output := flag.String("output", cfg.Output, "output format for the submitted record (json|form|pretty)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*level)}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, *source, *opID, engine.Mode(*mode), tui.OutputFormat(*output)); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("formstate: %v", err)
	}
}

func run(ctx context.Context, logger *slog.Logger, source, opID string, mode engine.Mode, format tui.OutputFormat) error {
	raw, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	validator, err := openapi.Load(ctx, raw, opID)
	if err != nil {
		return err
	}

	var encodeErr error
	onSubmit := func(record map[string]any) {
		payload, err := tui.Encode(record, format)
		if err != nil {
			encodeErr = err
			return
		}
		fmt.Println(string(payload))
	}

	e, err := engine.New(validator, onSubmit, engine.WithMode(mode), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := tui.NewSession(e, tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "})).Run(ctx); err != nil {
		return err
	}
	return encodeErr
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelWarn
	}
	return level
}
