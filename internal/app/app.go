package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/jobforge/internal/builder"
	"github.com/vk/jobforge/internal/capability"
	"github.com/vk/jobforge/internal/ctxlog"
	"github.com/vk/jobforge/internal/jobio"
	"github.com/vk/jobforge/internal/manifest"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	caps    *capability.Registry
	loader  *manifest.Loader
	builder *builder.Builder
	codec   *jobio.Codec
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and capability
// catalog. A nil catalog selects the built-in one.
func NewApp(outW io.Writer, cfg *Config, caps *capability.Registry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if caps == nil {
		caps = capability.Default()
	}

	// Validate the integrity of the catalog. A broken catalog is a
	// programmer error, so we panic.
	if err := caps.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Capability catalog validation passed.")

	return &App{
		outW:   outW,
		logger: logger,
		caps:   caps,
		loader: manifest.NewLoader(),
		builder: builder.New(caps, builder.Options{
			MaxScriptLines: cfg.MaxScriptLines,
			Workers:        cfg.WorkerCount,
		}),
		codec: jobio.NewCodec(caps),
	}
}

// Capabilities returns the application's catalog. This is primarily for
// testing.
func (a *App) Capabilities() *capability.Registry {
	return a.caps
}
