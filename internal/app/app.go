package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/console"
	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	console  *console.Printer
	registry *registry.Registry
	config   *Config
	loader   config.Loader

	project *config.Project
}

// NewApp is the constructor for the main application. Task banners go to
// outW and logs to logW. When no modules are given the core modules are
// registered.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules()
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All task modules registered.", "count", len(modules))

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	return &App{
		logger:   logger,
		console:  console.New(outW),
		registry: reg,
		config:   cfg,
		loader:   loader,
	}, nil
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Project resolves the configuration once: built-in defaults, then the
// project file, then command-line overrides, then finalize.
func (a *App) Project(ctx context.Context) (*config.Project, error) {
	if a.project != nil {
		return a.project, nil
	}
	ctx = a.Context(ctx)

	ext := config.NewExtension(a.config.ProjectDir)
	if err := a.loader.Load(ctx, a.config.ConfigFile, ext); err != nil {
		return nil, err
	}
	if err := a.config.apply(ext); err != nil {
		return nil, err
	}
	p, err := ext.Finalize()
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Configuration finalized.",
		"project", p.Name,
		"mc", p.MCVersion,
		"run_directory", p.RunDirectory,
	)
	a.project = p
	return p, nil
}
