package commands

import (
	"context"

	"github.com/de-tools/bill-atlas/pkg/runtime/app"
	"github.com/de-tools/bill-atlas/pkg/services/config"
)

// Bootstrap builds the application for one command invocation.
type Bootstrap func(ctx context.Context, cfg *config.Config) (*app.App, error)

// Env carries what every command needs: the loaded config and a way to
// build the application from it.
type Env struct {
	ConfigPath string
	Bootstrap  Bootstrap
}

func (e *Env) load(mutate func(*config.Config)) (*config.Config, error) {
	cfg, err := config.LoadConfig(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	// commands read documents from their arguments
	cfg.Store.DocumentsDir = ""
	if mutate != nil {
		mutate(cfg)
	}
	return cfg, nil
}

func (e *Env) app(ctx context.Context, mutate func(*config.Config)) (*app.App, error) {
	cfg, err := e.load(mutate)
	if err != nil {
		return nil, err
	}
	return e.Bootstrap(ctx, cfg)
}
