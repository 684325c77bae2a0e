package main

import (
	"context"
	"log/slog"
)

type CheckCommand struct {
	Input  string `arg:"" help:"Input document (YAML)." type:"existingfile"`
	Config string `help:"Synthesis options file (YAML)." short:"c" type:"existingfile"`
}

func (r *CheckCommand) Run(app *App) error {
	ctx := context.Background()

	config, err := loadConfig(r.Config)
	if err != nil {
		return err
	}

	result, err := app.synthesize(ctx, r.Input, config)
	if err != nil {
		return err
	}

	app.Logger.InfoContext(ctx, "input is consistent",
		slog.Int("templates", len(result.Program.Templates)),
		slog.Int("warnings", len(result.Diagnostics.Warnings)),
		slog.Int("infos", len(result.Diagnostics.Infos)))

	return nil
}
