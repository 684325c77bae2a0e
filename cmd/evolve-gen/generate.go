package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"schema-evolver/internal/helpers"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/render"
	"schema-evolver/internal/synth"
)

type GenerateCommand struct {
	Input       string `arg:"" help:"Input document (YAML)." type:"existingfile"`
	Output      string `help:"Path of the generated stylesheet." short:"o" default:"evolve.xsl"`
	Config      string `help:"Synthesis options file (YAML)." short:"c" type:"existingfile"`
	HelpersHref string `help:"Href of the helper library, relative to the output." name:"helpers-href"`
	HelpersMode string `help:"Keep (reuse) or overwrite (regenerate) an existing helper library." name:"helpers-mode" enum:"reuse,regenerate" default:"reuse"`
	DumpIR      bool   `help:"Print the program tree to stdout." name:"dump-ir"`
}

func (r *GenerateCommand) Run(app *App) error {
	return Generate(app, r)
}

func Generate(app *App, command *GenerateCommand) error {
	ctx := context.Background()

	config, err := loadConfig(command.Config)
	if err != nil {
		return err
	}

	if command.HelpersHref != "" {
		config.HelpersHref = command.HelpersHref
	}

	mode, err := helpers.ParseMode(command.HelpersMode)
	if err != nil {
		return err
	}

	result, err := app.synthesize(ctx, command.Input, config)
	if err != nil {
		return err
	}

	if command.DumpIR {
		if err := ir.Dump(os.Stdout, result.Program); err != nil {
			return fmt.Errorf("dumping program: %w", err)
		}
	}

	if err := render.WriteFile(result.Program, command.Output); err != nil {
		return err
	}

	written, err := helpers.Install(filepath.Dir(command.Output), config.HelpersHref, mode)
	if err != nil {
		return err
	}

	app.Logger.InfoContext(ctx, "stylesheet written",
		slog.String("output", command.Output),
		slog.Int("templates", len(result.Program.Templates)),
		slog.Int("warnings", len(result.Diagnostics.Warnings)),
		slog.Bool("helpers_written", written))

	return nil
}

func loadConfig(path string) (synth.Config, error) {
	if path == "" {
		return synth.DefaultConfig(), nil
	}

	return synth.LoadConfig(path)
}
