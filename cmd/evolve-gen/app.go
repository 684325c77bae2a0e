package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"schema-evolver/internal/schema"
	"schema-evolver/internal/synth"
)

// App carries what every subcommand shares.
type App struct {
	Verbose bool
	Logger  *slog.Logger
}

func newApp(w io.Writer, verbose bool) *App {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return &App{
		Verbose: verbose,
		Logger:  slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// synthesize runs the whole pipeline on the document at input: load,
// validate, build, synthesize. Diagnostics are logged as they come.
func (a *App) synthesize(ctx context.Context, input string, config synth.Config) (*synth.Result, error) {
	doc, err := schema.Load(input)
	if err != nil {
		return nil, err
	}

	diags := schema.Validate(doc)
	diags.Log(ctx, a.Logger)

	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid input document %s: %d error(s)", input, len(diags.Errors))
	}

	tree, table, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("building content model: %w", err)
	}

	config.Logger = a.Logger

	result, err := synth.New(tree, table, config).Run()
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	result.Diagnostics.Log(ctx, a.Logger)

	return result, nil
}
