// Package main provides the CLI entrypoint for evolve-gen.
//
// evolve-gen reads two versions of a content model together with the change
// classification between them and writes an XSLT stylesheet that upgrades
// documents from the old version to the new one.
package main

import (
	"os"

	"github.com/alecthomas/kong"
)

type Command struct {
	Verbose  bool             `help:"Enable debug logging." short:"v"`
	Generate *GenerateCommand `cmd:"generate" help:"Synthesize the evolution stylesheet."`
	Check    *CheckCommand    `cmd:"check" help:"Validate an input document and report diagnostics without writing files."`
}

func main() {
	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("evolve-gen"),
		kong.Description("Schema evolution stylesheet generator"),
		kong.UsageOnError(),
	)
	err := ctx.Run(newApp(os.Stderr, command.Verbose))
	ctx.FatalIfErrorf(err)
}
