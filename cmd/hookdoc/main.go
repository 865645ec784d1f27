// Command hookdoc generates the README of a hooks collection from its source tree.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/hookdoc/cmd/hookdoc/commands"
	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/hookdoc/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cli commands.CLI
	parser, err := kong.New(&cli,
		kong.Name("hookdoc"),
		kong.Description("Generate the README of a hooks collection from its source tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return ferrors.ExitUsage
	}

	globals := commands.NewGlobal()
	if err := ctx.Run(globals, &cli); err != nil {
		return ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(os.Stderr, err)
	}
	return ferrors.ExitOK
}
