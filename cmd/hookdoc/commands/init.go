package commands

import (
	"fmt"

	"git.home.luguber.info/inful/hookdoc/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(globals *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = config.DefaultConfigFile
	}
	//nolint:forbidigo // fmt is used for user-facing messages
	fmt.Fprintf(globals.Out, "Writing configuration to %s\n", path)
	return config.Init(path, i.Force)
}
