package commands

import (
	"fmt"

	"git.home.luguber.info/inful/hookdoc/internal/readme"
)

// CheckCmd implements the 'check' command. It never writes.
type CheckCmd struct {
	Target TargetFlags `embed:""`
}

// Run executes the check command.
func (c *CheckCmd) Run(globals *Global, root *CLI) error {
	cfg, err := loadConfig(root, c.Target)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	gen, err := readme.NewGenerator(cfg, readme.WithLogger(globals.Logger))
	if err != nil {
		return err
	}
	res, err := gen.Check(ctx)
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return err
	}

	//nolint:forbidigo // fmt is used for user-facing messages
	fmt.Fprintf(globals.Out, "%s is up to date\n", res.Output)
	return nil
}
