package commands

import (
	"fmt"

	"git.home.luguber.info/inful/hookdoc/internal/hooks"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	HooksDir   string `name:"hooks-dir" help:"Directory holding one directory per hook (overrides hooks.directory)" placeholder:"DIR"`
	SourceFile string `name:"source-file" help:"Source file read from each hook directory (overrides hooks.source_file)" placeholder:"NAME"`
}

// Run prints one "identifier<TAB>directory" line per hook, in document order.
func (l *ListCmd) Run(globals *Global, root *CLI) error {
	cfg, err := loadConfig(root, TargetFlags{HooksDir: l.HooksDir, SourceFile: l.SourceFile})
	if err != nil {
		return err
	}

	entries, err := hooks.NewDiscovery(cfg.Hooks.Directory, cfg.Hooks.SourceFile, cfg.Hooks.Exclude).Discover()
	if err != nil {
		return err
	}
	for _, e := range entries {
		//nolint:forbidigo // fmt is used for user-facing messages
		fmt.Fprintf(globals.Out, "%s\t%s\n", e.Identifier, e.DirectoryName)
	}
	return nil
}
