package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
)

const initHeader = `# hookdoc configuration
#
# Every value below is the built-in default; delete what you do not need to change.
# ${VAR} references are expanded from the environment (.env files are loaded first).
`

// Init writes a configuration file populated with the defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode configuration").Build()
	}
	if err := enc.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode configuration").Build()
	}

	// #nosec G306 -- configuration is meant to be committed and shared.
	if err := os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
