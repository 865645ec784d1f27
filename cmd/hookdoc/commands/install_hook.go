package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
)

const preCommitHook = `#!/usr/bin/env sh
# hookdoc pre-commit hook - keep README.md in sync with the hooks directory
set -e

if ! command -v hookdoc >/dev/null 2>&1; then
    echo "hookdoc not found in PATH, skipping README check"
    exit 0
fi

if ! hookdoc check%s; then
    echo ""
    echo "README is out of date. Regenerate it with:"
    echo "  hookdoc generate%s"
    echo ""
    echo "To bypass this check (not recommended):"
    echo "  git commit --no-verify"
    exit 1
fi
`

// InstallHookCmd implements the 'install-hook' command.
type InstallHookCmd struct {
	Force bool `help:"Overwrite existing hook without backup"`
}

// Run executes the install-hook command.
//
//nolint:forbidigo // fmt is used for user-facing messages
func (cmd *InstallHookCmd) Run(globals *Global, root *CLI) error {
	hooksDir, err := findHooksDir(".")
	if err != nil {
		return err
	}

	hookPath := filepath.Join(hooksDir, "pre-commit")
	if err := os.MkdirAll(hooksDir, 0o750); err != nil {
		return hookFileError(err, hooksDir, "create git hooks directory")
	}

	if _, err := os.Stat(hookPath); err == nil && !cmd.Force {
		backupPath := fmt.Sprintf("%s.backup-%s", hookPath, time.Now().Format("20060102-150405"))
		// #nosec G304 -- hook path lives in the repository's git directory.
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return hookFileError(err, hookPath, "read existing hook")
		}
		// #nosec G306 -- git hooks must be executable.
		if err := os.WriteFile(backupPath, content, 0o755); err != nil {
			return hookFileError(err, backupPath, "back up existing hook")
		}
		fmt.Fprintf(globals.Out, "Backed up existing hook to %s\n", backupPath)
	}

	configArg := ""
	if root.Config != "" {
		configArg = " --config " + shellQuote(root.Config)
	}
	content := fmt.Sprintf(preCommitHook, configArg, configArg)
	// #nosec G306 -- git hooks must be executable.
	if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
		return hookFileError(err, hookPath, "write hook")
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(hookPath, 0o755); err != nil { // #nosec G302 -- executable hook
		return hookFileError(err, hookPath, "make hook executable")
	}

	fmt.Fprintf(globals.Out, "Pre-commit hook installed at %s\n", hookPath)
	fmt.Fprintf(globals.Out, "To uninstall: rm %s\n", hookPath)
	return nil
}

// findHooksDir returns the directory git runs hooks from for the repository containing
// dir. core.hooksPath wins when set. Otherwise hooks live in the common git directory, so
// a linked worktree shares the hooks of its main repository.
func findHooksDir(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true, EnableDotGitCommonDir: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", ferrors.ValidationError("not in a git repository").WithContext("directory", dir).Build()
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "open git repository").WithContext("directory", dir).Build()
	}
	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", ferrors.InternalError("git repository has no filesystem storage").Build()
	}
	gitDir, err := commonGitDir(storage.Filesystem().Root())
	if err != nil {
		return "", err
	}

	cfg, err := repo.Config()
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryConfig, "read git config").WithContext("directory", gitDir).Build()
	}
	hooksPath := cfg.Raw.Section("core").Option("hooksPath")
	if hooksPath == "" {
		return filepath.Join(gitDir, "hooks"), nil
	}
	if rest, ok := strings.CutPrefix(hooksPath, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryConfig, "expand core.hooksPath").Build()
		}
		return filepath.Join(home, rest), nil
	}
	if filepath.IsAbs(hooksPath) {
		return hooksPath, nil
	}
	// Relative paths are taken from where hooks run: the worktree root, or the git
	// directory of a bare repository.
	base := gitDir
	if wt, err := repo.Worktree(); err == nil {
		base = wt.Filesystem.Root()
	}
	return filepath.Join(base, hooksPath), nil
}

// commonGitDir follows the commondir file of a linked worktree's git directory.
func commonGitDir(gitDir string) (string, error) {
	// #nosec G304 -- path lives in the repository's git directory.
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if errors.Is(err, os.ErrNotExist) {
		return gitDir, nil
	}
	if err != nil {
		return "", hookFileError(err, filepath.Join(gitDir, "commondir"), "read git common directory")
	}
	common := strings.TrimSpace(string(data))
	if !filepath.IsAbs(common) {
		common = filepath.Join(gitDir, common)
	}
	return filepath.Clean(common), nil
}

func hookFileError(err error, path, message string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, message).WithContext("path", path).Build()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
