package readme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	rerrors "git.home.luguber.info/inful/hookdoc/internal/readme/errors"
)

const defaultFileMode fs.FileMode = 0o644

// WriteFile replaces path with data atomically: the bytes go to a temporary file in the
// same directory which is then renamed over the target. On any failure the previous
// file is left as it was.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return writeError(path, err)
	}

	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return writeError(path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return writeError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return writeError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return writeError(path, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return writeError(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return writeError(path, err)
	}
	committed = true
	return nil
}

func writeError(path string, err error) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", rerrors.ErrFileWrite, err), ferrors.CategoryFileSystem, "write document").
		WithContext("path", path).
		Fatal().
		Build()
}
