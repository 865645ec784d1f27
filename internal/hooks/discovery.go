package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	herrors "git.home.luguber.info/inful/hookdoc/internal/hooks/errors"
	"git.home.luguber.info/inful/hookdoc/internal/logfields"
)

// Discovery finds hook directories and reads their sources.
type Discovery struct {
	root       string
	sourceFile string
	exclude    map[string]struct{}
}

// NewDiscovery creates a discovery over root. sourceFile is the file name read from
// every hook directory; exclude lists directory names to skip.
func NewDiscovery(root, sourceFile string, exclude []string) *Discovery {
	ex := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		ex[name] = struct{}{}
	}
	return &Discovery{root: root, sourceFile: sourceFile, exclude: ex}
}

// Root returns the hooks root directory.
func (d *Discovery) Root() string { return d.root }

// Discover lists the immediate child directories of the root and returns one Entry per
// hook, sorted by directory name. Files, hidden directories and excluded names are
// skipped.
func (d *Discovery) Discover() ([]Entry, error) {
	children, err := os.ReadDir(d.root)
	if err != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", herrors.ErrDirectoryRead, err), ferrors.CategoryFileSystem, "list hooks directory").
			WithContext("directory", d.root).
			Fatal().
			Build()
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		name := child.Name()
		if !d.qualifies(child) {
			slog.Debug("Skipping hooks directory entry", logfields.Directory(name))
			continue
		}
		entries = append(entries, newEntry(d.root, name, d.sourceFile))
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(norm.NFC.String(a.DirectoryName), norm.NFC.String(b.DirectoryName))
	})

	if err := checkUnique(entries); err != nil {
		return nil, err
	}

	slog.Debug("Hooks discovered", logfields.Directory(d.root), logfields.Count(len(entries)))
	return entries, nil
}

// checkUnique rejects entries whose identifiers collide, since each identifier becomes
// a heading and a table-of-contents anchor.
func checkUnique(entries []Entry) error {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		first, dup := seen[e.Identifier]
		if !dup {
			seen[e.Identifier] = e.DirectoryName
			continue
		}
		return ferrors.WrapError(
			fmt.Errorf("%w: %q and %q both map to %s", herrors.ErrDuplicateIdentifier, first, e.DirectoryName, e.Identifier),
			ferrors.CategoryValidation, "duplicate hook identifier").
			WithContext("hook", e.Identifier).
			WithContext("directories", []string{first, e.DirectoryName}).
			Fatal().
			Build()
	}
	return nil
}

func (d *Discovery) qualifies(child os.DirEntry) bool {
	name := child.Name()
	if strings.HasPrefix(name, ".") {
		return false
	}
	if _, skip := d.exclude[name]; skip {
		return false
	}
	if child.IsDir() {
		return true
	}
	// Follow symlinked hook directories.
	if child.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(d.root, name))
		return err == nil && info.IsDir()
	}
	return false
}

// ReadSection reads the entry's source file verbatim.
func (d *Discovery) ReadSection(entry Entry) (Section, error) {
	// #nosec G304 -- path is built from the configured hooks root.
	src, err := os.ReadFile(entry.SourcePath)
	if err != nil {
		return Section{}, ferrors.WrapError(fmt.Errorf("%w: %w", herrors.ErrFileRead, err), ferrors.CategoryFileSystem, "read hook source").
			WithContext("hook", entry.Identifier).
			WithContext("path", entry.SourcePath).
			Fatal().
			Build()
	}
	return Section{Entry: entry, Source: src}, nil
}

// Sections discovers all hooks and reads every source. Any read failure aborts the
// whole call.
func (d *Discovery) Sections() ([]Section, error) {
	entries, err := d.Discover()
	if err != nil {
		return nil, err
	}
	sections := make([]Section, 0, len(entries))
	for _, entry := range entries {
		section, err := d.ReadSection(entry)
		if err != nil {
			return nil, err
		}
		slog.Debug("Hook source read", logfields.Hook(entry.Identifier), logfields.Bytes(len(section.Source)))
		sections = append(sections, section)
	}
	return sections, nil
}
