package hooks

import "path/filepath"

// Entry is one hook directory found under the hooks root.
type Entry struct {
	Identifier    string // camel-case name, e.g. useLocalStorage
	DirectoryName string // name as returned by the filesystem, e.g. use-local-storage
	SourcePath    string // path of the hook's source file
}

// Section is an Entry together with its verbatim source text.
type Section struct {
	Entry
	Source []byte
}

func newEntry(root, dirName, sourceFile string) Entry {
	return Entry{
		Identifier:    Identifier(dirName),
		DirectoryName: dirName,
		SourcePath:    filepath.Join(root, dirName, sourceFile),
	}
}
