// Package errors provides sentinel errors for hook discovery.
package errors

import "errors"

var (
	// ErrDirectoryRead indicates the hooks root directory is missing or cannot be listed.
	ErrDirectoryRead = errors.New("hooks directory read failed")

	// ErrFileRead indicates a hook's source file is missing or unreadable.
	ErrFileRead = errors.New("hook source read failed")

	// ErrDuplicateIdentifier indicates two hook directories map to the same identifier.
	ErrDuplicateIdentifier = errors.New("duplicate hook identifier")
)
