// Package errors provides sentinel errors for README rendering and writing.
package errors

import "errors"

var (
	// ErrFileWrite indicates the generated document could not be written.
	ErrFileWrite = errors.New("document write failed")

	// ErrTemplate indicates the document template failed to parse or execute.
	ErrTemplate = errors.New("document template failed")

	// ErrStale indicates the document on disk differs from what would be generated.
	ErrStale = errors.New("document is out of date")

	// ErrDanglingAnchor indicates an in-document link that resolves to no heading.
	ErrDanglingAnchor = errors.New("document has dangling anchors")
)
