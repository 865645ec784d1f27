// Package errors provides the classified error primitives shared by hookdoc packages.
//
// A ClassifiedError carries a category (what kind of failure), a severity and a free-form
// context map on top of the usual message/cause pair. Package-level sentinel errors
// (for example hooks/errors.ErrDirectoryRead) are wrapped as the cause so callers can use
// errors.Is while the CLI picks exit codes from the category.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "read hook source").
//		WithContext("path", sourcePath).
//		Fatal().
//		Build()
package errors
