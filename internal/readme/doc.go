// Package readme renders the hooks README and keeps it in sync with the hooks tree.
//
// A Generator discovers hook directories, renders them through a text/template
// (embedded default or a user override) and writes the result atomically. Check renders
// the same document in memory and reports whether the file on disk is stale.
package readme
