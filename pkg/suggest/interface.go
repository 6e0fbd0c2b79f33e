// Package suggest is the query engine on top of pkg/trie. It keeps a prefix
// index and a substring index over the same titles, caches query results and
// ranks the returned titles.
package suggest

import "io"

// ICompleter defines the interface for title completion engines
type ICompleter interface {
	// Complete returns titles starting with prefix, at most limit of them
	Complete(prefix string, limit int) Result

	// Contains returns titles in which query occurs, at most limit of them
	Contains(query string, limit int) Result

	// AddTitle indexes a title and reports whether it was new
	AddTitle(title string) bool

	// Stats returns statistics about the loaded indexes
	Stats() map[string]int

	// Dump writes the tree behind the given mode to w
	Dump(w io.Writer, mode Mode) error
}
