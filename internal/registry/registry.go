// Package registry manages format variants keyed by the MIME types
// they handle.
package registry

import (
	"sort"

	"github.com/simonhull/metaclean/internal/types"
)

// Variant describes one format handler: the MIME types it accepts,
// the metadata keys it knows how to remove individually, and a
// constructor that validates the file and builds a parser for it.
type Variant struct {
	// Name is a short human-readable format name ("PNG", "torrent").
	Name string

	// Mimetypes this variant handles.
	Mimetypes []string

	// MetaKeys are the metadata fields the variant recognizes and is
	// able to remove in lightweight mode. Thorough mode may remove
	// more than these.
	MetaKeys []string

	// New validates the file behind src and returns a parser for it.
	// It returns *types.InvalidInputError for files that do not match
	// the variant's format.
	New func(src *types.Source) (types.Parser, error)
}

// variants maps a MIME type to its registered variant.
var variants = make(map[string]Variant)

// Register registers a variant for all of its MIME types.
// This is called by format packages during initialization (init functions).
func Register(v Variant) {
	for _, m := range v.Mimetypes {
		variants[m] = v
	}
}

// Lookup returns the variant registered for a MIME type.
// The second return value is false if no variant handles it.
func Lookup(mimetype string) (Variant, bool) {
	v, ok := variants[mimetype]
	return v, ok
}

// Mimetypes returns the sorted set of all MIME types with a
// registered variant.
func Mimetypes() []string {
	out := make([]string, 0, len(variants))
	for m := range variants {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
