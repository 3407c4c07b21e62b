package types

// Metadata maps metadata field names to their values.
//
// A value is either a string or a nested Metadata, for formats that
// embed structured metadata blocks inside other metadata (e.g. EXIF
// IFDs inside a JPEG APP1 segment).
//
// An empty Metadata is a valid result: it means the file carries no
// recognized metadata. It is never used to signal extraction failure.
type Metadata map[string]any

// Nested returns the nested block stored under key, or nil if the key
// is absent or holds a scalar value.
func (m Metadata) Nested(key string) Metadata {
	if sub, ok := m[key].(Metadata); ok {
		return sub
	}
	return nil
}
