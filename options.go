package metaclean

// Option configures a parser created by New or CleanMany.
//
// Options use the functional options pattern:
//
//	p, err := metaclean.New("photo.jpg",
//	    metaclean.WithLightweightCleaning(),
//	)
type Option func(*openOptions)

// openOptions holds configuration applied to a freshly built parser.
type openOptions struct {
	lightweight bool // Remove only recognized fields
	inPlace     bool // Clean the original through a temp-file swap
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		lightweight: false, // Thorough cleaning by default
		inPlace:     false,
	}
}

// WithLightweightCleaning selects lightweight cleaning.
//
// Lightweight cleaning removes only the metadata fields the handler
// explicitly recognizes, preserving all other file structure
// byte-for-byte where possible. It is faster than thorough cleaning
// but gives a weaker guarantee: fields unknown to the handler may
// survive.
func WithLightweightCleaning() Option {
	return func(o *openOptions) {
		o.lightweight = true
	}
}

// WithInPlace requests in-place editing.
//
// The cleaning pass writes to a private temporary file and Finalize
// swaps it over the original. Callers must invoke Finalize exactly
// once on parsers opened with this option; it is a no-op when called
// again.
func WithInPlace() Option {
	return func(o *openOptions) {
		o.inPlace = true
	}
}
