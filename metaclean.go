package metaclean

import (
	"github.com/gabriel-vasile/mimetype"

	"github.com/simonhull/metaclean/internal/registry"
	"github.com/simonhull/metaclean/internal/types"
)

// Parser is the contract every format handler implements.
//
// A Parser is single-use: it cleans one file once. Meta may be called
// before or after cleaning (it always reads the untouched source) and
// must not mutate the file. Callers must not clean the same source
// file through two parsers at once.
type Parser = types.Parser

// Metadata maps metadata field names to values. A value is either a
// string or a nested Metadata for hierarchical blocks.
type Metadata = types.Metadata

// New opens a file and returns the parser for its detected content
// type.
//
// Detection sniffs file content, not the extension, so a renamed file
// is dispatched to the right handler. Returns *UnsupportedFormatError
// when no handler exists for the detected MIME type, and
// *InvalidInputError when the path is unreadable or the content does
// not survive the handler's structural validation.
//
// Options can be provided to configure the parser up front:
//
//	p, err := metaclean.New("photo.jpg",
//	    metaclean.WithLightweightCleaning(),
//	    metaclean.WithInPlace(),
//	)
func New(path string, opts ...Option) (Parser, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, &types.InvalidInputError{Path: path, Reason: err.Error()}
	}

	variant, ok := registry.Lookup(mtype.String())
	if !ok {
		return nil, &types.UnsupportedFormatError{Path: path, Mimetype: mtype.String()}
	}

	src, err := types.NewSource(path)
	if err != nil {
		return nil, err
	}

	p, err := variant.New(src)
	if err != nil {
		return nil, err
	}

	if options.lightweight {
		p.SetLightweight(true)
	}
	if options.inPlace {
		if err := p.EditInPlace(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SupportedMimetypes returns the sorted MIME types metaclean can
// clean.
func SupportedMimetypes() []string {
	return registry.Mimetypes()
}

// KnownMetadata returns the metadata keys the handler for a MIME type
// recognizes and removes in lightweight mode. The second return value
// is false if the MIME type has no handler.
func KnownMetadata(mime string) ([]string, bool) {
	variant, ok := registry.Lookup(mime)
	if !ok {
		return nil, false
	}
	keys := make([]string, len(variant.MetaKeys))
	copy(keys, variant.MetaKeys)
	return keys, true
}
