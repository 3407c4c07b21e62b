// Package torrent implements the metadata variant for BitTorrent
// metainfo files.
//
// A torrent is one bencoded dictionary. The keys a client needs to
// download the content form a small allowlist; everything else at the
// top level (creator banner, creation date, comments) is metadata.
// Lightweight cleaning deletes exactly the known metadata keys;
// thorough cleaning re-serializes the dictionary keeping only the
// allowlist, so unknown keys are dropped too.
package torrent

import (
	"fmt"
	"io"
	"sort"

	"github.com/zeebo/bencode"

	"github.com/simonhull/metaclean/internal/registry"
	"github.com/simonhull/metaclean/internal/types"
)

// allowlist are the top-level keys a torrent needs to function.
var allowlist = map[string]bool{
	"announce":      true,
	"announce-list": true,
	"info":          true,
	"nodes":         true,
	"url-list":      true,
	"httpseeds":     true,
}

// metaKeys are the metadata keys the variant recognizes and removes
// in lightweight mode.
var metaKeys = []string{
	"comment",
	"comment.utf-8",
	"created by",
	"created by.utf-8",
	"creation date",
	"encoding",
	"publisher",
	"publisher-url",
}

func init() {
	registry.Register(registry.Variant{
		Name:      "torrent",
		Mimetypes: []string{"application/x-bittorrent"},
		MetaKeys:  metaKeys,
		New:       New,
	})
}

type parser struct {
	*types.Source
}

// New validates that the file behind src is a bencoded dictionary.
func New(src *types.Source) (types.Parser, error) {
	p := &parser{Source: src}
	if _, err := p.decode(); err != nil {
		return nil, &types.InvalidInputError{Path: src.Filename(), Reason: err.Error()}
	}
	return p, nil
}

func (p *parser) decode() (map[string]any, error) {
	data, err := p.ReadSource()
	if err != nil {
		return nil, err
	}
	var dict map[string]any
	if err := bencode.DecodeBytes(data, &dict); err != nil {
		return nil, fmt.Errorf("decode bencode: %w", err)
	}
	if dict == nil {
		return nil, fmt.Errorf("not a bencoded dictionary")
	}
	return dict, nil
}

// Meta returns every top-level key outside the structural allowlist.
func (p *parser) Meta() (types.Metadata, error) {
	dict, err := p.decode()
	if err != nil {
		return nil, err
	}

	meta := types.Metadata{}
	for key, value := range dict {
		if allowlist[key] {
			continue
		}
		meta[key] = stringify(value)
	}
	return meta, nil
}

// RemoveAll writes a cleaned copy of the metainfo to OutputFilename.
func (p *parser) RemoveAll() error {
	dict, err := p.decode()
	if err != nil {
		return &types.CleaningError{Path: p.Filename(), Reason: "parse source", Err: err}
	}

	if p.Lightweight() {
		for _, key := range metaKeys {
			delete(dict, key)
		}
	} else {
		for key := range dict {
			if !allowlist[key] {
				delete(dict, key)
			}
		}
	}

	return p.WriteOutput(func(w io.Writer) error {
		return bencode.NewEncoder(w).Encode(dict)
	})
}

// stringify renders a bencoded value for metadata reporting. Byte
// strings come back as-is; anything structured is summarized.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return fmt.Sprintf("%d", v)
	case []any:
		return fmt.Sprintf("list of %d entries", len(v))
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("dictionary with keys %v", keys)
	default:
		return fmt.Sprintf("%v", v)
	}
}
