// Package png implements the metadata variant for PNG images.
//
// Metadata lives in dedicated ancillary chunks (tEXt, zTXt, iTXt,
// tIME, eXIf). Lightweight cleaning drops exactly those chunks and
// copies everything else byte-for-byte. Thorough cleaning keeps only
// a structural whitelist, so unknown ancillary chunks (private
// vendor chunks, histograms, previews) are dropped too.
package png

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/simonhull/metaclean/internal/binary"
	"github.com/simonhull/metaclean/internal/registry"
	"github.com/simonhull/metaclean/internal/types"
)

var signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// metaChunks are the chunk types the variant recognizes as metadata
// carriers and removes in lightweight mode.
var metaChunks = map[string]bool{
	"tEXt": true,
	"zTXt": true,
	"iTXt": true,
	"tIME": true,
	"eXIf": true,
}

// structuralChunks are the only chunk types thorough cleaning keeps.
// Everything outside this set is treated as a potential metadata
// carrier, known or not.
var structuralChunks = map[string]bool{
	"IHDR": true,
	"PLTE": true,
	"tRNS": true,
	"gAMA": true,
	"sRGB": true,
	"IDAT": true,
	"IEND": true,
}

func init() {
	registry.Register(registry.Variant{
		Name:      "PNG",
		Mimetypes: []string{"image/png"},
		MetaKeys:  []string{"tEXt", "zTXt", "iTXt", "tIME", "eXIf"},
		New:       New,
	})
}

// chunk is one PNG chunk. raw spans length, type, data and CRC, so
// copying raw preserves the chunk bit-for-bit.
type chunk struct {
	typ  string
	data []byte
	raw  []byte
}

type parser struct {
	*types.Source
}

// New validates that the file behind src is a structurally sound PNG.
func New(src *types.Source) (types.Parser, error) {
	p := &parser{Source: src}
	data, err := p.ReadSource()
	if err != nil {
		return nil, &types.InvalidInputError{Path: src.Filename(), Reason: err.Error()}
	}
	if _, err := parseChunks(data, src.Filename()); err != nil {
		return nil, &types.InvalidInputError{Path: src.Filename(), Reason: err.Error()}
	}
	return p, nil
}

// parseChunks walks the full chunk sequence, validating structure.
func parseChunks(data []byte, path string) ([]chunk, error) {
	c := binary.NewCursor(data, path)

	sig, err := c.Bytes(len(signature), "PNG signature")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sig, signature) {
		return nil, fmt.Errorf("invalid PNG signature")
	}

	var chunks []chunk
	for c.Remaining() > 0 {
		start := c.Offset()

		length, err := c.U32("chunk length")
		if err != nil {
			return nil, err
		}
		typ, err := c.Bytes(4, "chunk type")
		if err != nil {
			return nil, err
		}
		payload, err := c.Bytes(int(length), "chunk data")
		if err != nil {
			return nil, err
		}
		if err := c.Skip(4, "chunk CRC"); err != nil {
			return nil, err
		}

		ck := chunk{
			typ:  string(typ),
			data: payload,
			raw:  data[start:c.Offset()],
		}
		if len(chunks) == 0 && ck.typ != "IHDR" {
			return nil, fmt.Errorf("first chunk is %s, expected IHDR", ck.typ)
		}
		chunks = append(chunks, ck)

		if ck.typ == "IEND" {
			break
		}
	}

	if len(chunks) == 0 || chunks[len(chunks)-1].typ != "IEND" {
		return nil, fmt.Errorf("missing IEND chunk")
	}
	return chunks, nil
}

// Meta extracts textual metadata, the modification timestamp, and any
// embedded EXIF block.
func (p *parser) Meta() (types.Metadata, error) {
	data, err := p.ReadSource()
	if err != nil {
		return nil, err
	}
	chunks, err := parseChunks(data, p.Filename())
	if err != nil {
		return nil, err
	}

	meta := types.Metadata{}
	for _, ck := range chunks {
		switch ck.typ {
		case "tEXt":
			key, text, ok := splitKeyword(ck.data)
			if ok {
				meta[key] = text
			}
		case "zTXt":
			key, text, ok := inflateZTXT(ck.data)
			if ok {
				meta[key] = text
			}
		case "iTXt":
			key, text, ok := parseITXT(ck.data)
			if ok {
				meta[key] = text
			}
		case "tIME":
			if len(ck.data) == 7 {
				year := int(ck.data[0])<<8 | int(ck.data[1])
				meta["ModifyDate"] = fmt.Sprintf("%04d:%02d:%02d %02d:%02d:%02d",
					year, ck.data[2], ck.data[3], ck.data[4], ck.data[5], ck.data[6])
			}
		case "eXIf":
			meta["Exif"] = fmt.Sprintf("%d bytes of raw EXIF data", len(ck.data))
		}
	}
	return meta, nil
}

// RemoveAll writes a cleaned copy of the image to OutputFilename.
func (p *parser) RemoveAll() error {
	data, err := p.ReadSource()
	if err != nil {
		return &types.CleaningError{Path: p.Filename(), Reason: "read source", Err: err}
	}
	chunks, err := parseChunks(data, p.Filename())
	if err != nil {
		return &types.CleaningError{Path: p.Filename(), Reason: "parse source", Err: err}
	}

	lightweight := p.Lightweight()
	return p.WriteOutput(func(w io.Writer) error {
		if _, err := w.Write(signature); err != nil {
			return err
		}
		for _, ck := range chunks {
			if lightweight {
				if metaChunks[ck.typ] {
					continue
				}
			} else if !structuralChunks[ck.typ] {
				continue
			}
			if _, err := w.Write(ck.raw); err != nil {
				return err
			}
		}
		return nil
	})
}

// splitKeyword splits a tEXt payload into keyword and text.
func splitKeyword(data []byte) (string, string, bool) {
	i := bytes.IndexByte(data, 0)
	if i < 1 {
		return "", "", false
	}
	return string(data[:i]), string(data[i+1:]), true
}

// inflateZTXT decompresses a zTXt payload.
func inflateZTXT(data []byte) (string, string, bool) {
	i := bytes.IndexByte(data, 0)
	if i < 1 || i+2 > len(data) || data[i+1] != 0 {
		// Compression method 0 (deflate) is the only one defined.
		return "", "", false
	}
	text, err := inflate(data[i+2:])
	if err != nil {
		return "", "", false
	}
	return string(data[:i]), text, true
}

// parseITXT decodes an iTXt payload: keyword, compression flag and
// method, language tag, translated keyword, then the text itself.
func parseITXT(data []byte) (string, string, bool) {
	i := bytes.IndexByte(data, 0)
	if i < 1 || i+3 > len(data) {
		return "", "", false
	}
	keyword := string(data[:i])
	compressed := data[i+1] == 1
	rest := data[i+3:]

	// Skip language tag and translated keyword.
	for k := 0; k < 2; k++ {
		j := bytes.IndexByte(rest, 0)
		if j < 0 {
			return "", "", false
		}
		rest = rest[j+1:]
	}

	if compressed {
		text, err := inflate(rest)
		if err != nil {
			return "", "", false
		}
		return keyword, text, true
	}
	return keyword, string(rest), true
}

func inflate(data []byte) (string, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
