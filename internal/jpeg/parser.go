// Package jpeg implements the metadata variant for JPEG images.
//
// Metadata lives in marker segments before the scan data: COM holds
// free-form comments, APP1 holds EXIF or XMP, APP13 holds Photoshop
// resources. Lightweight cleaning drops exactly those segments.
// Thorough cleaning drops every APPn segment except APP0 (JFIF) and
// APP14 (Adobe color transform), which decoders need.
package jpeg

import (
	"bytes"
	stdbinary "encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/metaclean/internal/binary"
	"github.com/simonhull/metaclean/internal/registry"
	"github.com/simonhull/metaclean/internal/types"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerCOM  = 0xFE
	markerAPP0 = 0xE0
)

var (
	exifHeader = []byte("Exif\x00\x00")
	xmpHeader  = []byte("http://ns.adobe.com/xap/1.0/\x00")
	irbHeader  = []byte("Photoshop 3.0\x00")
)

func init() {
	registry.Register(registry.Variant{
		Name:      "JPEG",
		Mimetypes: []string{"image/jpeg"},
		MetaKeys:  []string{"Comment", "Exif", "XMP", "PhotoshopIRB"},
		New:       New,
	})
}

// segment is one marker segment. raw spans the 0xFF marker byte
// through the end of the payload.
type segment struct {
	marker byte
	data   []byte
	raw    []byte
}

// image is the parsed segment sequence plus the opaque tail: the SOS
// segment, entropy-coded scan data and the EOI marker, copied
// verbatim on every cleaning path.
type image struct {
	segments []segment
	tail     []byte
}

type parser struct {
	*types.Source
}

// New validates that the file behind src is a structurally sound JPEG.
func New(src *types.Source) (types.Parser, error) {
	p := &parser{Source: src}
	data, err := p.ReadSource()
	if err != nil {
		return nil, &types.InvalidInputError{Path: src.Filename(), Reason: err.Error()}
	}
	if _, err := parseSegments(data, src.Filename()); err != nil {
		return nil, &types.InvalidInputError{Path: src.Filename(), Reason: err.Error()}
	}
	return p, nil
}

func parseSegments(data []byte, path string) (*image, error) {
	c := binary.NewCursor(data, path)

	soi, err := c.Bytes(2, "SOI marker")
	if err != nil {
		return nil, err
	}
	if soi[0] != 0xFF || soi[1] != markerSOI {
		return nil, fmt.Errorf("invalid JPEG: missing SOI marker")
	}

	img := &image{}
	for {
		start := c.Offset()

		prefix, err := c.U8("marker prefix")
		if err != nil {
			return nil, err
		}
		if prefix != 0xFF {
			return nil, fmt.Errorf("invalid marker prefix 0x%02X at offset %d", prefix, start)
		}
		marker, err := c.U8("marker")
		if err != nil {
			return nil, err
		}

		switch marker {
		case markerEOI:
			return img, nil
		case markerSOS:
			// Scan data runs to the end of the file; keep it opaque.
			img.tail = data[start:]
			return img, nil
		}

		length, err := c.U16("segment length")
		if err != nil {
			return nil, err
		}
		if length < 2 {
			return nil, fmt.Errorf("segment 0x%02X has invalid length %d", marker, length)
		}
		payload, err := c.Bytes(int(length)-2, "segment payload")
		if err != nil {
			return nil, err
		}

		img.segments = append(img.segments, segment{
			marker: marker,
			data:   payload,
			raw:    data[start:c.Offset()],
		})
	}
}

// Meta extracts the comment, EXIF IFD0 fields and the XMP packet.
func (p *parser) Meta() (types.Metadata, error) {
	data, err := p.ReadSource()
	if err != nil {
		return nil, err
	}
	img, err := parseSegments(data, p.Filename())
	if err != nil {
		return nil, err
	}

	meta := types.Metadata{}
	for _, seg := range img.segments {
		switch {
		case seg.marker == markerCOM:
			meta["Comment"] = string(seg.data)
		case seg.marker == markerAPP0+1 && bytes.HasPrefix(seg.data, exifHeader):
			if exif := parseExifIFD0(seg.data[len(exifHeader):]); len(exif) > 0 {
				meta["Exif"] = exif
			}
		case seg.marker == markerAPP0+1 && bytes.HasPrefix(seg.data, xmpHeader):
			meta["XMP"] = string(seg.data[len(xmpHeader):])
		case seg.marker == markerAPP0+13 && bytes.HasPrefix(seg.data, irbHeader):
			meta["PhotoshopIRB"] = fmt.Sprintf("%d bytes of Photoshop image resources", len(seg.data))
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
	img, err := parseSegments(data, p.Filename())
	if err != nil {
		return &types.CleaningError{Path: p.Filename(), Reason: "parse source", Err: err}
	}

	lightweight := p.Lightweight()
	return p.WriteOutput(func(w io.Writer) error {
		if _, err := w.Write([]byte{0xFF, markerSOI}); err != nil {
			return err
		}
		for _, seg := range img.segments {
			if dropSegment(seg, lightweight) {
				continue
			}
			if _, err := w.Write(seg.raw); err != nil {
				return err
			}
		}
		if len(img.tail) > 0 {
			if _, err := w.Write(img.tail); err != nil {
				return err
			}
		} else {
			if _, err := w.Write([]byte{0xFF, markerEOI}); err != nil {
				return err
			}
		}
		return nil
	})
}

// dropSegment decides whether a segment is removed in the selected
// cleaning mode.
func dropSegment(seg segment, lightweight bool) bool {
	if seg.marker == markerCOM {
		return true
	}
	isApp := seg.marker >= markerAPP0 && seg.marker <= markerAPP0+15

	if lightweight {
		// Only the segments we positively recognize as metadata.
		if !isApp {
			return false
		}
		switch seg.marker {
		case markerAPP0 + 1:
			return bytes.HasPrefix(seg.data, exifHeader) || bytes.HasPrefix(seg.data, xmpHeader)
		case markerAPP0 + 13:
			return bytes.HasPrefix(seg.data, irbHeader)
		}
		return false
	}

	// Thorough: every application segment is a potential carrier,
	// except the two decoders depend on.
	if isApp {
		return seg.marker != markerAPP0 && seg.marker != markerAPP0+14
	}
	return false
}

// exifTagNames maps IFD0 ASCII tags to their conventional names.
var exifTagNames = map[uint16]string{
	0x010E: "ImageDescription",
	0x010F: "Make",
	0x0110: "Model",
	0x0131: "Software",
	0x0132: "ModifyDate",
	0x013B: "Artist",
	0x8298: "Copyright",
}

// parseExifIFD0 walks IFD0 of the TIFF structure inside an APP1
// segment and collects the ASCII tags it knows about. Malformed EXIF
// yields whatever was readable; extraction must not fail on it.
func parseExifIFD0(tiff []byte) types.Metadata {
	if len(tiff) < 8 {
		return nil
	}

	var order stdbinary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = stdbinary.LittleEndian
	case "MM":
		order = stdbinary.BigEndian
	default:
		return nil
	}
	if order.Uint16(tiff[2:4]) != 42 {
		return nil
	}

	ifdOffset := order.Uint32(tiff[4:8])
	if int64(ifdOffset)+2 > int64(len(tiff)) {
		return nil
	}

	count := int(order.Uint16(tiff[ifdOffset : ifdOffset+2]))
	meta := types.Metadata{}
	for i := 0; i < count; i++ {
		entry := int64(ifdOffset) + 2 + int64(i)*12
		if entry+12 > int64(len(tiff)) {
			break
		}
		tag := order.Uint16(tiff[entry : entry+2])
		typ := order.Uint16(tiff[entry+2 : entry+4])
		n := order.Uint32(tiff[entry+4 : entry+8])

		name, known := exifTagNames[tag]
		if !known || typ != 2 { // type 2 is ASCII
			continue
		}

		var value []byte
		if n <= 4 {
			value = tiff[entry+8 : entry+8+int64(n)]
		} else {
			off := order.Uint32(tiff[entry+8 : entry+12])
			if int64(off)+int64(n) > int64(len(tiff)) {
				continue
			}
			value = tiff[off : off+n]
		}
		meta[name] = strings.TrimRight(string(value), "\x00")
	}
	return meta
}
