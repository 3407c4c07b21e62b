package jpeg

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/metaclean/internal/types"
)

// buildSegment assembles one marker segment with its length field.
func buildSegment(marker byte, payload []byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, marker})
	binary.Write(buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	return buf.Bytes()
}

// buildExifPayload builds an APP1 EXIF payload containing a single
// IFD0 ASCII tag (Make = "OLYMPUS").
func buildExifPayload() []byte {
	tiff := &bytes.Buffer{}
	tiff.WriteString("II")                                  // little-endian
	binary.Write(tiff, binary.LittleEndian, uint16(42))     // TIFF magic
	binary.Write(tiff, binary.LittleEndian, uint32(8))      // IFD0 offset
	binary.Write(tiff, binary.LittleEndian, uint16(1))      // entry count
	binary.Write(tiff, binary.LittleEndian, uint16(0x010F)) // Make
	binary.Write(tiff, binary.LittleEndian, uint16(2))      // ASCII
	binary.Write(tiff, binary.LittleEndian, uint32(8))      // value length
	binary.Write(tiff, binary.LittleEndian, uint32(26))     // value offset
	binary.Write(tiff, binary.LittleEndian, uint32(0))      // next IFD
	tiff.WriteString("OLYMPUS\x00")

	return append([]byte("Exif\x00\x00"), tiff.Bytes()...)
}

// buildJPEG assembles a minimal JPEG: SOI, APP0 JFIF, the given extra
// segments, then a scan section and EOI.
func buildJPEG(extra ...[]byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xD8}) // SOI
	buf.Write(buildSegment(0xE0, []byte("JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")))
	for _, seg := range extra {
		buf.Write(seg)
	}
	buf.Write(buildSegment(0xDA, []byte{0x01, 0x00, 0x00, 0x3F, 0x00})) // SOS
	buf.Write([]byte{0x12, 0x34, 0x56})                                 // entropy data
	buf.Write([]byte{0xFF, 0xD9})                                       // EOI
	return buf.Bytes()
}

func dirtyJPEG() []byte {
	return buildJPEG(
		buildSegment(0xFE, []byte("Created with GIMP")),
		buildSegment(0xE1, buildExifPayload()),
		buildSegment(0xE5, []byte("secret tracker v1")),
	)
}

func writeFixture(t *testing.T, name string, data []byte) *types.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	src, err := types.NewSource(path)
	require.NoError(t, err)
	return src
}

func TestNew_RejectsNonJPEG(t *testing.T) {
	src := writeFixture(t, "fake.jpg", []byte("\x89PNG\r\n\x1a\n"))
	_, err := New(src)
	var invalid *types.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestMeta(t *testing.T) {
	src := writeFixture(t, "dirty.jpg", dirtyJPEG())
	p, err := New(src)
	require.NoError(t, err)

	meta, err := p.Meta()
	require.NoError(t, err)

	assert.Equal(t, "Created with GIMP", meta["Comment"])
	exif := meta.Nested("Exif")
	require.NotNil(t, exif)
	assert.Equal(t, "OLYMPUS", exif["Make"])
}

func TestMeta_NoMetadata(t *testing.T) {
	src := writeFixture(t, "bare.jpg", buildJPEG())
	p, err := New(src)
	require.NoError(t, err)

	meta, err := p.Meta()
	require.NoError(t, err)
	assert.NotNil(t, meta)
	assert.Empty(t, meta)
}

func TestRemoveAll_Thorough(t *testing.T) {
	src := writeFixture(t, "dirty.jpg", dirtyJPEG())
	p, err := New(src)
	require.NoError(t, err)
	require.NoError(t, p.RemoveAll())

	out, err := os.ReadFile(p.OutputFilename())
	require.NoError(t, err)

	// Every application segment except JFIF is gone, including the
	// unknown APP5 one; the scan data is intact.
	assert.False(t, bytes.Contains(out, []byte("Created with GIMP")))
	assert.False(t, bytes.Contains(out, []byte("OLYMPUS")))
	assert.False(t, bytes.Contains(out, []byte("secret tracker v1")))
	assert.True(t, bytes.Contains(out, []byte("JFIF")))
	assert.True(t, bytes.Contains(out, []byte{0x12, 0x34, 0x56}))
	assert.True(t, bytes.HasSuffix(out, []byte{0xFF, 0xD9}))

	cleanedSrc, err := types.NewSource(p.OutputFilename())
	require.NoError(t, err)
	cleaned, err := New(cleanedSrc)
	require.NoError(t, err)
	meta, err := cleaned.Meta()
	require.NoError(t, err)
	assert.Empty(t, meta)
}

func TestRemoveAll_Lightweight(t *testing.T) {
	src := writeFixture(t, "dirty.jpg", dirtyJPEG())
	p, err := New(src)
	require.NoError(t, err)
	p.SetLightweight(true)
	require.NoError(t, p.RemoveAll())

	out, err := os.ReadFile(p.OutputFilename())
	require.NoError(t, err)

	// Recognized metadata removed, unknown APP5 preserved.
	assert.False(t, bytes.Contains(out, []byte("Created with GIMP")))
	assert.False(t, bytes.Contains(out, []byte("OLYMPUS")))
	assert.True(t, bytes.Contains(out, []byte("secret tracker v1")))

	cleanedSrc, err := types.NewSource(p.OutputFilename())
	require.NoError(t, err)
	cleaned, err := New(cleanedSrc)
	require.NoError(t, err)
	meta, err := cleaned.Meta()
	require.NoError(t, err)
	assert.Empty(t, meta)
}

func TestRemoveAll_SourceUntouched(t *testing.T) {
	data := dirtyJPEG()
	src := writeFixture(t, "dirty.jpg", data)
	p, err := New(src)
	require.NoError(t, err)
	require.NoError(t, p.RemoveAll())

	after, err := os.ReadFile(src.Filename())
	require.NoError(t, err)
	assert.Equal(t, data, after)
}

func TestParseExifIFD0_Malformed(t *testing.T) {
	// Extraction must not fail on garbage EXIF, just yield nothing.
	assert.Nil(t, parseExifIFD0([]byte("XX")))
	assert.Nil(t, parseExifIFD0([]byte("II\x00\x00\x00\x00\x00\x00")))
	assert.Empty(t, parseExifIFD0([]byte("II\x2A\x00\xFF\xFF\xFF\xFF")))
}
