package torrent

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/bencode"

	"github.com/simonhull/metaclean/internal/types"
)

func buildTorrent(t *testing.T, extra map[string]any) []byte {
	t.Helper()
	dict := map[string]any{
		"announce": "http://tracker.example.com/announce",
		"info": map[string]any{
			"name":         "file.bin",
			"length":       int64(4),
			"piece length": int64(16384),
			"pieces":       "aaaaaaaaaaaaaaaaaaaa",
		},
	}
	for k, v := range extra {
		dict[k] = v
	}
	data, err := bencode.EncodeBytes(dict)
	require.NoError(t, err)
	return data
}

func dirtyTorrent(t *testing.T) []byte {
	t.Helper()
	return buildTorrent(t, map[string]any{
		"created by":    "mktorrent 1.0",
		"creation date": int64(1521500000),
		"comment":       "I am a comment",
		"x-cross-seed":  "private tag",
	})
}

func writeFixture(t *testing.T, name string, data []byte) *types.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	src, err := types.NewSource(path)
	require.NoError(t, err)
	return src
}

func TestNew_RejectsNonBencode(t *testing.T) {
	src := writeFixture(t, "fake.torrent", []byte("\x89PNG\r\n\x1a\n"))
	_, err := New(src)
	var invalid *types.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestMeta(t *testing.T) {
	src := writeFixture(t, "dirty.torrent", dirtyTorrent(t))
	p, err := New(src)
	require.NoError(t, err)

	meta, err := p.Meta()
	require.NoError(t, err)

	assert.Equal(t, "mktorrent 1.0", meta["created by"])
	assert.Equal(t, "1521500000", meta["creation date"])
	assert.Equal(t, "I am a comment", meta["comment"])
	assert.Equal(t, "private tag", meta["x-cross-seed"])

	// Structural keys are not metadata.
	assert.NotContains(t, meta, "announce")
	assert.NotContains(t, meta, "info")
}

func TestMeta_NoMetadata(t *testing.T) {
	src := writeFixture(t, "bare.torrent", buildTorrent(t, nil))
	p, err := New(src)
	require.NoError(t, err)

	meta, err := p.Meta()
	require.NoError(t, err)
	assert.NotNil(t, meta)
	assert.Empty(t, meta)
}

func TestRemoveAll_Thorough(t *testing.T) {
	src := writeFixture(t, "dirty.torrent", dirtyTorrent(t))
	p, err := New(src)
	require.NoError(t, err)
	require.NoError(t, p.RemoveAll())

	out, err := os.ReadFile(p.OutputFilename())
	require.NoError(t, err)

	var cleaned map[string]any
	require.NoError(t, bencode.DecodeBytes(out, &cleaned))
	assert.Contains(t, cleaned, "announce")
	assert.Contains(t, cleaned, "info")
	assert.NotContains(t, cleaned, "created by")
	assert.NotContains(t, cleaned, "x-cross-seed")
}

func TestRemoveAll_Lightweight(t *testing.T) {
	src := writeFixture(t, "dirty.torrent", dirtyTorrent(t))
	p, err := New(src)
	require.NoError(t, err)
	p.SetLightweight(true)
	require.NoError(t, p.RemoveAll())

	out, err := os.ReadFile(p.OutputFilename())
	require.NoError(t, err)

	var cleaned map[string]any
	require.NoError(t, bencode.DecodeBytes(out, &cleaned))
	// Known keys removed, the unknown one survives.
	assert.NotContains(t, cleaned, "created by")
	assert.NotContains(t, cleaned, "creation date")
	assert.NotContains(t, cleaned, "comment")
	assert.Contains(t, cleaned, "x-cross-seed")
	assert.Contains(t, cleaned, "announce")
	assert.Contains(t, cleaned, "info")
}

func TestRemoveAll_SourceUntouched(t *testing.T) {
	data := dirtyTorrent(t)
	src := writeFixture(t, "dirty.torrent", data)
	p, err := New(src)
	require.NoError(t, err)
	require.NoError(t, p.RemoveAll())

	after, err := os.ReadFile(src.Filename())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, after))
}

func TestRemoveAll_PreservesInfoDict(t *testing.T) {
	src := writeFixture(t, "dirty.torrent", dirtyTorrent(t))
	p, err := New(src)
	require.NoError(t, err)
	require.NoError(t, p.RemoveAll())

	out, err := os.ReadFile(p.OutputFilename())
	require.NoError(t, err)

	var cleaned struct {
		Info struct {
			Name        string `bencode:"name"`
			Length      int64  `bencode:"length"`
			PieceLength int64  `bencode:"piece length"`
		} `bencode:"info"`
	}
	require.NoError(t, bencode.DecodeBytes(out, &cleaned))
	assert.Equal(t, "file.bin", cleaned.Info.Name)
	assert.Equal(t, int64(4), cleaned.Info.Length)
	assert.Equal(t, int64(16384), cleaned.Info.PieceLength)
}
