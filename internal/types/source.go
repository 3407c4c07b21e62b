package types

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source is the per-file state shared by every format variant: the
// sanitized source filename, the derived output filename, the cleaning
// mode, and the in-place editing lifecycle.
//
// Variants embed a *Source and add their format-specific Meta and
// RemoveAll on top. A Source is single-use: it cleans one file once,
// and if in-place editing was requested, Finalize must be called
// exactly once before the instance is released (a second call is a
// no-op).
type Source struct {
	filename       string
	outputFilename string
	lightweight    bool
	inPlace        bool
	cleaned        bool
	finalized      bool
}

// NewSource validates and sanitizes a caller-supplied path and derives
// the default output filename.
//
// If the path's first character is not a lowercase ASCII letter, a
// digit, '.' or '/', the path is rewritten as explicitly relative
// ("./" + path). Some variants hand the filename to external tools;
// forcing a benign leading character prevents the path from being
// interpreted as a flag or option.
//
// The default output filename is stem + ".cleaned" + ext, keeping the
// extension verbatim so downstream tools that dispatch on it still
// work. A dotfile has no extension: ".hidden" becomes ".hidden.cleaned",
// not ".cleaned.hidden".
func NewSource(filename string) (*Source, error) {
	if filename == "" {
		return nil, &InvalidInputError{Reason: "empty filename"}
	}

	if !safeLeadingByte(filename[0]) {
		filename = "./" + filename
	}

	ext := splitExt(filename)
	stem := strings.TrimSuffix(filename, ext)

	return &Source{
		filename:       filename,
		outputFilename: stem + ".cleaned" + ext,
	}, nil
}

// safeLeadingByte reports whether c is in [a-z0-9./].
func safeLeadingByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '.' || c == '/'
}

// splitExt returns the extension of the path's final element. Leading
// dots belong to the name, not the extension: ".hidden" and "..dots"
// have none, ".config.toml" has ".toml".
func splitExt(filename string) string {
	base := strings.TrimLeft(filepath.Base(filename), ".")
	return filepath.Ext(base)
}

// Filename returns the sanitized source path.
func (s *Source) Filename() string {
	return s.filename
}

// OutputFilename returns the path the cleaned result is written to.
// In in-place mode this is a private temporary file until Finalize
// swaps it over the source.
func (s *Source) OutputFilename() string {
	return s.outputFilename
}

// SetLightweight selects the cleaning strategy for RemoveAll.
//
// Lightweight cleaning removes only the metadata fields the variant
// explicitly recognizes, preserving the rest of the file structure
// byte-for-byte where possible. The default (thorough) mode also
// eliminates format-level carriers the variant cannot enumerate,
// which may require reconstructing parts of the file.
func (s *Source) SetLightweight(lightweight bool) {
	s.lightweight = lightweight
}

// Lightweight reports the currently selected cleaning strategy.
func (s *Source) Lightweight() bool {
	return s.lightweight
}

// InPlace reports whether in-place editing has been requested.
func (s *Source) InPlace() bool {
	return s.inPlace
}

// EditInPlace switches the instance into in-place mode: the cleaning
// pass writes to a freshly allocated temporary file, and Finalize
// later swaps it over the source.
//
// The temporary file is created in the source file's directory so the
// final rename does not cross filesystems, and it carries the source
// extension because some variants and downstream tools dispatch on it.
//
// Calling EditInPlace again is a no-op. Calling it after a clean pass
// already wrote the output is an error.
func (s *Source) EditInPlace() error {
	if s.inPlace {
		return nil
	}
	if s.cleaned {
		return &CleaningError{
			Path:   s.filename,
			Reason: "output already written, cannot switch to in-place editing",
		}
	}

	ext := splitExt(s.filename)
	tmp, err := os.CreateTemp(filepath.Dir(s.filename), ".metaclean-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	s.outputFilename = tmp.Name()
	s.inPlace = true
	return nil
}

// WriteOutput produces the cleaned output file. It is the one way
// variants are expected to write their result.
//
// The write goes to a scratch file in the output directory first, is
// synced, and is then renamed onto OutputFilename, so a failing write
// never leaves a partial output and never touches the source file.
//
// A Source cleans its file at most once: a second call after a
// successful write returns a CleaningError.
func (s *Source) WriteOutput(write func(w io.Writer) error) error {
	if s.cleaned {
		return &CleaningError{Path: s.filename, Reason: "already cleaned"}
	}

	dir := filepath.Dir(s.outputFilename)
	tmp, err := os.CreateTemp(dir, ".metaclean-write-*.tmp")
	if err != nil {
		return &CleaningError{Path: s.filename, Reason: "create output", Err: err}
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return &CleaningError{Path: s.filename, Reason: "write output", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &CleaningError{Path: s.filename, Reason: "sync output", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &CleaningError{Path: s.filename, Reason: "close output", Err: err}
	}
	if err := os.Rename(tmpPath, s.outputFilename); err != nil {
		return &CleaningError{Path: s.filename, Reason: "rename output", Err: err}
	}

	success = true
	s.cleaned = true
	return nil
}

// Finalize ends the instance's lifecycle. It must be called exactly
// once for instances that entered in-place mode; calling it again, or
// on a non-in-place instance, is a no-op.
//
// In in-place mode Finalize moves the temporary output over the
// source file. If the move fails for any reason the source is left
// unmodified, the temporary file is removed on a best-effort basis,
// and a *SwapError describes both outcomes. If the clean pass never
// completed, the placeholder temporary file is removed and no swap is
// attempted.
func (s *Source) Finalize() error {
	if s.finalized {
		return nil
	}
	s.finalized = true

	if !s.inPlace {
		return nil
	}

	if !s.cleaned {
		// Nothing worth swapping; drop the empty placeholder so it
		// doesn't linger next to the source.
		_ = os.Remove(s.outputFilename)
		return nil
	}

	if err := os.Rename(s.outputFilename, s.filename); err != nil {
		swapErr := &SwapError{
			Path: s.filename,
			Temp: s.outputFilename,
			Err:  err,
		}
		if rmErr := os.Remove(s.outputFilename); rmErr != nil {
			swapErr.CleanupErr = rmErr
		} else {
			swapErr.TempRemoved = true
		}
		return swapErr
	}

	return nil
}

// ReadSource reads the entire source file. Variants use it for both
// extraction and cleaning; it never modifies the file.
func (s *Source) ReadSource() ([]byte, error) {
	data, err := os.ReadFile(s.filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.filename, err)
	}
	return data, nil
}

// Parser is the contract every format variant implements.
//
// Meta must not mutate the source file and must return an empty (not
// nil-checked) Metadata for a file without recognized metadata.
// RemoveAll writes exactly one file, at OutputFilename, and leaves the
// source untouched on every code path including failure.
type Parser interface {
	// Meta extracts the file's metadata.
	Meta() (Metadata, error)
	// RemoveAll writes a cleaned version of the file to OutputFilename.
	RemoveAll() error

	Filename() string
	OutputFilename() string
	SetLightweight(bool)
	Lightweight() bool
	EditInPlace() error
	InPlace() bool
	Finalize() error
}
