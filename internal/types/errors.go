package types

import "fmt"

// InvalidInputError is returned when a path cannot be turned into a
// usable source/output filename pair, or when a variant rejects the
// file at construction time (wrong magic bytes, unparsable structure).
type InvalidInputError struct {
	Path   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Path, e.Reason)
}

// UnsupportedFormatError is returned when no variant handles the
// detected content type of a file.
type UnsupportedFormatError struct {
	Path     string
	Mimetype string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Mimetype)
}

// CleaningError is returned when a cleaning pass cannot complete.
// The source file is guaranteed untouched when this error is returned.
type CleaningError struct {
	Path   string
	Reason string
	Err    error
}

func (e *CleaningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: cleaning failed: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: cleaning failed: %s", e.Path, e.Reason)
}

func (e *CleaningError) Unwrap() error {
	return e.Err
}

// SwapError is returned by Finalize when the in-place swap could not
// be completed. The original file is guaranteed unmodified; the
// temporary output has been removed on a best-effort basis.
type SwapError struct {
	// Path of the original file that was NOT cleaned.
	Path string
	// Temp is the temporary output that failed to move onto Path.
	Temp string
	// Err is the error from the move itself.
	Err error
	// TempRemoved reports whether the temporary file was cleaned up.
	TempRemoved bool
	// CleanupErr is set when removing the temporary file also failed.
	CleanupErr error
}

func (e *SwapError) Error() string {
	msg := fmt.Sprintf("%s was not cleaned: %v", e.Path, e.Err)
	if e.CleanupErr != nil {
		msg += fmt.Sprintf(" (could not remove temporary file %s: %v)", e.Temp, e.CleanupErr)
	}
	return msg
}

func (e *SwapError) Unwrap() error {
	return e.Err
}

// OutOfBoundsError is returned when a variant attempts to read beyond
// the end of the file's content.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}
