// Package binary provides bounds-checked reading primitives for
// walking binary file structures.
package binary

import (
	"encoding/binary"

	"github.com/simonhull/metaclean/internal/types"
)

// Cursor walks a byte slice with bounds checking and helpful error
// messages. Every read names what was being read so corrupt-file
// errors point at the failing structure, not just an offset.
type Cursor struct {
	data   []byte
	path   string
	offset int64
}

// NewCursor creates a Cursor over data, reporting path in errors.
func NewCursor(data []byte, path string) *Cursor {
	return &Cursor{data: data, path: path}
}

// Offset returns the current read position.
func (c *Cursor) Offset() int64 {
	return c.offset
}

// Seek moves the read position to an absolute offset.
func (c *Cursor) Seek(offset int64) {
	c.offset = offset
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int64 {
	return int64(len(c.data)) - c.offset
}

// Bytes reads n bytes and advances the cursor. The returned slice
// aliases the underlying data and must not be modified.
func (c *Cursor) Bytes(n int, what string) ([]byte, error) {
	if n < 0 || c.offset+int64(n) > int64(len(c.data)) {
		return nil, &types.OutOfBoundsError{
			Path:   c.path,
			What:   what,
			Offset: c.offset,
			Length: n,
			Size:   int64(len(c.data)),
		}
	}
	b := c.data[c.offset : c.offset+int64(n)]
	c.offset += int64(n)
	return b, nil
}

// Skip advances the cursor by n bytes, bounds-checked.
func (c *Cursor) Skip(n int64, what string) error {
	if n < 0 || c.offset+n > int64(len(c.data)) {
		return &types.OutOfBoundsError{
			Path:   c.path,
			What:   what,
			Offset: c.offset,
			Length: int(n),
			Size:   int64(len(c.data)),
		}
	}
	c.offset += n
	return nil
}

// U8 reads one byte and advances the cursor.
func (c *Cursor) U8(what string) (uint8, error) {
	b, err := c.Bytes(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a big-endian uint16 and advances the cursor.
func (c *Cursor) U16(what string) (uint16, error) {
	b, err := c.Bytes(2, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// U32 reads a big-endian uint32 and advances the cursor.
func (c *Cursor) U32(what string) (uint32, error) {
	b, err := c.Bytes(4, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
