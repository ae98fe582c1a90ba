package opj

import (
	"bytes"
	"encoding/binary"
	"math"
)

// cursor is a sequential little-endian reader over the whole input. All
// multi-byte values in a project file are little-endian regardless of the
// host, so reads go through binary.LittleEndian directly.
type cursor struct {
	data     []byte
	position int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) pos() int {
	return c.position
}

func (c *cursor) remaining() int {
	if c.position >= len(c.data) {
		return 0
	}
	return len(c.data) - c.position
}

// seek moves to an absolute offset. Seeking to the end is allowed, past it is not.
func (c *cursor) seek(off int) error {
	if off < 0 || off > len(c.data) {
		return truncatedAt(off, 0)
	}
	c.position = off
	return nil
}

func (c *cursor) skip(n int) error {
	return c.seek(c.position + n)
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.position < 0 || c.position+n > len(c.data) {
		return nil, truncatedAt(c.position, n)
	}
	b := c.data[c.position : c.position+n]
	c.position += n
	return b, nil
}

func (c *cursor) u8() (byte, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) i32() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (c *cursor) f64() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	return c.take(n)
}

// size reads a 4-byte block size followed by its newline.
func (c *cursor) size() (int, error) {
	n, err := c.i32()
	if err != nil {
		return 0, err
	}
	if err := c.skip(1); err != nil {
		return 0, err
	}
	return int(n), nil
}

// scanTo advances just past the next occurrence of delim, looking at no
// more than limit bytes.
func (c *cursor) scanTo(delim byte, limit int) bool {
	end := c.position + limit
	if end > len(c.data) {
		end = len(c.data)
	}
	if c.position >= end {
		return false
	}
	i := bytes.IndexByte(c.data[c.position:end], delim)
	if i < 0 {
		return false
	}
	c.position += i + 1
	return true
}

// at returns a fixed-offset view anchored at base.
func (c *cursor) at(base int) *block {
	return &block{data: c.data, base: base}
}

// block reads fields at fixed offsets from base. The first out-of-range
// read is remembered in err and later reads return zero values, so a
// record decoder can read every field and check err once.
type block struct {
	data []byte
	base int
	err  error
}

func (b *block) field(off, n int) []byte {
	if b.err != nil {
		return nil
	}
	start := b.base + off
	if start < 0 || n < 0 || start+n > len(b.data) {
		if b.err == nil {
			b.err = truncatedAt(start, n)
		}
		return nil
	}
	return b.data[start : start+n]
}

func (b *block) u8(off int) byte {
	if p := b.field(off, 1); p != nil {
		return p[0]
	}
	return 0
}

func (b *block) i16(off int) int16 {
	return int16(b.u16(off))
}

func (b *block) u16(off int) uint16 {
	if p := b.field(off, 2); p != nil {
		return binary.LittleEndian.Uint16(p)
	}
	return 0
}

func (b *block) i32(off int) int32 {
	return int32(b.u32(off))
}

func (b *block) u32(off int) uint32 {
	if p := b.field(off, 4); p != nil {
		return binary.LittleEndian.Uint32(p)
	}
	return 0
}

func (b *block) f32(off int) float32 {
	return math.Float32frombits(b.u32(off))
}

func (b *block) f64(off int) float64 {
	if p := b.field(off, 8); p != nil {
		return math.Float64frombits(binary.LittleEndian.Uint64(p))
	}
	return 0
}

func (b *block) raw(off, n int) []byte {
	return b.field(off, n)
}

// cstring returns the bytes of a fixed-width field up to the first NUL.
func (b *block) cstring(off, n int) []byte {
	p := b.field(off, n)
	if i := bytes.IndexByte(p, 0); i >= 0 {
		return p[:i]
	}
	return p
}
