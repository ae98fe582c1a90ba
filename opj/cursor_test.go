package opj

import (
	"errors"
	"testing"
)

func TestCursorReads(t *testing.T) {
	data := []byte{0x2A, 0, 0, 0, '\n', 'a', 'b', '\n', 'c'}
	c := newCursor(data)
	n, err := c.size()
	if err != nil || n == 0 || n != 42 {
		t.Fatalf("size() = %d, %v", n, err)
	}
	if !c.scanTo('\n', 10) {
		t.Fatal("scanTo should find the newline")
	}
	if c.pos() != 8 {
		t.Errorf("pos() = %d, expected 8", c.pos())
	}
	if c.scanTo('\n', 10) {
		t.Error("scanTo should not find a second newline")
	}
	if _, err := c.i32(); !errors.Is(err, ErrTruncated) {
		t.Errorf("i32 past the end: %v, expected ErrTruncated", err)
	}
	if err := c.seek(len(data)); err != nil {
		t.Errorf("seek to end: %v", err)
	}
	if err := c.seek(len(data) + 1); !errors.Is(err, ErrTruncated) {
		t.Errorf("seek past end: %v", err)
	}
}

func TestBlockStickyError(t *testing.T) {
	b := (&cursor{data: []byte{1, 2, 3, 4}}).at(2)
	if b.u16(0) != 0x0403 {
		t.Errorf("u16 = 0x%X", b.u16(0))
	}
	if b.i32(0) != 0 || b.err == nil {
		t.Fatal("i32 past the end should fail")
	}
	if b.u8(0) != 0 {
		t.Error("reads after an error return zero")
	}
	if !errors.Is(b.err, ErrTruncated) {
		t.Errorf("err = %v", b.err)
	}
}

func TestBlockCString(t *testing.T) {
	b := (&cursor{data: []byte("abc\x00def")}).at(0)
	if s := string(b.cstring(0, 7)); s != "abc" {
		t.Errorf("cstring = %q", s)
	}
	if s := string(b.cstring(4, 3)); s != "def" {
		t.Errorf("cstring = %q", s)
	}
}
