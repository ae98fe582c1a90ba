package opj

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// Project files carry no codepage information. Names, labels and text
// cells are single-byte strings in the writer's ANSI codepage, which is
// Windows-1252 for the overwhelming majority of files.
var defaultEncoding encoding.Encoding = charmap.Windows1252

// lookupEncoding resolves an encoding name such as "windows-1251" or
// "latin1". An empty name selects the default.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return defaultEncoding, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, NewOPJError("unknown encoding %q: %v", name, err)
	}
	return enc, nil
}

// text converts raw single-byte text to UTF-8.
func (d *decoder) text(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	out, err := d.enc.Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// cname decodes a NUL-terminated fixed-width field.
func (d *decoder) cname(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return d.text(raw)
}

// cellText decodes a text cell. Everything from the first NUL is dropped,
// and so is everything from the first 0x0E byte, which marks an unused
// cell whose buffer still holds stale bytes.
func (d *decoder) cellText(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if i := bytes.IndexByte(raw, garbageMarker); i >= 0 {
		raw = raw[:i]
	}
	return d.text(raw)
}

// splitColumnName splits a primary record name "Sheet_Column" into the
// owning sheet and the column name. Empty fragments are dropped and all
// fragments but the last form the sheet name. ok is false when there is no
// column part, which marks a matrix or function record.
func splitColumnName(name string) (sheet, column string, ok bool) {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	switch len(parts) {
	case 0:
		return "", "", false
	case 1:
		return parts[0], "", false
	}
	return strings.Join(parts[:len(parts)-1], "_"), parts[len(parts)-1], true
}

// prefixMatch compares names the way column records store them: only the
// first 11 bytes are significant.
func prefixMatch(a, b string) bool {
	return truncateName(a) == truncateName(b)
}

func truncateName(s string) string {
	if len(s) > namePrefixLen {
		return s[:namePrefixLen]
	}
	return s
}
