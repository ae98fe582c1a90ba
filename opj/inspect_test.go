package opj

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func TestInspectFormat(t *testing.T) {
	project := sampleProject().Bytes()
	tests := []struct {
		content  []byte
		expected string
	}{
		{project, "opj"},
		{gzipped(t, project), "gzip"},
		{zstded(t, project), "zstd"},
		{[]byte("PK\x03\x04"), ""},
		{[]byte{}, ""},
	}
	for _, test := range tests {
		got, err := InspectFormat("", test.content)
		if err != nil {
			t.Errorf("InspectFormat: %v", err)
		}
		if got != test.expected {
			t.Errorf("InspectFormat(% X) = %q, expected %q", test.content[:min(4, len(test.content))], got, test.expected)
		}
		if _, ok := FileFormatDescriptions[got]; !ok {
			t.Errorf("no description for %q", got)
		}
	}
}

func TestInspectFormatPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.opj")
	if err := os.WriteFile(path, []byte("CP"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := InspectFormat(path, nil); err != nil || got != "" {
		t.Errorf("InspectFormat(short file) = %q, %v", got, err)
	}
	if _, err := InspectFormat(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("InspectFormat of a missing file should fail")
	}
}

func TestUnwrap(t *testing.T) {
	project := sampleProject().Bytes()
	for _, content := range [][]byte{project, gzipped(t, project), zstded(t, project)} {
		got, err := Unwrap(content)
		if err != nil {
			t.Errorf("Unwrap: %v", err)
			continue
		}
		if !bytes.Equal(got, project) {
			t.Error("Unwrap returned different bytes")
		}
	}

	if _, err := Unwrap(gzipped(t, []byte("plain text"))); !errors.Is(err, ErrNotProject) {
		t.Errorf("Unwrap(gzipped text) error = %v", err)
	}
	if _, err := Unwrap([]byte{0x1F, 0x8B, 0, 0}); err == nil {
		t.Error("Unwrap of a broken gzip stream should fail")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.opj")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var oe *OPJError
	if !errors.As(err, &oe) {
		t.Errorf("Load(empty) error = %v", err)
	}
}
