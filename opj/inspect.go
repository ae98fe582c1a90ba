package opj

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// FileFormatDescriptions provides descriptions of the file types that can be inspected.
var FileFormatDescriptions = map[string]string{
	"opj":  "Origin project file",
	"gzip": "gzip-compressed file",
	"zstd": "Zstandard-compressed file",
	"":     "Unknown file type",
}

// OPJ_SIGNATURE is the magic cookie that starts every project file header.
var OPJ_SIGNATURE = []byte("CPYA")

// GZIP_SIGNATURE is the magic cookie for gzip streams.
var GZIP_SIGNATURE = []byte{0x1F, 0x8B}

// ZSTD_SIGNATURE is the magic cookie for Zstandard frames.
var ZSTD_SIGNATURE = []byte{0x28, 0xB5, 0x2F, 0xFD}

// PEEK_SIZE is the maximum size needed to peek at file signatures.
const PEEK_SIZE = 4

// InspectFormat inspects the content at the supplied path or the bytes content provided
// and returns the file's type as a string, or empty string if it cannot be determined.
// The return value can always be looked up in FileFormatDescriptions.
func InspectFormat(path string, content []byte) (string, error) {
	peek := content
	if content == nil {
		expandedPath := path
		if strings.HasPrefix(path, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			expandedPath = home + path[1:]
		}
		f, err := os.Open(expandedPath)
		if err != nil {
			return "", err
		}
		defer f.Close()
		buf := make([]byte, PEEK_SIZE)
		n, err := io.ReadFull(f, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return "", err
		}
		peek = buf[:n]
	}
	switch {
	case bytes.HasPrefix(peek, OPJ_SIGNATURE):
		return "opj", nil
	case bytes.HasPrefix(peek, GZIP_SIGNATURE):
		return "gzip", nil
	case bytes.HasPrefix(peek, ZSTD_SIGNATURE):
		return "zstd", nil
	}
	return "", nil
}

// Load reads the project at path. Projects are often archived compressed,
// so gzip and Zstandard content is decompressed transparently.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, NewOPJError("File size is 0 bytes")
	}
	return Unwrap(data)
}

// Unwrap decompresses content if it is compressed and checks that the
// result is a project file.
func Unwrap(data []byte) ([]byte, error) {
	format, _ := InspectFormat("", data)
	switch format {
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
	case "zstd":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
	}
	if format, _ = InspectFormat("", data); format != "opj" {
		return nil, fmt.Errorf("%w: %s", ErrNotProject, FileFormatDescriptions[format])
	}
	return data, nil
}
