package opj

import (
	"errors"
	"fmt"
)

// OPJError represents an error that prevents a project file from being read at all.
type OPJError struct {
	Message string
}

func (e *OPJError) Error() string {
	return e.Message
}

// NewOPJError creates a new OPJError with the given message.
func NewOPJError(format string, args ...interface{}) *OPJError {
	return &OPJError{Message: fmt.Sprintf(format, args...)}
}

var (
	// ErrTruncated is returned by positioned reads that run past the end of the input.
	ErrTruncated = errors.New("truncated input")

	// ErrNotProject is returned by Load when the content is not a project file,
	// even after decompression.
	ErrNotProject = errors.New("not an origin project file")
)

// SectionError reports a failure inside one window or record so that the
// diagnostic can name the entity that was being decoded.
type SectionError struct {
	Entity string
	Offset int
	Err    error
}

func (e *SectionError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("at 0x%X: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s at 0x%X: %v", e.Entity, e.Offset, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

func truncatedAt(off, n int) error {
	return fmt.Errorf("read of %d bytes at 0x%X: %w", n, off, ErrTruncated)
}
