package opj

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DiagnosticKind classifies a problem found while decoding.
type DiagnosticKind int

const (
	// UnknownVersion: the header version code is not in the version table.
	UnknownVersion DiagnosticKind = iota + 1
	// TruncatedInput: a read ran past the end of the input.
	TruncatedInput
	// UnresolvedReference: a data or object index did not name any entity.
	UnresolvedReference
	// StructuralLimitExceeded: a bounded search or loop gave up.
	StructuralLimitExceeded
	// ClampApplied: a declared size was replaced by a clamp policy value.
	ClampApplied
	// UnknownRecord: a record signature or storage type was not recognised
	// and the record was skipped.
	UnknownRecord
)

var diagnosticKindNames = map[DiagnosticKind]string{
	UnknownVersion:          "UnknownVersion",
	TruncatedInput:          "TruncatedInput",
	UnresolvedReference:     "UnresolvedReference",
	StructuralLimitExceeded: "StructuralLimitExceeded",
	ClampApplied:            "ClampApplied",
	UnknownRecord:           "UnknownRecord",
}

func (k DiagnosticKind) String() string {
	if s, ok := diagnosticKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Severity of a diagnostic. Warnings never change the ParseStatus.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

func (k DiagnosticKind) severity() Severity {
	switch k {
	case TruncatedInput, UnresolvedReference, StructuralLimitExceeded:
		return SeverityError
	}
	return SeverityWarning
}

// Diagnostic is one problem found while decoding. Offset is the input
// position the decoder was at, Entity the window, column or record name
// when one is known.
type Diagnostic struct {
	Kind     DiagnosticKind
	Severity Severity
	Offset   int
	Entity   string
	Message  string
}

func (d Diagnostic) String() string {
	if d.Entity != "" {
		return fmt.Sprintf("%s: %s at 0x%X (%s): %s", d.Severity, d.Kind, d.Offset, d.Entity, d.Message)
	}
	return fmt.Sprintf("%s: %s at 0x%X: %s", d.Severity, d.Kind, d.Offset, d.Message)
}

// ParseStatus is the overall outcome of a decode.
type ParseStatus int

const (
	StatusSuccess ParseStatus = iota
	StatusPartial
	StatusFatal
)

func (s ParseStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	case StatusFatal:
		return "fatal"
	}
	return fmt.Sprintf("ParseStatus(%d)", int(s))
}

func (d *decoder) report(kind DiagnosticKind, offset int, entity string, format string, args ...interface{}) {
	diag := Diagnostic{
		Kind:     kind,
		Severity: kind.severity(),
		Offset:   offset,
		Entity:   entity,
		Message:  fmt.Sprintf(format, args...),
	}
	d.diags = append(d.diags, diag)

	level := slog.LevelWarn
	if diag.Severity == SeverityError {
		level = slog.LevelError
	}
	d.logger.LogAttrs(context.Background(), level, diag.Message,
		slog.String("kind", kind.String()),
		slog.Int("offset", offset),
		slog.String("entity", entity),
	)
	if d.verbosity > 0 {
		fmt.Fprintf(d.logfile, "*** %s\n", diag)
	}
}

// reportErr turns a read failure into a diagnostic. Truncation becomes
// TruncatedInput, everything else StructuralLimitExceeded.
func (d *decoder) reportErr(err error, entity string) {
	offset := 0
	var se *SectionError
	if errors.As(err, &se) {
		offset = se.Offset
		if entity == "" {
			entity = se.Entity
		}
	}
	kind := StructuralLimitExceeded
	if errors.Is(err, ErrTruncated) {
		kind = TruncatedInput
	}
	d.report(kind, offset, entity, "%v", err)
}

func (d *decoder) status() ParseStatus {
	if d.fatal {
		return StatusFatal
	}
	for _, diag := range d.diags {
		if diag.Severity == SeverityError {
			return StatusPartial
		}
	}
	return StatusSuccess
}
