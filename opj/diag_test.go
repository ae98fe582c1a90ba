package opj

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDiagnosticSeverity(t *testing.T) {
	tests := []struct {
		kind     DiagnosticKind
		severity Severity
	}{
		{UnknownVersion, SeverityWarning},
		{TruncatedInput, SeverityError},
		{UnresolvedReference, SeverityError},
		{StructuralLimitExceeded, SeverityError},
		{ClampApplied, SeverityWarning},
		{UnknownRecord, SeverityWarning},
	}
	for _, test := range tests {
		if got := test.kind.severity(); got != test.severity {
			t.Errorf("%v.severity() = %v, expected %v", test.kind, got, test.severity)
		}
	}
	if got := DiagnosticKind(99).String(); got != "DiagnosticKind(99)" {
		t.Errorf("String() = %s", got)
	}
}

func TestStatusFromDiagnostics(t *testing.T) {
	d := newDecoder(nil, &Options{})
	if d.status() != StatusSuccess {
		t.Fatal("no diagnostics is success")
	}
	d.report(ClampApplied, 0, "", "clamped")
	d.report(UnknownVersion, 0, "", "odd version")
	if d.status() != StatusSuccess {
		t.Error("warnings keep success")
	}
	d.report(UnresolvedReference, 4, "Graph1", "missing")
	if d.status() != StatusPartial {
		t.Error("an error makes the decode partial")
	}
	d.fatal = true
	if d.status() != StatusFatal {
		t.Error("fatal wins")
	}
}

func TestReportErr(t *testing.T) {
	d := newDecoder(nil, &Options{})
	d.reportErr(&SectionError{Entity: "Data1", Offset: 0x40, Err: truncatedAt(0x40, 8)}, "")
	d.reportErr(&SectionError{Entity: "Graph1", Offset: 0x80, Err: fmt.Errorf("more than %d layers", maxLayers)}, "")

	if len(d.diags) != 2 {
		t.Fatalf("%d diagnostics", len(d.diags))
	}
	first, second := d.diags[0], d.diags[1]
	if first.Kind != TruncatedInput || first.Offset != 0x40 || first.Entity != "Data1" {
		t.Errorf("first = %+v", first)
	}
	if second.Kind != StructuralLimitExceeded || second.Entity != "Graph1" {
		t.Errorf("second = %+v", second)
	}
	if s := first.String(); !strings.HasPrefix(s, "error: TruncatedInput at 0x40 (Data1): ") {
		t.Errorf("String() = %q", s)
	}
}

func TestSectionErrorUnwrap(t *testing.T) {
	err := error(&SectionError{Entity: "x", Offset: 1, Err: truncatedAt(1, 2)})
	if !errors.Is(err, ErrTruncated) {
		t.Error("SectionError should unwrap to ErrTruncated")
	}
}
