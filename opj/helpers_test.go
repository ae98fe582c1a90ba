package opj

import (
	"testing"

	"github.com/yamitzky/opj-go/opj/opjtest"
)

// decode decodes data with quiet options.
func decode(t *testing.T, data []byte) (*Document, ParseStatus) {
	t.Helper()
	return Decode(data, &Options{})
}

func countDiags(doc *Document, kind DiagnosticKind) int {
	n := 0
	for _, d := range doc.Diagnostics() {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func expectStatus(t *testing.T, doc *Document, got, want ParseStatus) {
	t.Helper()
	if got != want {
		for _, d := range doc.Diagnostics() {
			t.Log(d)
		}
		t.Fatalf("status = %v, expected %v", got, want)
	}
}

// sampleProject builds a 7.5 project with one spreadsheet of two columns.
func sampleProject() *opjtest.Builder {
	return opjtest.New("2766").
		NumericColumn("Data1", "A", 1, 2, 3).
		NumericColumn("Data1", "B", 10, 20, 30).
		SpreadsheetWindow(opjtest.Window{Name: "Data1"},
			opjtest.ColumnFormat{Name: "A", Type: opjtest.TypeX},
			opjtest.ColumnFormat{Name: "B", Type: opjtest.TypeY},
		)
}
