package opj

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yamitzky/opj-go/opj/opjtest"
)

func dumpProject() []byte {
	return opjtest.New("2766").
		NumericColumn("Data1", "A", 1, 2).
		NumericColumn("Data1", "B", 3).
		MatrixData("MBook1", opjtest.MatrixInt16, false, 1).
		Function("Func1", "cos(x)", false, 5, 0, 1).
		Record(opjtest.Record{Name: "Odd", Signature: 0x4242, ValueSize: 8}).
		Bytes()
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(dumpProject(), &buf, true); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("%d lines:\n%s", len(lines), buf.String())
	}
	wants := []string{"column", "column", "matrix", "function", "unknown(0x4242)"}
	for i, want := range wants {
		if !strings.HasPrefix(lines[i], want) {
			t.Errorf("line %d = %q, expected kind %s", i, lines[i], want)
		}
	}
	if !strings.Contains(lines[0], `"Data1_A"`) || !strings.Contains(lines[0], "nbytes=16") {
		t.Errorf("line 0 = %q", lines[0])
	}

	buf.Reset()
	if err := Dump(dumpProject(), &buf, false); err != nil {
		t.Fatal(err)
	}
	if first := strings.Fields(buf.String())[0]; len(first) != 8 {
		t.Errorf("numbered dump should start with an offset, got %q", first)
	}
}

func TestCountRecords(t *testing.T) {
	var buf bytes.Buffer
	if err := CountRecords(dumpProject(), &buf); err != nil {
		t.Fatal(err)
	}
	want := "       2 column\n" +
		"       1 function\n" +
		"       1 matrix\n" +
		"       1 unknown(0x4242)\n"
	if buf.String() != want {
		t.Errorf("CountRecords:\n%s\nexpected:\n%s", buf.String(), want)
	}
}

func TestDumpErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump([]byte("CPYA"), &buf, true); err == nil {
		t.Error("Dump of a bare signature should fail")
	}
	if err := CountRecords(dumpProject()[:100], &buf); err == nil {
		t.Error("CountRecords of a truncated list should fail")
	}
}
