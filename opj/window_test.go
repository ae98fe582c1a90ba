package opj

import (
	"testing"
	"time"

	"github.com/yamitzky/opj-go/opj/opjtest"
)

func TestWindowProperties(t *testing.T) {
	data := opjtest.New("2766").
		NumericColumn("Data1", "A", 1).
		SpreadsheetWindow(opjtest.Window{
			Name:     "Data1",
			Label:    "Raw counts",
			Rect:     [4]int16{10, 20, 110, 220},
			State:    0x02,
			Title:    0x09,
			Created:  2451544.5,
			Modified: 2451545,
		}, opjtest.ColumnFormat{Name: "A"}).
		Bytes()
	doc, status := decode(t, data)
	expectStatus(t, doc, status, StatusSuccess)
	w := doc.Spreadsheets()[0].Window

	if w.Label != "Raw counts" {
		t.Errorf("Label = %q", w.Label)
	}
	if w.Rect != (Rect{10, 20, 110, 220}) || w.Rect.Width() != 100 || w.Rect.Height() != 200 {
		t.Errorf("Rect = %+v", w.Rect)
	}
	if w.State != StateMaximized || w.Title != TitleLabel || !w.Hidden {
		t.Errorf("state %v title %v hidden %v", w.State, w.Title, w.Hidden)
	}
	if !w.Created.Equal(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Created = %v", w.Created)
	}
	if !w.Modified.Equal(time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Modified = %v", w.Modified)
	}
	if w.ObjectID != 0 {
		t.Errorf("ObjectID = %d", w.ObjectID)
	}
}

func TestColumnRecords(t *testing.T) {
	data := opjtest.New("2766").
		NumericColumn("Data1", "A", 1).
		NumericColumn("Data1", "Temperature", 2).
		SpreadsheetWindow(opjtest.Window{Name: "Data1"},
			opjtest.ColumnFormat{Name: "A", Type: opjtest.TypeX, Format: [2]byte{0x03, 0x81}},
			opjtest.ColumnFormat{
				Name:    "Temperature",
				Type:    opjtest.TypeY,
				Format:  [2]byte{0x10, 0x05},
				Width:   120,
				Formula: "col(A)*2",
				Comment: "doubled",
			},
		).Bytes()
	doc, status := decode(t, data)
	expectStatus(t, doc, status, StatusSuccess)
	s := doc.Spreadsheets()[0]

	a := s.ColumnByName("A")
	if a.ValueType != ValueDate || a.ValueTypeSpec != 1 || a.Width != 8 {
		t.Errorf("A: %v spec %d width %d", a.ValueType, a.ValueTypeSpec, a.Width)
	}
	temp := s.ColumnByName("Temperature")
	if temp.Command != "col(A)*2" || temp.Comment != "doubled" {
		t.Errorf("Temperature: command %q comment %q", temp.Command, temp.Comment)
	}
	if temp.Width != 12 || temp.ValueType != ValueNumeric || temp.ValueTypeSpec != 1 {
		t.Errorf("Temperature: width %d %v spec %d", temp.Width, temp.ValueType, temp.ValueTypeSpec)
	}
	if temp.NumericDisplay != DisplayDecimalPlaces || temp.DecimalPlaces != 2 {
		t.Errorf("Temperature: display %v decimals %d", temp.NumericDisplay, temp.DecimalPlaces)
	}
}

func TestDecodeValueFormat(t *testing.T) {
	tests := []struct {
		c1, c2   byte
		typ      ValueType
		spec     int
		digits   int
		decimals int
	}{
		{0x00, 0x00, ValueNumeric, 0, 0, 0},
		{0x10, 0x84, ValueNumeric, 1, 4, 0},
		{0x20, 0x06, ValueNumeric, 2, 0, 3},
		{0x09, 0x00, ValueTextNumeric, 0, 0, 0},
		{0x39, 0x00, ValueTextNumeric, 3, 0, 0},
		{0x02, 0x82, ValueTime, 2, 0, 0},
		{0x03, 0x80, ValueDate, 0, 0, 0},
		{0x31, 0x00, ValueText, 0, 0, 0},
		{0x34, 0x01, ValueMonth, 1, 0, 0},
		{0x05, 0x02, ValueDay, 2, 0, 0},
		{0x77, 0x00, ValueText, 0, 0, 0},
	}

	for _, test := range tests {
		f := decodeValueFormat(test.c1, test.c2)
		if f.valueType != test.typ || f.spec != test.spec ||
			f.significantDigits != test.digits || f.decimalPlaces != test.decimals {
			t.Errorf("decodeValueFormat(0x%02X, 0x%02X) = %+v", test.c1, test.c2, f)
		}
	}
}

func TestMatrixWindow(t *testing.T) {
	data := opjtest.New("2766").
		MatrixData("MBook1", opjtest.MatrixDouble, false, 1, 2, 3, 4, 5, 6).
		MatrixWindow(opjtest.Matrix{
			Window:      opjtest.Window{Name: "MBook1", Label: "surface"},
			Rows:        2,
			Cols:        3,
			View:        1,
			Formula:     "x*y",
			Coordinates: []float64{1, 10, -5, 5},
			Width:       135,
			Format:      [2]byte{0x10, 0x83},
		}).Bytes()
	doc, status := decode(t, data)
	expectStatus(t, doc, status, StatusSuccess)
	m, err := doc.MatrixByName("mbook1")
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != 2 || m.Cols != 3 || m.View != MatrixImageView || m.Label != "surface" {
		t.Errorf("matrix = %dx%d view %v label %q", m.Rows, m.Cols, m.View, m.Label)
	}
	if m.Command != "x*y" {
		t.Errorf("Command = %q", m.Command)
	}
	if m.XBegin != 1 || m.XEnd != 10 || m.YBegin != -5 || m.YEnd != 5 {
		t.Errorf("coordinates = %v %v %v %v", m.XBegin, m.XEnd, m.YBegin, m.YEnd)
	}
	if m.Width != 8 || m.ValueTypeSpec != 1 || m.SignificantDigits != 3 {
		t.Errorf("width %d spec %d digits %d", m.Width, m.ValueTypeSpec, m.SignificantDigits)
	}
	if v, ok := m.At(1, 0); !ok || v != 4 {
		t.Errorf("At(1, 0) = %v, %v", v, ok)
	}
	if _, ok := m.At(2, 0); ok {
		t.Error("At(2, 0) should be out of range")
	}
}

func TestObjectIDsInWindowOrder(t *testing.T) {
	data := opjtest.New("2766").
		NumericColumn("Data1", "A", 1).
		MatrixData("MBook1", opjtest.MatrixDouble, false, 1).
		MatrixWindow(opjtest.Matrix{Window: opjtest.Window{Name: "MBook1"}, Rows: 1, Cols: 1}).
		SpreadsheetWindow(opjtest.Window{Name: "Data1"}, opjtest.ColumnFormat{Name: "A"}).
		GraphWindow(opjtest.Graph{Window: opjtest.Window{Name: "Graph1"}}).
		Bytes()
	doc, status := decode(t, data)
	expectStatus(t, doc, status, StatusSuccess)

	tests := []struct {
		id   ObjectID
		kind ObjectKind
		name string
	}{
		{0, ObjectMatrix, "MBook1"},
		{1, ObjectSpreadsheet, "Data1"},
		{2, ObjectGraph, "Graph1"},
	}
	for _, test := range tests {
		ref, ok := doc.ResolveObject(test.id)
		if !ok || ref.Kind != test.kind || ref.Name != test.name {
			t.Errorf("ResolveObject(%d) = %+v, %v", test.id, ref, ok)
		}
	}
	if _, ok := doc.ResolveObject(3); ok {
		t.Error("ResolveObject(3) should fail")
	}
}

func TestLooseSpreadsheet(t *testing.T) {
	data := opjtest.New("2766").
		NumericColumn("Data1", "A", 1).
		NumericColumn("Data2", "A", 1).
		SpreadsheetWindow(opjtest.Window{Name: "Data2"}, opjtest.ColumnFormat{Name: "A"}).
		Bytes()
	doc, status := decode(t, data)
	expectStatus(t, doc, status, StatusSuccess)
	if !doc.Spreadsheets()[0].Loose || doc.Spreadsheets()[1].Loose {
		t.Errorf("Loose = %v %v, expected true false", doc.Spreadsheets()[0].Loose, doc.Spreadsheets()[1].Loose)
	}
}

func TestOldWindowMarkerMissing(t *testing.T) {
	data := opjtest.New("2656").
		NumericColumn("Data1", "A", 1, 2, 3).
		Bytes()
	// room for every step of the marker search, all of it zero
	data = append(data, make([]byte, (maxOriginJumps+1)*oldOriginStep)...)

	doc, status := decode(t, data)
	expectStatus(t, doc, status, StatusPartial)
	if n := countDiags(doc, StructuralLimitExceeded); n != 1 {
		t.Errorf("%d StructuralLimitExceeded diagnostics, expected 1: %v", n, doc.Diagnostics())
	}
	if n := countDiags(doc, TruncatedInput); n != 0 {
		t.Errorf("unexpected TruncatedInput: %v", doc.Diagnostics())
	}
	s := doc.Spreadsheets()[0]
	if !s.Loose || s.Columns[0].NumRows() != 3 {
		t.Errorf("spreadsheet loose=%v rows=%d", s.Loose, s.Columns[0].NumRows())
	}
}
