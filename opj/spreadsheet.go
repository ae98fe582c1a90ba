package opj

import (
	"math"
	"strconv"
	"strings"
)

// DataIndex identifies a column, matrix or function. Indexes are assigned
// from 0 in the order the primary records are found; curves refer to their
// data through them.
type DataIndex int

// ColumnType is the plot designation of a spreadsheet column.
type ColumnType int

const (
	ColumnNone ColumnType = iota
	ColumnX
	ColumnY
	ColumnZ
	ColumnXErr
	ColumnYErr
	ColumnLabel
)

var columnTypeNames = [...]string{"None", "X", "Y", "Z", "XErr", "YErr", "Label"}

func (t ColumnType) String() string {
	if t >= 0 && int(t) < len(columnTypeNames) {
		return columnTypeNames[t]
	}
	return "None"
}

func columnTypeFromByte(b byte) ColumnType {
	switch b {
	case 3:
		return ColumnX
	case 0:
		return ColumnY
	case 5:
		return ColumnZ
	case 6:
		return ColumnXErr
	case 2:
		return ColumnYErr
	case 4:
		return ColumnLabel
	}
	return ColumnNone
}

// ValueType is the display type chosen for a column.
type ValueType int

const (
	ValueNumeric ValueType = iota
	ValueText
	ValueTime
	ValueDate
	ValueMonth
	ValueDay
	ValueTextNumeric
)

var valueTypeNames = [...]string{"Numeric", "Text", "Time", "Date", "Month", "Day", "Text&Numeric"}

func (t ValueType) String() string {
	if t >= 0 && int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "Text"
}

// NumericDisplay says which of DecimalPlaces and SignificantDigits applies.
type NumericDisplay int

const (
	DisplayDefault NumericDisplay = iota
	DisplayDecimalPlaces
	DisplaySignificantDigits
)

// CellKind tells the two cell variants apart.
type CellKind int

const (
	CellDouble CellKind = iota
	CellText
)

// emptyThreshold separates the writer's "unset" sentinel (1e-307) from real
// values. Any nonzero double smaller in magnitude is an empty cell.
const emptyThreshold = 2e-300

// Cell is one spreadsheet value, either a double or a string.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

// NumberCell returns a double cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellDouble, Num: v}
}

// TextCell returns a text cell.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Str: s}
}

// IsText reports whether the cell holds a string.
func (c Cell) IsText() bool {
	return c.Kind == CellText
}

// IsEmpty reports whether the cell is unset. Explicit zero is a value.
func (c Cell) IsEmpty() bool {
	if c.Kind == CellText {
		return c.Str == ""
	}
	return c.Num != 0 && math.Abs(c.Num) < emptyThreshold
}

// Float returns the numeric value of a double cell.
func (c Cell) Float() (float64, bool) {
	if c.Kind != CellDouble {
		return 0, false
	}
	return c.Num, true
}

// Text returns the string of a text cell.
func (c Cell) Text() (string, bool) {
	if c.Kind != CellText {
		return "", false
	}
	return c.Str, true
}

// Display returns the cell in the form it is written to .dat files: the
// shortest exact representation of a double, the string of a text cell,
// and "" for an empty cell.
func (c Cell) Display() string {
	if c.IsEmpty() {
		return ""
	}
	if c.Kind == CellText {
		return c.Str
	}
	return strconv.FormatFloat(c.Num, 'g', -1, 64)
}

// Column is one spreadsheet column.
type Column struct {
	Name  string
	Type  ColumnType
	Index DataIndex

	ValueType         ValueType
	ValueTypeSpec     int
	SignificantDigits int
	DecimalPlaces     int
	NumericDisplay    NumericDisplay
	// Width is the display width in characters.
	Width int

	// Command is the column formula, if any.
	Command string
	Comment string

	Cells []Cell
}

// NumRows returns the number of stored cells.
func (c *Column) NumRows() int {
	return len(c.Cells)
}

// Cell returns the i-th cell. The second result is false when i is out of range.
func (c *Column) Cell(i int) (Cell, bool) {
	if i < 0 || i >= len(c.Cells) {
		return Cell{}, false
	}
	return c.Cells[i], true
}

// sheetOf returns the column name without an "@N" sheet suffix and the
// zero-based sheet number it names. Names without a valid suffix belong to
// the first sheet.
func sheetOf(name string) (string, int) {
	at := strings.LastIndexByte(name, '@')
	if at < 0 {
		return name, 0
	}
	n, err := strconv.Atoi(name[at+1:])
	if err != nil || n < 1 {
		return name, 0
	}
	return name[:at], n - 1
}

// Spreadsheet is a worksheet window with its columns. A spreadsheet whose
// window record was never found is Loose.
type Spreadsheet struct {
	Window

	Loose   bool
	MaxRows int
	Columns []*Column

	multisheet bool
}

// NumColumns returns the number of columns.
func (s *Spreadsheet) NumColumns() int {
	return len(s.Columns)
}

// ColumnByName returns the column called name, or nil.
func (s *Spreadsheet) ColumnByName(name string) *Column {
	return columnByName(s.Columns, name)
}

func columnByName(cols []*Column, name string) *Column {
	for _, c := range cols {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// columnByPrefix finds the column a window record refers to. Records keep
// only the first 11 bytes of a column name.
func columnByPrefix(cols []*Column, name string) *Column {
	for _, c := range cols {
		if prefixMatch(c.Name, name) {
			return c
		}
	}
	return nil
}

// Sheet is one sheet of a Workbook.
type Sheet struct {
	Columns []*Column
}

// ColumnByName returns the column called name, or nil.
func (s *Sheet) ColumnByName(name string) *Column {
	return columnByName(s.Columns, name)
}

// MaxRows returns the length of the longest column.
func (s *Sheet) MaxRows() int {
	n := 0
	for _, c := range s.Columns {
		if len(c.Cells) > n {
			n = len(c.Cells)
		}
	}
	return n
}

// Workbook is a multi-sheet worksheet window.
type Workbook struct {
	Window

	Loose   bool
	MaxRows int
	Sheets  []*Sheet
}

// NumSheets returns the number of sheets.
func (w *Workbook) NumSheets() int {
	return len(w.Sheets)
}
