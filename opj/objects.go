package opj

import "time"

// ObjectID identifies a window or note. Ids are assigned from 0 in the
// order windows and then notes are found; the project tree refers to
// windows through them.
type ObjectID int

// WindowState is the saved state of a window.
type WindowState int

const (
	StateNormal WindowState = iota
	StateMinimized
	StateMaximized
)

var windowStateNames = [...]string{"normal", "minimized", "maximized"}

func (s WindowState) String() string {
	if s >= 0 && int(s) < len(windowStateNames) {
		return windowStateNames[s]
	}
	return "normal"
}

// TitleMode is what a window shows in its title bar.
type TitleMode int

const (
	TitleBoth TitleMode = iota
	TitleName
	TitleLabel
)

var titleModeNames = [...]string{"both", "name", "label"}

func (t TitleMode) String() string {
	if t >= 0 && int(t) < len(titleModeNames) {
		return titleModeNames[t]
	}
	return "both"
}

// Rect is a rectangle in window or layer coordinates.
type Rect struct {
	Left, Top, Right, Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Window holds the properties every window and note has.
type Window struct {
	Name     string
	Label    string
	ObjectID ObjectID
	Rect     Rect
	State    WindowState
	Title    TitleMode
	Hidden   bool
	Created  time.Time
	Modified time.Time
}

// MatrixView selects how a matrix is displayed.
type MatrixView int

const (
	MatrixDataView MatrixView = iota
	MatrixImageView
)

// MatrixHeader selects the matrix row and column headings.
type MatrixHeader int

const (
	HeaderColumnRow MatrixHeader = iota
	HeaderXY
)

// Matrix is a matrix window. Data is stored row-major.
type Matrix struct {
	Window

	Index  DataIndex
	Rows   int
	Cols   int
	View   MatrixView
	Header MatrixHeader

	ValueTypeSpec     int
	SignificantDigits int
	DecimalPlaces     int
	NumericDisplay    NumericDisplay
	Width             int

	// Command is the matrix formula, if any.
	Command string
	// XBegin, XEnd, YBegin, YEnd are the coordinate ranges mapped onto columns and rows.
	XBegin, XEnd, YBegin, YEnd float64

	Data []float64
}

// At returns the value at row r and column c.
func (m *Matrix) At(r, c int) (float64, bool) {
	if r < 0 || c < 0 || r >= m.Rows || c >= m.Cols {
		return 0, false
	}
	i := r*m.Cols + c
	if i >= len(m.Data) {
		return 0, false
	}
	return m.Data[i], true
}

// FunctionKind selects the coordinate system of a Function.
type FunctionKind int

const (
	FunctionNormal FunctionKind = iota
	FunctionPolar
)

func (k FunctionKind) String() string {
	if k == FunctionPolar {
		return "polar"
	}
	return "normal"
}

// Function is a function plot definition.
type Function struct {
	Name    string
	Index   DataIndex
	Kind    FunctionKind
	Formula string
	Begin   float64
	End     float64
	Points  int
}

// Note is a notes window.
type Note struct {
	Window
	Text string
}

// Parameter is a named project variable.
type Parameter struct {
	Name  string
	Value float64
}
