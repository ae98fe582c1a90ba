// Package opjtest builds project files for tests. The encoder writes every
// block the decoder reads and zero-fills everything else.
package opjtest

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// Primary record signatures and matrix storage types.
const (
	SigMatrix   = 0x50CA
	SigFunction = 0x10C8

	MatrixDouble = 0x6001
	MatrixFloat  = 0x6003
	MatrixInt32  = 0x6801
	MatrixInt16  = 0x6803
	MatrixInt8   = 0x6821

	TextNumeric = 0x100
)

// Column type bytes of column records.
const (
	TypeY     = 0
	TypeYErr  = 2
	TypeX     = 3
	TypeLabel = 4
	TypeZ     = 5
	TypeXErr  = 6
)

const (
	layerBlockSize   = 0x12D
	recordSize       = 0x1E7
	axisBreakSize    = 0x2D
	fillerRecordSize = 0x1ED
	layerInfoStorage = "__LayerInfoStorage"
)

// Poke sets raw bytes at an offset inside a fixed-size block.
type Poke struct {
	Off   int
	Bytes []byte
}

func U8(off int, v byte) Poke { return Poke{off, []byte{v}} }

func I16(off int, v int16) Poke { return U16(off, uint16(v)) }

func U16(off int, v uint16) Poke {
	return Poke{off, binary.LittleEndian.AppendUint16(nil, v)}
}

func U32(off int, v uint32) Poke {
	return Poke{off, binary.LittleEndian.AppendUint32(nil, v)}
}

func F32(off int, v float32) Poke { return U32(off, math.Float32bits(v)) }

func F64(off int, v float64) Poke {
	return Poke{off, binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))}
}

func apply(block []byte, pokes []Poke) {
	for _, p := range pokes {
		copy(block[p.Off:], p.Bytes)
	}
}

// Record is one primary record.
type Record struct {
	Name      string
	Signature uint16
	DataType  uint16
	Unsigned  bool
	ValueSize int8
	FuncKind  uint16
	Points    int32
	Begin     float64
	Step      float64
	Data      []byte
}

// Window holds the header fields shared by all windows.
type Window struct {
	Name     string
	Label    string
	Rect     [4]int16
	State    byte
	Title    byte
	Created  float64
	Modified float64
}

// ColumnFormat is a column record of a spreadsheet or workbook window.
type ColumnFormat struct {
	Name    string
	Type    byte
	Format  [2]byte
	Width   int16
	Formula string
	Comment string
}

// Matrix describes a matrix window.
type Matrix struct {
	Window
	Rows, Cols int16
	View       byte
	Formula    string
	// Coordinates are XBegin, XEnd, YBegin, YEnd; nil omits the section.
	Coordinates []float64
	Width       int16
	Format      [2]byte
}

// AxisRange is the per-axis part of a layer block.
type AxisRange struct {
	Min, Max, Step float64
	Major, Minor   byte
	Scale          byte
}

// Label is a named text section: XB, XT, YL, YR or Legend, or any other
// name for a free text.
type Label struct {
	Section  string
	Text     string
	Color    byte
	FontSize byte
	Rotation int16
}

// Line is a line annotation.
type Line struct {
	Begin, End [2]float64
	Style      byte
	Width      uint16
}

// Curve is a curve record. Y and X are data indexes plus one.
type Curve struct {
	Y, X  int16
	Type  byte
	Pokes []Poke
}

// AxisBreak is an axis-break record. Axis is 2 for X and 4 for Y.
type AxisBreak struct {
	Axis     byte
	From, To float64
	Position float64
}

// Layer describes one graph layer.
type Layer struct {
	XAxis, YAxis AxisRange
	Rect         [4]int16
	Labels       []Label
	Lines        []Line
	Bitmaps      [][]byte
	// Histogram is bin, begin, end; nil omits the section.
	Histogram []float64
	Curves    []Curve
	Breaks    []AxisBreak
	// XParts and YParts are the minor grid, major grid, tick labels and
	// format of both sides.
	XParts [6][]Poke
	YParts [6][]Poke
}

// Graph describes a graph window.
type Graph struct {
	Window
	Width, Height uint16
	Layers        []Layer
}

// Note describes a note.
type Note struct {
	Name, Label, Text string
	Created, Modified float64
}

// TreeObject files a window, or a note when Note is set, in a folder.
type TreeObject struct {
	ID   int32
	Note bool
}

// Folder is a project tree folder.
type Folder struct {
	Name              string
	Created, Modified float64
	Objects           []TreeObject
	Folders           []Folder
}

type oldSpreadsheet struct {
	name  string
	names []string
	types []byte
}

type parameter struct {
	name  string
	value float64
}

// Builder assembles a project file.
type Builder struct {
	version    string
	records    []Record
	windows    [][]byte
	old        []oldSpreadsheet
	params     []parameter
	notes      []Note
	resultsLog *string
	tree       *Folder
}

// New returns a builder for the given 4-character header version code,
// e.g. "2766" for 7.5 or "2656" for 7.0.
func New(version string) *Builder {
	return &Builder{version: version}
}

func (b *Builder) raw() int {
	n, _ := strconv.Atoi(strings.TrimSpace(b.version))
	return n
}

// NewDialect reports whether the version uses the 7.5 layout.
func (b *Builder) NewDialect() bool {
	return b.Normalized() >= 750
}

// versions maps header codes to normalized versions the same way the
// decoder does.
var versions = []struct{ lo, hi, normalized int }{
	{130, 140, 410},
	{210, 210, 500},
	{2625, 2625, 600},
	{2627, 2627, 601},
	{2630, 2630, 604},
	{2635, 2635, 610},
	{2656, 2656, 700},
	{2672, 2672, 703},
	{2766, 2769, 750},
}

// Normalized returns the version for known codes and the nearest
// old-dialect version otherwise.
func (b *Builder) Normalized() int {
	n := b.raw()
	best, bestDist := 0, -1
	for _, v := range versions {
		if n >= v.lo && n <= v.hi {
			return v.normalized
		}
		if v.normalized >= 750 {
			continue
		}
		dist := 0
		switch {
		case n < v.lo:
			dist = v.lo - n
		case n > v.hi:
			dist = n - v.hi
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = v.normalized, dist
		}
	}
	return best
}

// Record adds a primary record.
func (b *Builder) Record(r Record) *Builder {
	b.records = append(b.records, r)
	return b
}

// NumericColumn adds a column of doubles.
func (b *Builder) NumericColumn(sheet, column string, values ...float64) *Builder {
	data := make([]byte, 0, 8*len(values))
	for _, v := range values {
		data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
	}
	return b.Record(Record{Name: sheet + "_" + column, ValueSize: 8, Data: data})
}

// TextColumn adds a column of fixed-width strings.
func (b *Builder) TextColumn(sheet, column string, size int, values ...string) *Builder {
	data := make([]byte, 0, size*len(values))
	for _, v := range values {
		cell := make([]byte, size)
		copy(cell, v)
		data = append(data, cell...)
	}
	return b.Record(Record{Name: sheet + "_" + column, ValueSize: int8(size), Data: data})
}

// MixedColumn adds a text and numeric column; cells are float64 or string.
func (b *Builder) MixedColumn(sheet, column string, size int, cells ...interface{}) *Builder {
	data := make([]byte, 0, size*len(cells))
	for _, c := range cells {
		cell := make([]byte, size)
		switch v := c.(type) {
		case float64:
			binary.LittleEndian.PutUint64(cell[2:], math.Float64bits(v))
		case string:
			cell[0] = 1
			copy(cell[2:], v)
		}
		data = append(data, cell...)
	}
	return b.Record(Record{Name: sheet + "_" + column, ValueSize: int8(size), DataType: TextNumeric, Data: data})
}

// MatrixData adds the primary record of a matrix.
func (b *Builder) MatrixData(name string, dataType uint16, unsigned bool, values ...float64) *Builder {
	var size int
	var data []byte
	for _, v := range values {
		switch dataType {
		case MatrixDouble:
			size = 8
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
		case MatrixFloat:
			size = 4
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(v)))
		case MatrixInt32:
			size = 4
			data = binary.LittleEndian.AppendUint32(data, uint32(int32(v)))
		case MatrixInt16:
			size = 2
			data = binary.LittleEndian.AppendUint16(data, uint16(int16(v)))
		case MatrixInt8:
			size = 1
			data = append(data, byte(int8(v)))
		}
	}
	if size == 0 {
		size = 8
	}
	return b.Record(Record{Name: name, Signature: SigMatrix, DataType: dataType, Unsigned: unsigned, ValueSize: int8(size), Data: data})
}

// Function adds a function record.
func (b *Builder) Function(name, formula string, polar bool, points int32, begin, step float64) *Builder {
	size := len(formula) + 1
	data := make([]byte, size)
	copy(data, formula)
	r := Record{Name: name, Signature: SigFunction, ValueSize: int8(size), Points: points, Begin: begin, Step: step, Data: data}
	if polar {
		r.FuncKind = 0x1194
	}
	return b.Record(r)
}

// Parameter adds a project variable.
func (b *Builder) Parameter(name string, v float64) *Builder {
	b.params = append(b.params, parameter{name, v})
	return b
}

// Note adds a note.
func (b *Builder) Note(n Note) *Builder {
	b.notes = append(b.notes, n)
	return b
}

// ResultsLog sets the results log text.
func (b *Builder) ResultsLog(text string) *Builder {
	b.resultsLog = &text
	return b
}

// Tree sets the project tree root.
func (b *Builder) Tree(f Folder) *Builder {
	b.tree = &f
	return b
}

// Bytes encodes the project.
func (b *Builder) Bytes() []byte {
	w := &writer{}
	header := "CPYA 4." + b.version + " 188#"
	w.WriteString(header)
	for w.Len() < 0x16 {
		w.WriteByte(' ')
	}
	w.nl()
	if b.Normalized() > 410 {
		w.size(0)
	}
	for _, r := range b.records {
		b.writeRecord(w, r)
	}
	w.size(0)

	if !b.NewDialect() {
		b.writeOldWindows(w)
		return w.Bytes()
	}

	for _, win := range b.windows {
		w.Write(win)
	}
	w.size(0)

	for _, p := range b.params {
		w.WriteString(p.name)
		w.nl()
		w.f64(p.value)
		w.nl()
	}
	w.WriteByte(0)
	w.zeros(6)

	for _, n := range b.notes {
		writeNote(w, n)
	}
	if b.resultsLog != nil {
		writeNoteHeader(w, 0, 0, 0)
		w.size(len("ResultsLog"))
		w.text("ResultsLog")
		w.nl()
		w.size(len(*b.resultsLog))
		w.text(*b.resultsLog)
	} else {
		w.i32(0)
	}
	w.zeros(1 + 4*5 + 0x10 + 1)

	tree := Folder{Name: "Project"}
	if b.tree != nil {
		tree = *b.tree
	}
	writeFolder(w, tree)
	return w.Bytes()
}

func isColumnName(name string) bool {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	return len(parts) >= 2
}

func (b *Builder) writeRecord(w *writer, r Record) {
	hsize := 0x83
	if !b.NewDialect() {
		hsize = 0x71
	}
	hdr := make([]byte, hsize)
	binary.LittleEndian.PutUint16(hdr[0x0A:], r.FuncKind)
	binary.LittleEndian.PutUint16(hdr[0x12:], r.Signature)
	binary.LittleEndian.PutUint16(hdr[0x16:], r.DataType)
	binary.LittleEndian.PutUint32(hdr[0x21:], uint32(r.Points))
	binary.LittleEndian.PutUint64(hdr[0x25:], math.Float64bits(r.Begin))
	binary.LittleEndian.PutUint64(hdr[0x2D:], math.Float64bits(r.Step))
	hdr[0x3D] = byte(r.ValueSize)
	if r.Unsigned {
		hdr[0x3F] = 8
	}
	copy(hdr[0x58:0x58+24], r.Name)

	if b.NewDialect() {
		w.size(hsize)
	} else {
		w.size(0x72)
	}
	w.Write(hdr)
	w.nl()
	w.size(len(r.Data))
	w.Write(r.Data)
	if len(r.Data) > 0 || !isColumnName(r.Name) {
		w.nl()
	}
	w.size(0)
}

// SpreadsheetWindow adds a worksheet window. Old-dialect projects keep
// only the column names and types.
func (b *Builder) SpreadsheetWindow(win Window, cols ...ColumnFormat) *Builder {
	if !b.NewDialect() {
		s := oldSpreadsheet{name: win.Name}
		for _, c := range cols {
			s.names = append(s.names, c.Name)
			s.types = append(s.types, c.Type)
		}
		b.old = append(b.old, s)
		return b
	}
	w := &writer{}
	writeWindowHeader(w, win, nil)
	writeSheet(w, cols, true)
	b.windows = append(b.windows, w.Bytes())
	return b
}

// WorkbookWindow adds a multi-sheet worksheet window.
func (b *Builder) WorkbookWindow(win Window, sheets ...[]ColumnFormat) *Builder {
	w := &writer{}
	writeWindowHeader(w, win, nil)
	for i, cols := range sheets {
		writeSheet(w, cols, i == len(sheets)-1)
	}
	b.windows = append(b.windows, w.Bytes())
	return b
}

// MatrixWindow adds a matrix window.
func (b *Builder) MatrixWindow(m Matrix) *Builder {
	w := &writer{}
	writeWindowHeader(w, m.Window, []Poke{U8(0x87, m.View)})
	w.block(layerBlockSize, []Poke{I16(0x2B, m.Cols), I16(0x52, m.Rows)})
	if m.Formula != "" {
		writeSection(w, "MV", nil, cstring(m.Formula), nil)
	}
	if len(m.Coordinates) == 4 {
		var body []byte
		for _, v := range m.Coordinates {
			body = binary.LittleEndian.AppendUint64(body, math.Float64bits(v))
		}
		writeSection(w, "Y2", nil, nil, body)
	}
	writeSection(w, layerInfoStorage, nil, nil, nil)
	w.size(0)
	writeRecordBlock(w, []Poke{I16(0x2B, m.Width), U8(0x1E, m.Format[0]), U8(0x1F, m.Format[1])}, "")
	w.size(0)
	w.zeros(20 + fillerRecordSize*0x12)
	w.size(0)
	b.windows = append(b.windows, w.Bytes())
	return b
}

// GraphWindow adds a graph window with at least one layer.
func (b *Builder) GraphWindow(g Graph) *Builder {
	w := &writer{}
	writeWindowHeader(w, g.Window, []Poke{U16(0x23, g.Width), U16(0x25, g.Height)})
	layers := g.Layers
	if len(layers) == 0 {
		layers = []Layer{{}}
	}
	for i, l := range layers {
		writeLayer(w, l)
		if i == len(layers)-1 {
			w.size(0)
		}
	}
	b.windows = append(b.windows, w.Bytes())
	return b
}

func writeWindowHeader(w *writer, win Window, extra []Poke) {
	size := 0xD0
	if need := 0xC3 + len(win.Label) + 2; need > size {
		size = need
	}
	hdr := make([]byte, size)
	copy(hdr[0x02:0x02+24], win.Name)
	for i, v := range win.Rect {
		binary.LittleEndian.PutUint16(hdr[0x1B+2*i:], uint16(v))
	}
	hdr[0x32] = win.State
	hdr[0x69] = win.Title
	binary.LittleEndian.PutUint64(hdr[0x73:], math.Float64bits(win.Created))
	binary.LittleEndian.PutUint64(hdr[0x7B:], math.Float64bits(win.Modified))
	copy(hdr[0xC3:], win.Label+"@")
	apply(hdr, extra)
	w.size(size)
	w.Write(hdr)
	w.nl()
}

func writeSheet(w *writer, cols []ColumnFormat, last bool) {
	w.block(layerBlockSize, nil)
	for _, c := range cols {
		if c.Formula != "" {
			writeSection(w, c.Name, nil, cstring(c.Formula), nil)
		}
	}
	writeSection(w, layerInfoStorage, nil, nil, nil)
	w.size(0)
	for _, c := range cols {
		name := make([]byte, 12)
		copy(name[:11], c.Name)
		writeRecordBlock(w, []Poke{
			U8(0x11, c.Type),
			{0x12, name},
			U8(0x1E, c.Format[0]),
			U8(0x1F, c.Format[1]),
			I16(0x4A, c.Width),
		}, c.Comment)
	}
	w.size(0)
	w.zeros(20 + fillerRecordSize*0x12)
	if last {
		w.size(0)
	}
}

func writeLayer(w *writer, l Layer) {
	pokes := []Poke{
		F64(0x0F, l.XAxis.Min), F64(0x17, l.XAxis.Max), F64(0x1F, l.XAxis.Step),
		U8(0x2B, l.XAxis.Major), U8(0x37, l.XAxis.Minor), U8(0x38, l.XAxis.Scale),
		F64(0x3A, l.YAxis.Min), F64(0x42, l.YAxis.Max), F64(0x4A, l.YAxis.Step),
		U8(0x56, l.YAxis.Major), U8(0x62, l.YAxis.Minor), U8(0x63, l.YAxis.Scale),
	}
	for i, v := range l.Rect {
		pokes = append(pokes, I16(0x71+2*i, v))
	}
	w.block(layerBlockSize, pokes)

	for _, lb := range l.Labels {
		body1 := make([]byte, 0x3E)
		apply(body1, []Poke{I16(2, lb.Rotation), U8(4, lb.FontSize)})
		writeSection(w, lb.Section, []Poke{U8(0x33, lb.Color)}, body1, cstring(lb.Text))
	}
	for i, ln := range l.Lines {
		body1 := make([]byte, 0x78)
		apply(body1, []Poke{
			U8(0, 2), U8(0x12, ln.Style), U16(0x13, ln.Width),
			F64(0x20, ln.Begin[0]), F64(0x28, ln.End[0]),
			F64(0x40, ln.Begin[1]), F64(0x48, ln.End[1]),
		})
		writeSection(w, "Line"+strconv.Itoa(i+1), nil, body1, nil)
	}
	for i, bmp := range l.Bitmaps {
		body1 := make([]byte, 0x28)
		body1[0] = 4
		writeSection(w, "Graphic"+strconv.Itoa(i+1), nil, body1, bmp)
	}
	if len(l.Histogram) == 3 {
		body2 := make([]byte, 0x30)
		apply(body2, []Poke{F64(0x10, l.Histogram[0]), F64(0x28, l.Histogram[1]), F64(0x20, l.Histogram[2])})
		writeSection(w, "__BCO2", nil, nil, body2)
	}
	writeSection(w, layerInfoStorage, nil, nil, nil)
	w.size(0)

	for _, c := range l.Curves {
		pokes := append([]Poke{I16(0x04, c.Y), I16(0x23, c.X), U8(0x4C, c.Type)}, c.Pokes...)
		writeRecordBlock(w, pokes, "")
	}
	w.size(0)

	for _, br := range l.Breaks {
		body := make([]byte, axisBreakSize)
		apply(body, []Poke{U8(2, br.Axis), F64(0x0B, br.From), F64(0x13, br.To), F64(0x23, br.Position)})
		w.size(axisBreakSize)
		w.Write(body)
		w.nl()
	}
	w.size(0)

	for _, p := range l.XParts {
		writeBareRecord(w, p)
	}
	w.size(0)
	for _, p := range l.YParts {
		writeBareRecord(w, p)
	}
	w.zeros(2*5 + fillerRecordSize*6)
}

func writeSection(w *writer, name string, header []Poke, body1, body2 []byte) {
	hdr := make([]byte, 0x6F)
	copy(hdr[0x46:0x46+40], name)
	apply(hdr, header)
	w.size(len(hdr))
	w.Write(hdr)
	w.nl()
	w.size(len(body1))
	w.Write(body1)
	w.nl()
	w.size(len(body2))
	w.Write(body2)
	if len(body2) > 0 {
		w.nl()
	}
	w.size(0)
}

// writeRecordBlock writes a 0x1E7 record followed by its comment block.
func writeRecordBlock(w *writer, pokes []Poke, comment string) {
	writeBareRecord(w, pokes)
	w.size(len(comment))
	if comment != "" {
		w.text(comment)
		w.nl()
	}
}

func writeBareRecord(w *writer, pokes []Poke) {
	body := make([]byte, recordSize)
	apply(body, pokes)
	w.size(recordSize)
	w.Write(body)
	w.nl()
}

func writeNoteHeader(w *writer, created, modified float64, labelLen byte) {
	hdr := make([]byte, 0x40)
	binary.LittleEndian.PutUint64(hdr[0x20:], math.Float64bits(created))
	binary.LittleEndian.PutUint64(hdr[0x28:], math.Float64bits(modified))
	hdr[0x3C] = labelLen
	w.size(0x40)
	w.Write(hdr)
	w.nl()
}

func writeNote(w *writer, n Note) {
	labelLen := 0
	if n.Label != "" {
		labelLen = len(n.Label) + 1
	}
	writeNoteHeader(w, n.Created, n.Modified, byte(labelLen))
	w.size(len(n.Name))
	w.text(n.Name)
	w.nl()
	w.size(len(n.Text) + labelLen)
	if labelLen > 0 {
		w.text(n.Label)
		w.nl()
	}
	w.text(n.Text)
	w.nl()
}

func writeFolder(w *writer, f Folder) {
	w.size(0x20)
	hdr := make([]byte, 0x20)
	binary.LittleEndian.PutUint64(hdr[0x10:], math.Float64bits(f.Created))
	binary.LittleEndian.PutUint64(hdr[0x18:], math.Float64bits(f.Modified))
	w.Write(hdr)
	w.nl()
	w.zeros(5)
	w.size(len(f.Name))
	w.text(f.Name)
	w.nl()
	w.zeros(10)
	w.i32(int32(len(f.Objects)))
	w.zeros(6)
	for _, o := range f.Objects {
		rec := make([]byte, 19)
		rec[2] = 0x00
		if o.Note {
			rec[2] = 0x10
		}
		binary.LittleEndian.PutUint32(rec[4:], uint32(o.ID))
		w.zeros(5)
		w.Write(rec)
	}
	w.size(len(f.Folders))
	for _, sub := range f.Folders {
		writeFolder(w, sub)
	}
}

// old-dialect window table layout, per normalized version
var oldLayouts = map[int][4]int{
	410: {0x7FB, 0x58, 0x229, 0x55},
	500: {0x92C, 0x5D, 0x300, 0x58},
	600: {0x2560, 0x1ED, 0x314, 0x55},
	601: {0x2560, 0x1ED, 0x500, 0x55},
	604: {0x25A0, 0x1ED, 0x354, 0x55},
	610: {0x25A4, 0x1ED, 0x358, 0x55},
	700: {0x2530, 0x1ED, 0x2E4, 0x55},
	703: {0x2530, 0x1ED, 0x2E4, 0x55},
}

func (b *Builder) oldLayout() [4]int {
	if layout, ok := oldLayouts[b.Normalized()]; ok {
		return layout
	}
	return oldLayouts[700]
}

func (b *Builder) writeOldWindows(w *writer) {
	layout := b.oldLayout()
	spreadJump, colJump, typeTable, origin := layout[0], layout[1], layout[2], layout[3]
	start := w.Len() - 11
	var region []byte
	put := func(off int, p []byte) {
		off -= w.Len()
		if need := off + len(p); need > len(region) {
			region = append(region, make([]byte, need-len(region))...)
		}
		copy(region[off:], p)
	}
	pos := start
	for i, s := range b.old {
		if i > 0 {
			pos += spreadJump + len(b.old[i-1].names)*colJump
		}
		put(pos+origin, []byte("ORIGIN"))
		put(pos+0x12, cstring(s.name))
		for j, name := range s.names {
			at := pos + typeTable + j*colJump
			put(at-1, []byte{s.types[j]})
			put(at, cstring(name))
		}
	}
	w.Write(region)
	w.zeros(0x100)
}

func cstring(s string) []byte {
	return append([]byte(s), 0)
}

type writer struct {
	bytes.Buffer
}

func (w *writer) nl() { w.WriteByte('\n') }

func (w *writer) i32(v int32) {
	w.Write(binary.LittleEndian.AppendUint32(nil, uint32(v)))
}

func (w *writer) f64(v float64) {
	w.Write(binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)))
}

// size writes a block size and its newline.
func (w *writer) size(n int) {
	w.i32(int32(n))
	w.nl()
}

func (w *writer) text(s string) { w.WriteString(s) }

func (w *writer) zeros(n int) { w.Write(make([]byte, n)) }

// block writes a sized fixed block with pokes applied.
func (w *writer) block(n int, pokes []Poke) {
	body := make([]byte, n)
	apply(body, pokes)
	w.size(n)
	w.Write(body)
	w.nl()
}
