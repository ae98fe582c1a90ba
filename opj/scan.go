package opj

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var errNoScanStart = errors.New("cannot locate the first primary record")

// rawRecord is the header of one primary record: a spreadsheet column, a
// matrix or a function, followed by its data.
type rawRecord struct {
	offset     int
	size       int
	name       string
	signature  uint16
	dataType   uint16
	unsigned   bool
	valueSize  int
	funcKind   uint16
	points     int
	begin      float64
	step       float64
	dataOffset int
	nbytes     int
}

// scanner walks the primary record list. It is shared by the decoder and
// by Summarize.
type scanner struct {
	d        *decoder
	cur      *cursor
	colFound int
}

func (d *decoder) newScanner() (*scanner, error) {
	c := newCursor(d.data)
	if err := c.seek(headerSkip); err != nil {
		return nil, fmt.Errorf("%w: %v", errNoScanStart, err)
	}
	if !c.scanTo('\n', maxHeaderLine) {
		return nil, fmt.Errorf("%w: no end of header line", errNoScanStart)
	}
	if d.version.Normalized > 410 {
		if err := c.skip(firstBlockSkip); err != nil {
			return nil, fmt.Errorf("%w: %v", errNoScanStart, err)
		}
	}
	n, err := c.size()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoScanStart, err)
	}
	return &scanner{d: d, cur: c, colFound: n}, nil
}

// more reports whether another record follows. A header size outside
// (0, 0x84) ends the list.
func (s *scanner) more() bool {
	return s.colFound > 0 && s.colFound < colFoundMax
}

// next reads the record header and the data size, leaving the cursor at
// the start of the data.
func (s *scanner) next() (*rawRecord, error) {
	c := s.cur
	start := c.pos()
	h := c.at(start)
	rec := &rawRecord{
		offset:    start,
		size:      s.colFound,
		funcKind:  h.u16(recFunctionKind),
		signature: h.u16(recSignature),
		dataType:  h.u16(recDataType),
		points:    int(h.i32(recPoints)),
		begin:     h.f64(recBegin),
		step:      h.f64(recStep),
		valueSize: int(int8(h.u8(recValueSize))),
		unsigned:  h.u8(recUnsigned) == unsignedFlag,
	}
	rec.name = s.d.text(h.cstring(recName, recNameLen))
	if h.err != nil {
		return nil, &SectionError{Entity: "primary record", Offset: start, Err: h.err}
	}

	if s.d.version.Dialect == DialectNew {
		if err := c.seek(start + s.colFound + 1); err != nil {
			return nil, &SectionError{Entity: rec.name, Offset: start, Err: err}
		}
	} else {
		if err := c.seek(start + recName + recNameLen); err != nil {
			return nil, &SectionError{Entity: rec.name, Offset: start, Err: err}
		}
		if !c.scanTo('\n', maxOldHeaderScan) {
			err := fmt.Errorf("no end of record header within %d bytes", maxOldHeaderScan)
			if c.remaining() < maxOldHeaderScan {
				err = truncatedAt(c.pos(), c.remaining())
			}
			return nil, &SectionError{Entity: rec.name, Offset: start, Err: err}
		}
	}

	nbytes, err := c.size()
	if err != nil {
		return nil, &SectionError{Entity: rec.name, Offset: c.pos(), Err: err}
	}
	if nbytes < 0 {
		return nil, &SectionError{Entity: rec.name, Offset: c.pos(), Err: fmt.Errorf("negative data size %d", nbytes)}
	}
	rec.dataOffset, rec.nbytes = c.pos(), nbytes
	if rec.dataOffset+nbytes > len(s.d.data) {
		return nil, &SectionError{Entity: rec.name, Offset: rec.dataOffset, Err: truncatedAt(rec.dataOffset, nbytes)}
	}
	if rec.valueSize <= 0 {
		s.d.report(ClampApplied, start+recValueSize, rec.name,
			"value size %d, using %d", rec.valueSize, s.d.clamp.DefaultValueSize)
		rec.valueSize = s.d.clamp.DefaultValueSize
	}
	return rec, nil
}

// advance skips the data and trailer of rec and reads the next header size.
func (s *scanner) advance(rec *rawRecord) error {
	c := s.cur
	if err := c.seek(rec.dataOffset + rec.nbytes); err != nil {
		return &SectionError{Entity: rec.name, Offset: rec.dataOffset, Err: err}
	}
	if _, _, isColumn := splitColumnName(rec.name); rec.nbytes > 0 || !isColumn {
		if err := c.skip(1); err != nil {
			return &SectionError{Entity: rec.name, Offset: c.pos(), Err: err}
		}
	}
	tail, err := c.i32()
	if err != nil {
		return &SectionError{Entity: rec.name, Offset: c.pos(), Err: err}
	}
	if tail < 0 {
		return &SectionError{Entity: rec.name, Offset: c.pos(), Err: fmt.Errorf("negative trailer size %d", tail)}
	}
	skip := 1 + int(tail)
	if s.d.version.Dialect == DialectNew && tail > 0 {
		skip++
	}
	if err := c.skip(skip); err != nil {
		return &SectionError{Entity: rec.name, Offset: c.pos(), Err: err}
	}
	n, err := c.i32()
	if err != nil {
		return &SectionError{Entity: "primary list", Offset: c.pos(), Err: err}
	}
	s.colFound = int(n)
	if c.skip(1) != nil {
		c.seek(len(c.data))
	}
	return nil
}

// scanPrimary decodes every primary record and returns the offset just
// past the list, where the window section starts.
func (d *decoder) scanPrimary() (int, error) {
	s, err := d.newScanner()
	if err != nil {
		return 0, err
	}
	for s.more() {
		rec, err := s.next()
		if err != nil {
			return 0, err
		}
		if d.verbosity >= 2 {
			fmt.Fprintf(d.logfile, "record at 0x%X: %q sig=0x%04X type=0x%04X vsize=%d nbytes=%d\n",
				rec.offset, rec.name, rec.signature, rec.dataType, rec.valueSize, rec.nbytes)
		}
		d.addRecord(rec)
		if err := s.advance(rec); err != nil {
			return 0, err
		}
	}
	return s.cur.pos(), nil
}

func (d *decoder) addRecord(rec *rawRecord) {
	sheet, column, ok := splitColumnName(rec.name)
	switch {
	case ok:
		d.addColumn(rec, sheet, column)
	case isMatrixSignature(rec.signature):
		d.addMatrix(rec, sheet)
	case rec.signature == sigFunction:
		d.addFunction(rec, sheet)
	default:
		d.report(UnknownRecord, rec.offset, rec.name,
			"unknown record signature 0x%04X, %d bytes skipped", rec.signature, rec.nbytes)
	}
}

// dataBlock is a view of the record data that fails reads past the
// declared data size.
func (d *decoder) dataBlock(rec *rawRecord) *block {
	return &block{data: d.data[:rec.dataOffset+rec.nbytes], base: rec.dataOffset}
}

func (d *decoder) spreadsheetByName(name string) *Spreadsheet {
	for _, s := range d.spreads {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

func (d *decoder) addColumn(rec *rawRecord, sheetName, colName string) {
	s := d.spreadsheetByName(sheetName)
	if s == nil {
		s = &Spreadsheet{Window: Window{Name: sheetName}, Loose: true}
		d.spreads = append(d.spreads, s)
	}
	col := &Column{Name: colName, Index: d.nextData}
	d.nextData++
	if _, n := sheetOf(colName); n > 0 {
		s.multisheet = true
	}
	d.dataRefs.register(col.Index, DataRef{Kind: OwnerSpreadsheet, Owner: s.Name, Column: colName})

	nr := rec.nbytes / rec.valueSize
	col.Cells = make([]Cell, 0, nr)
	b := d.dataBlock(rec)
	for i := 0; i < nr; i++ {
		cell := d.readCell(b, i*rec.valueSize, rec)
		if b.err != nil {
			d.reportErr(&SectionError{Entity: s.Name + "_" + colName, Offset: rec.dataOffset, Err: b.err}, "")
			break
		}
		col.Cells = append(col.Cells, cell)
	}
	if len(col.Cells) > s.MaxRows {
		s.MaxRows = len(col.Cells)
	}
	s.Columns = append(s.Columns, col)
}

func (d *decoder) readCell(b *block, off int, rec *rawRecord) Cell {
	switch {
	case rec.valueSize <= 8:
		return NumberCell(readNumber(b, off, rec.valueSize))
	case d.version.Dialect == DialectNew && rec.dataType&textNumericFlag != 0:
		// one discriminant byte and one pad byte, then a double or a string
		if b.u8(off) == 0 {
			return NumberCell(b.f64(off + 2))
		}
		return TextCell(d.cellText(b.raw(off+2, rec.valueSize-2)))
	}
	return TextCell(d.cellText(b.raw(off, rec.valueSize)))
}

// readNumber reads a numeric cell. Cells are doubles; narrower value sizes
// hold a float or the low bytes of a double.
func readNumber(b *block, off, size int) float64 {
	switch size {
	case 8:
		return b.f64(off)
	case 4:
		return float64(b.f32(off))
	}
	var buf [8]byte
	copy(buf[:], b.raw(off, size))
	return (&block{data: buf[:]}).f64(0)
}

func (d *decoder) addMatrix(rec *rawRecord, name string) {
	var read func(b *block, off int) float64
	switch rec.dataType {
	case matrixDouble:
		read = func(b *block, off int) float64 { return b.f64(off) }
	case matrixFloat:
		read = func(b *block, off int) float64 { return float64(b.f32(off)) }
	case matrixInt32:
		if rec.unsigned {
			read = func(b *block, off int) float64 { return float64(b.u32(off)) }
		} else {
			read = func(b *block, off int) float64 { return float64(b.i32(off)) }
		}
	case matrixInt16:
		if rec.unsigned {
			read = func(b *block, off int) float64 { return float64(b.u16(off)) }
		} else {
			read = func(b *block, off int) float64 { return float64(b.i16(off)) }
		}
	case matrixInt8:
		if rec.unsigned {
			read = func(b *block, off int) float64 { return float64(b.u8(off)) }
		} else {
			read = func(b *block, off int) float64 { return float64(int8(b.u8(off))) }
		}
	default:
		d.report(UnknownRecord, rec.offset, name,
			"unknown matrix storage type 0x%04X, matrix skipped", rec.dataType)
		return
	}

	count := rec.nbytes / rec.valueSize
	keep := count
	if d.clamp.MatrixThreshold > 0 && count > d.clamp.MatrixThreshold {
		keep = min(d.clamp.MatrixRetain, count)
		d.report(ClampApplied, rec.dataOffset, name, "matrix holds %d cells, keeping the first %d", count, keep)
	}
	values := make([]float64, 0, keep)
	b := d.dataBlock(rec)
	for i := 0; i < keep; i++ {
		v := read(b, i*rec.valueSize)
		if b.err != nil {
			d.reportErr(&SectionError{Entity: name, Offset: rec.dataOffset, Err: b.err}, "")
			break
		}
		values = append(values, v)
	}

	m := &Matrix{Window: Window{Name: name}, Index: d.nextData, Data: values}
	d.nextData++
	d.dataRefs.register(m.Index, DataRef{Kind: OwnerMatrix, Owner: name})
	d.matrices = append(d.matrices, m)
}

func (d *decoder) addFunction(rec *rawRecord, name string) {
	b := d.dataBlock(rec)
	f := &Function{
		Name:    name,
		Index:   d.nextData,
		Formula: d.cellText(b.raw(0, min(rec.valueSize, rec.nbytes))),
		Points:  rec.points,
		Begin:   rec.begin,
	}
	if rec.funcKind == polarFunctionKind {
		f.Kind = FunctionPolar
	}
	if rec.points > 0 {
		f.End = rec.begin + rec.step*float64(rec.points-1)
	} else {
		f.End = rec.begin
	}
	if math.IsNaN(f.End) {
		f.End = f.Begin
	}
	d.nextData++
	d.dataRefs.register(f.Index, DataRef{Kind: OwnerFunction, Owner: name})
	d.functions = append(d.functions, f)
}

// promoteMultisheets turns every spreadsheet with "@N" column names into a
// workbook. It runs once, after the primary scan.
func (d *decoder) promoteMultisheets() {
	for i := 0; i < len(d.spreads); {
		if d.spreads[i].multisheet {
			d.promoteToWorkbook(i)
			continue
		}
		i++
	}
}

// promoteToWorkbook moves the columns of spreadsheet i into the sheets of a
// new workbook and removes the spreadsheet. Column k@N goes to sheet N-1
// under the name k.
func (d *decoder) promoteToWorkbook(i int) {
	s := d.spreads[i]
	wb := &Workbook{Window: s.Window, Loose: s.Loose, MaxRows: s.MaxRows}
	cols := s.Columns
	s.Columns = nil
	for _, col := range cols {
		name, sheet := sheetOf(col.Name)
		if sheet >= maxSheets {
			d.report(StructuralLimitExceeded, 0, wb.Name,
				"column %q names sheet %d, filed under sheet 1 (limit %d)", col.Name, sheet+1, maxSheets)
			sheet = 0
		}
		for len(wb.Sheets) <= sheet {
			wb.Sheets = append(wb.Sheets, &Sheet{})
		}
		col.Name = name
		wb.Sheets[sheet].Columns = append(wb.Sheets[sheet].Columns, col)
		d.dataRefs.register(col.Index, DataRef{Kind: OwnerWorkbook, Owner: wb.Name, Column: name})
	}
	d.spreads = append(d.spreads[:i], d.spreads[i+1:]...)
	d.workbooks = append(d.workbooks, wb)
}
