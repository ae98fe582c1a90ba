package opj

import (
	"bytes"
	"fmt"
	"strings"
)

// readWindows reads the window list that follows the primary records in
// new-dialect files and returns the offset after its terminating zero
// size. ok is false when the list could not be read to its end.
func (d *decoder) readWindows(start int) (end int, ok bool) {
	pos := start
	for n := 0; n < maxWindows; n++ {
		b := d.cur.at(pos)
		headerSize := int(b.i32(0))
		if b.err != nil {
			d.reportErr(&SectionError{Entity: "window list", Offset: pos, Err: b.err}, "")
			return pos, false
		}
		if headerSize == 0 {
			return pos + 5, true
		}
		if headerSize < 0 {
			d.reportErr(&SectionError{Entity: "window list", Offset: pos, Err: fmt.Errorf("negative header size %d", headerSize)}, "")
			return pos, false
		}
		name := d.cname(b.raw(5+winName, winNameLen))
		if b.err != nil {
			d.reportErr(&SectionError{Entity: "window list", Offset: pos, Err: b.err}, "")
			return pos, false
		}

		var next int
		var err error
		if s := d.spreadsheetByName(name); s != nil {
			next, err = d.readSpreadsheetWindow(s, pos, headerSize)
		} else if m := d.matrixByName(name); m != nil {
			next, err = d.readMatrixWindow(m, pos, headerSize)
		} else if wb := d.workbookByName(name); wb != nil {
			next, err = d.readWorkbookWindow(wb, pos, headerSize)
		} else {
			next, err = d.readGraphWindow(name, pos, headerSize)
		}
		if err != nil {
			d.reportErr(err, name)
			return next, false
		}
		if d.verbosity > 0 {
			fmt.Fprintf(d.logfile, "window %q at 0x%X, next at 0x%X\n", name, pos, next)
		}
		pos = next
	}
	d.report(StructuralLimitExceeded, pos, "window list", "more than %d windows", maxWindows)
	return pos, false
}

func (d *decoder) matrixByName(name string) *Matrix {
	for _, m := range d.matrices {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

func (d *decoder) workbookByName(name string) *Workbook {
	for _, w := range d.workbooks {
		if strings.EqualFold(w.Name, name) {
			return w
		}
	}
	return nil
}

func readRect(b *block, off int) Rect {
	return Rect{
		Left:   int(b.i16(off)),
		Top:    int(b.i16(off + 2)),
		Right:  int(b.i16(off + 4)),
		Bottom: int(b.i16(off + 6)),
	}
}

// readWindowProperties reads the fields every window header has and gives
// the window the next object id.
func (d *decoder) readWindowProperties(w *Window, head, headerSize int, kind ObjectKind) error {
	b := d.cur.at(head)
	w.Rect = readRect(b, winRect)
	state := b.u8(winState)
	title := b.u8(winTitle)
	created := b.f64(winCreated)
	modified := b.f64(winModified)
	var label []byte
	if headerSize > winLabel {
		label = b.raw(winLabel, headerSize-winLabel)
	}
	if b.err != nil {
		return &SectionError{Entity: w.Name, Offset: head, Err: b.err}
	}

	switch {
	case state&0x01 != 0:
		w.State = StateMinimized
	case state&0x02 != 0:
		w.State = StateMaximized
	default:
		w.State = StateNormal
	}
	switch {
	case title&0x01 != 0:
		w.Title = TitleLabel
	case title&0x02 != 0:
		w.Title = TitleName
	default:
		w.Title = TitleBoth
	}
	w.Hidden = title&0x08 != 0
	w.Created = d.timestamp(created, w.Name)
	w.Modified = d.timestamp(modified, w.Name)

	// the label runs up to an '@'
	if i := bytes.IndexByte(label, '@'); i >= 0 {
		w.Label = d.text(label[:i])
	} else {
		w.Label = d.cname(label)
	}

	w.ObjectID = d.nextObject
	d.nextObject++
	d.objectRefs.register(w.ObjectID, ObjectRef{Kind: kind, Name: w.Name})
	return nil
}

func (d *decoder) readSpreadsheetWindow(s *Spreadsheet, pos, headerSize int) (int, error) {
	head := pos + 5
	if err := d.readWindowProperties(&s.Window, head, headerSize, ObjectSpreadsheet); err != nil {
		return pos, err
	}
	s.Loose = false

	layer := head + headerSize + 1
	layer += 5 + layerBlockSize + 1
	layer, err := d.readColumnSections(layer, s.Name, s.Columns)
	if err != nil {
		return layer, err
	}
	layer += 5
	layer, err = d.readColumnRecords(layer, s.Name, s.Columns)
	if err != nil {
		return layer, err
	}
	return layer + 5*6 + fillerRecordSize*0x12, nil
}

func (d *decoder) readWorkbookWindow(wb *Workbook, pos, headerSize int) (int, error) {
	head := pos + 5
	if err := d.readWindowProperties(&wb.Window, head, headerSize, ObjectWorkbook); err != nil {
		return pos, err
	}
	wb.Loose = false

	layer := head + headerSize + 1
	for sheet := 0; sheet < maxSheets; sheet++ {
		var cols []*Column
		if sheet < len(wb.Sheets) {
			cols = wb.Sheets[sheet].Columns
		}
		entity := fmt.Sprintf("%s sheet %d", wb.Name, sheet+1)
		var err error
		layer += 5 + layerBlockSize + 1
		if layer, err = d.readColumnSections(layer, entity, cols); err != nil {
			return layer, err
		}
		layer += 5
		if layer, err = d.readColumnRecords(layer, entity, cols); err != nil {
			return layer, err
		}
		layer += 5*5 + fillerRecordSize*0x12

		b := d.cur.at(layer)
		size := b.i32(0)
		if b.err != nil {
			return layer, &SectionError{Entity: entity, Offset: layer, Err: b.err}
		}
		if size == 0 {
			return layer + 5, nil
		}
	}
	return layer, &SectionError{Entity: wb.Name, Offset: layer, Err: fmt.Errorf("more than %d sheets", maxSheets)}
}

func (d *decoder) readColumnSections(layer int, entity string, cols []*Column) (int, error) {
	return d.walkSections(layer, entity, func(sec *section) {
		if sec.name == "" || sec.size1 <= 0 {
			return
		}
		if col := columnByPrefix(cols, sec.name); col != nil {
			col.Command = d.cname(sec.bodyBytes(d, 1))
		}
	})
}

func (d *decoder) readColumnRecords(layer int, entity string, cols []*Column) (int, error) {
	return d.walkRecords(layer, entity, func(rec *block, comment string) {
		name := d.cname(rec.raw(colName, columnNameLen))
		col := columnByPrefix(cols, name)
		if col == nil {
			if d.verbosity > 0 {
				fmt.Fprintf(d.logfile, "%s: no column matches record %q\n", entity, name)
			}
			return
		}
		col.Type = columnTypeFromByte(rec.u8(colType))
		col.Width = displayWidth(int(rec.i16(colWidth)) / 10)
		f := decodeValueFormat(rec.u8(colFormat), rec.u8(colFormat+1))
		col.ValueType = f.valueType
		col.ValueTypeSpec = f.spec
		col.SignificantDigits = f.significantDigits
		col.DecimalPlaces = f.decimalPlaces
		col.NumericDisplay = f.display
		col.Comment = comment
	})
}

func displayWidth(w int) int {
	if w == 0 {
		return 8
	}
	return w
}

type valueFormat struct {
	valueType         ValueType
	spec              int
	significantDigits int
	decimalPlaces     int
	display           NumericDisplay
}

// decodeValueFormat decodes the two format bytes of a column record.
func decodeValueFormat(c1, c2 byte) valueFormat {
	var f valueFormat
	switch c1 {
	case 0x00, 0x09, 0x10, 0x19, 0x20, 0x29, 0x30, 0x39:
		f.valueType = ValueNumeric
		if c1%0x10 == 0x09 {
			f.valueType = ValueTextNumeric
		}
		f.spec = int(c1 / 0x10)
		f.applyDigits(c2)
	case 0x02:
		f.valueType = ValueTime
		f.spec = int(c2) - 0x80
	case 0x03:
		f.valueType = ValueDate
		f.spec = int(c2) - 0x80
	case 0x31:
		f.valueType = ValueText
	case 0x04, 0x34:
		f.valueType = ValueMonth
		f.spec = int(c2)
	case 0x05, 0x35:
		f.valueType = ValueDay
		f.spec = int(c2)
	default:
		f.valueType = ValueText
	}
	return f
}

func (f *valueFormat) applyDigits(c2 byte) {
	switch {
	case c2 >= 0x80:
		f.significantDigits = int(c2) - 0x80
		f.display = DisplaySignificantDigits
	case c2 > 0:
		f.decimalPlaces = int(c2) - 0x03
		f.display = DisplayDecimalPlaces
	}
}

func (d *decoder) readMatrixWindow(m *Matrix, pos, headerSize int) (int, error) {
	head := pos + 5
	if err := d.readWindowProperties(&m.Window, head, headerSize, ObjectMatrix); err != nil {
		return pos, err
	}
	switch view := d.cur.at(head).u8(winMatrixView); view {
	case 1:
		m.View = MatrixImageView
	case 2:
		m.Header = HeaderXY
	}

	layer := head + headerSize + 1
	layer += 5
	b := d.cur.at(layer)
	m.Cols = int(b.i16(matrixCols))
	m.Rows = int(b.i16(matrixRows))
	if b.err != nil {
		return layer, &SectionError{Entity: m.Name, Offset: layer, Err: b.err}
	}
	if m.Rows*m.Cols != len(m.Data) && d.verbosity > 0 {
		fmt.Fprintf(d.logfile, "matrix %s: %dx%d but %d values\n", m.Name, m.Rows, m.Cols, len(m.Data))
	}
	layer += layerBlockSize + 1

	layer, err := d.walkSections(layer, m.Name, func(sec *section) {
		switch sec.name {
		case "MV":
			m.Command = d.cname(sec.bodyBytes(d, 1))
		case "Y2":
			if sec.size2 < 32 {
				return
			}
			c := d.cur.at(sec.body2)
			m.XBegin = c.f64(0)
			m.XEnd = c.f64(8)
			m.YBegin = c.f64(16)
			m.YEnd = c.f64(24)
		}
	})
	if err != nil {
		return layer, err
	}
	layer += 5
	layer, err = d.walkRecords(layer, m.Name, func(rec *block, _ string) {
		m.Width = displayWidth((int(rec.i16(matrixWidth)) - 55) / 10)
		var f valueFormat
		f.spec = int(rec.u8(matrixFormat) / 0x10)
		f.applyDigits(rec.u8(matrixFormat + 1))
		m.ValueTypeSpec = f.spec
		m.SignificantDigits = f.significantDigits
		m.DecimalPlaces = f.decimalPlaces
		m.NumericDisplay = f.display
	})
	if err != nil {
		return layer, err
	}
	layer += 5*5 + fillerRecordSize*0x12
	return layer + 5, nil
}
