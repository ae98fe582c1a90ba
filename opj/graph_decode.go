package opj

import (
	"encoding/binary"
	"fmt"
)

// Layer block fields, relative to the block start.
const (
	layerXMin   = 0x0F
	layerXMajor = 0x2B
	layerXMinor = 0x37
	layerXScale = 0x38
	layerYMin   = 0x3A
	layerYMajor = 0x56
	layerYMinor = 0x62
	layerYScale = 0x63
	layerRect   = 0x71
)

// Annotation section sizes.
const (
	textSectionSize   = 0x3E
	lineSectionSize   = 0x78
	bitmapSectionSize = 0x28
	bmpHeaderSize     = 14
	bmpDataOffset     = 0x36
)

func (d *decoder) readGraphWindow(name string, pos, headerSize int) (int, error) {
	g := &Graph{Window: Window{Name: name}}
	head := pos + 5
	if err := d.readWindowProperties(&g.Window, head, headerSize, ObjectGraph); err != nil {
		return pos, err
	}
	b := d.cur.at(head)
	g.Width = int(b.u16(winGraphSize))
	g.Height = int(b.u16(winGraphSize + 2))

	next, err := d.readLayers(g, head+headerSize+1, name)
	g.Truncated = err != nil
	d.graphs = append(d.graphs, g)
	return next, err
}

// readLayers appends each layer of g once it is fully decoded and returns
// the offset after the layer list.
func (d *decoder) readLayers(g *Graph, layer int, name string) (int, error) {
	for n := 0; n < maxLayers; n++ {
		var err error
		l := &Layer{}
		layer += 5
		if err := d.readLayerBlock(l, layer, name); err != nil {
			return layer, err
		}
		layer += layerBlockSize + 1

		layer, err = d.walkSections(layer, name, func(sec *section) {
			d.readGraphSection(l, sec)
		})
		if err != nil {
			return layer, err
		}
		layer += 5
		layer, err = d.walkRecords(layer, name, func(rec *block, _ string) {
			l.Curves = append(l.Curves, d.readCurve(rec, name))
		})
		if err != nil {
			return layer, err
		}
		layer += 5
		if layer, err = d.readAxisBreaks(l, layer, name); err != nil {
			return layer, err
		}
		layer += 5
		if layer, err = d.readAxisParts(&l.XAxis, layer, name); err != nil {
			return layer, err
		}
		layer += 5
		if layer, err = d.readAxisParts(&l.YAxis, layer, name); err != nil {
			return layer, err
		}
		layer += 2*5 + fillerRecordSize*6
		g.Layers = append(g.Layers, l)

		next := d.cur.at(layer)
		size := next.i32(0)
		if next.err != nil {
			return layer, &SectionError{Entity: name, Offset: layer, Err: next.err}
		}
		if size == 0 {
			return layer + 5, nil
		}
	}
	return layer, &SectionError{Entity: name, Offset: layer, Err: fmt.Errorf("more than %d layers", maxLayers)}
}

func (d *decoder) readLayerBlock(l *Layer, layer int, graph string) error {
	b := d.cur.at(layer)
	l.XAxis.Min = b.f64(layerXMin)
	l.XAxis.Max = b.f64(layerXMin + 8)
	l.XAxis.Step = b.f64(layerXMin + 16)
	l.XAxis.MajorTicks = int(b.u8(layerXMajor))
	l.XAxis.MinorTicks = int(b.u8(layerXMinor))
	l.XAxis.Scale = scaleFromByte(b.u8(layerXScale))

	l.YAxis.Min = b.f64(layerYMin)
	l.YAxis.Max = b.f64(layerYMin + 8)
	l.YAxis.Step = b.f64(layerYMin + 16)
	l.YAxis.MajorTicks = int(b.u8(layerYMajor))
	l.YAxis.MinorTicks = int(b.u8(layerYMinor))
	l.YAxis.Scale = scaleFromByte(b.u8(layerYScale))

	l.Rect = readRect(b, layerRect)
	if b.err != nil {
		return &SectionError{Entity: graph, Offset: layer, Err: b.err}
	}
	return nil
}

func scaleFromByte(b byte) Scale {
	if b > byte(ScaleLog2) {
		return ScaleLinear
	}
	return Scale(b)
}

// readGraphSection decodes one annotation section of a layer. Sections
// are told apart by name (axis labels, legend, histogram) or else by the
// size of their first body.
func (d *decoder) readGraphSection(l *Layer, sec *section) {
	h := d.cur.at(sec.header)
	rect := readRect(h, 0x03)
	attach := Attach(h.u8(0x28))
	border := borderFromByte(h.u8(0x29))
	color := int(h.u8(0x33))

	b1 := d.cur.at(sec.body1)
	kind := b1.u8(0)
	box := TextBox{
		Text:     d.cname(sec.bodyBytes(d, 2)),
		Rect:     rect,
		Color:    color,
		FontSize: int(b1.u8(4)),
		Rotation: int(b1.i16(2)) / 10,
		Tab:      int(b1.u8(0x0A)),
		Border:   border,
		Attach:   attach,
	}

	switch {
	case sec.name == "XB":
		l.XAxis.Labels[0] = box
	case sec.name == "XT":
		l.XAxis.Labels[1] = box
	case sec.name == "YL":
		l.YAxis.Labels[0] = box
	case sec.name == "YR":
		l.YAxis.Labels[1] = box
	case sec.name == "Legend":
		l.Legend = box
	case sec.name == "__BCO2":
		if sec.size2 < 0x30 {
			return
		}
		b2 := d.cur.at(sec.body2)
		l.HistogramBin = b2.f64(0x10)
		l.HistogramEnd = b2.f64(0x20)
		l.HistogramBegin = b2.f64(0x28)
	case sec.size1 == textSectionSize:
		l.Texts = append(l.Texts, box)
	case sec.size1 == lineSectionSize && kind == 2:
		l.Lines = append(l.Lines, Line{
			Rect:   rect,
			Color:  color,
			Attach: attach,
			Style:  int(b1.u8(0x12)),
			Width:  float64(b1.u16(0x13)) / 500,
			Begin: LineEnd{
				X:         b1.f64(0x20),
				Y:         b1.f64(0x40),
				ShapeType: int(b1.u8(0x60)),
				Width:     float64(b1.u32(0x64)) / 500,
				Length:    float64(b1.u32(0x68)) / 500,
			},
			End: LineEnd{
				X:         b1.f64(0x28),
				Y:         b1.f64(0x48),
				ShapeType: int(b1.u8(0x6C)),
				Width:     float64(b1.u32(0x70)) / 500,
				Length:    float64(b1.u32(0x74)) / 500,
			},
		})
	case sec.size1 == bitmapSectionSize && kind == 4:
		l.Bitmaps = append(l.Bitmaps, Bitmap{
			Rect:   rect,
			Attach: attach,
			Width:  float64(b1.i16(1)),
			Height: float64(b1.i16(3)),
			Left:   b1.f64(0x13),
			Top:    b1.f64(0x1B),
			Data:   bmpFile(sec.bodyBytes(d, 2)),
		})
	}
}

// bmpFile prepends a BITMAPFILEHEADER to the stored DIB.
func bmpFile(dib []byte) []byte {
	out := make([]byte, bmpHeaderSize, bmpHeaderSize+len(dib))
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:], uint32(len(dib)+bmpHeaderSize))
	binary.LittleEndian.PutUint32(out[10:], bmpDataOffset)
	return append(out, dib...)
}

// resolveData resolves a stored data reference w, which is the data index
// plus one; zero means no reference.
func (d *decoder) resolveData(w int, offset int, entity string) (DataRef, bool) {
	if w <= 0 {
		return DataRef{}, false
	}
	ref, ok := d.dataRefs.resolve(DataIndex(w - 1))
	if !ok {
		d.report(UnresolvedReference, offset, entity, "data index %d is not a column, matrix or function", w-1)
	}
	return ref, ok
}

func (d *decoder) readCurve(rec *block, graph string) *Curve {
	c := &Curve{}
	w := int(rec.i16(0x04))
	if ref, ok := d.resolveData(w, rec.base+0x04, graph); ok {
		c.DataName = ref.DataName()
		c.YColumn = ref.Column
	}
	if ref, ok := d.resolveData(int(rec.i16(0x23)), rec.base+0x23, graph); ok {
		c.XColumn = ref.Column
	}

	t := rec.u8(0x4C)
	c.RawType = int(t)
	c.Type = plotTypeFromByte(t)

	c.LineConnect = int(rec.u8(0x11))
	c.LineStyle = int(rec.u8(0x12))
	c.LineWidth = float64(rec.u16(0x15)) / 500
	c.SymbolSize = float64(rec.u16(0x19)) / 500
	c.FillArea = rec.u8(0x1C) == 2
	c.FillAreaType = int(rec.u8(0x1E))

	switch c.Type {
	case PlotVector, PlotFlowVector:
		d.readVector(c, rec, w, graph)
	case PlotPie:
		readPie(&c.Pie, rec)
	}

	c.FillAreaColor = int(rec.u8(0xC2))
	c.FillAreaFirstColor = int(rec.u8(0xC3))
	c.FillAreaPatternWidth = float64(rec.u16(0xC6)) / 500
	c.FillAreaPatternColor = int(rec.u8(0xCA))
	c.FillAreaPattern = int(rec.u8(0xCE))
	c.FillAreaBorderStyle = int(rec.u8(0xCF))
	c.FillAreaBorderWidth = float64(rec.u16(0xD0)) / 500
	c.FillAreaBorderColor = int(rec.u8(0xD2))

	c.LineColor = int(rec.u8(0x16A))
	c.SymbolType = int(rec.u16(0x17))
	c.SymbolFillColor = int(rec.u8(0x12E))
	c.SymbolColor = int(rec.u8(0x132))
	c.Vector.Color = c.SymbolColor
	c.SymbolThickness = int(rec.u8(0x136))
	if c.SymbolThickness == 255 {
		c.SymbolThickness = 1
	}
	c.PointOffset = int(rec.u8(0x137))
	return c
}

// readVector reads the vector settings. Column references are stored as
// 0x64 plus the offset from the curve's Y column.
func (d *decoder) readVector(c *Curve, rec *block, w int, graph string) {
	v := &c.Vector
	column := func(h byte, off int) string {
		ref, ok := d.resolveData(w+int(h)-0x64, rec.base+off, graph)
		if !ok {
			return ""
		}
		return ref.Column
	}
	v.Multiplier = float64(rec.f32(0x56))
	if h := rec.u8(0x5E); h >= 0x64 {
		v.EndXColumn = column(h, 0x5E)
	}
	if h := rec.u8(0x62); h >= 0x64 {
		v.EndYColumn = column(h, 0x62)
	}
	if h := rec.u8(0x18); h >= 0x64 {
		v.AngleColumn = column(h, 0x18)
	} else if h <= 8 {
		v.ConstAngle = 45 * int(h)
	}
	if h := rec.u8(0x19); h >= 0x64 {
		v.MagnitudeColumn = column(h, 0x19)
	} else {
		v.ConstMagnitude = int(c.SymbolSize)
	}
	v.ArrowLength = int(rec.i16(0x66))
	v.ArrowAngle = int(rec.u8(0x68))
	v.ArrowClosed = rec.u8(0x69)&0x01 == 0
	v.Width = float64(rec.u16(0x6A)) / 500
	switch rec.u8(0x142) {
	case 2:
		v.Position = VectorMidpoint
	case 4:
		v.Position = VectorHead
	default:
		v.Position = VectorTail
	}
}

func readPie(p *PieProperties, rec *block) {
	h := rec.u8(0x92)
	p.FormatPercents = h&0x01 != 0
	p.FormatValues = h&0x02 != 0
	p.PositionAssociate = h&0x08 != 0
	p.Clockwise = h&0x20 != 0
	p.FormatCategories = h&0x80 != 0
	p.FormatAutomatic = rec.u8(0x93) != 0
	p.Distance = int(rec.i16(0x94))
	p.ViewAngle = int(rec.u8(0x96))
	p.Thickness = int(rec.u8(0x98))
	p.Rotation = int(rec.i16(0x9A))
	p.Displacement = int(rec.i16(0x9E))
	p.Radius = int(rec.i16(0xA0))
	p.HorizontalOffset = int(rec.i16(0xA2))
	p.DisplacedSections = rec.u32(0xA6)
}

// readAxisBreaks reads the axis-break records (size 0x2D) that follow the
// curves and returns the offset of the first other size field.
func (d *decoder) readAxisBreaks(l *Layer, layer int, graph string) (int, error) {
	for n := 0; ; n++ {
		head := d.cur.at(layer)
		size := head.i32(0)
		if head.err != nil {
			return layer, &SectionError{Entity: graph, Offset: layer, Err: head.err}
		}
		if size != axisBreakSize {
			return layer, nil
		}
		if n >= maxAxisBreaks {
			return layer, &SectionError{Entity: graph, Offset: layer, Err: fmt.Errorf("more than %d axis breaks", maxAxisBreaks)}
		}
		layer += 5
		b := d.cur.at(layer)
		var br *AxisBreak
		var ax *Axis
		switch b.u8(2) {
		case 2:
			br, ax = &l.XBreak, &l.XAxis
		case 4:
			br, ax = &l.YBreak, &l.YAxis
		}
		if br != nil {
			br.Show = true
			br.From = b.f64(0x0B)
			br.To = b.f64(0x13)
			br.ScaleAfter = b.f64(0x1B)
			br.Position = b.f64(0x23)
			br.Log10 = b.u8(0x2B) == 1
			br.MinorAfter = int(b.u8(0x2C))
			br.ScaleBefore = ax.Step
			br.MinorBefore = ax.MinorTicks
		}
		if b.err != nil {
			return layer, &SectionError{Entity: graph, Offset: layer, Err: b.err}
		}
		layer += axisBreakSize + 1
	}
}

// readAxisParts reads the six fixed sub-records of one axis: minor grid,
// major grid, then tick labels and format for each side.
func (d *decoder) readAxisParts(ax *Axis, layer int, graph string) (int, error) {
	parts := []func(*block){
		func(b *block) { readGrid(&ax.MinorGrid, b) },
		func(b *block) { readGrid(&ax.MajorGrid, b) },
		func(b *block) { d.readTicks(&ax.Ticks[0], b, graph) },
		func(b *block) { readAxisFormat(&ax.Formats[0], b) },
		func(b *block) { d.readTicks(&ax.Ticks[1], b, graph) },
		func(b *block) { readAxisFormat(&ax.Formats[1], b) },
	}
	for _, read := range parts {
		layer += 5
		b := d.cur.at(layer)
		read(b)
		if b.err != nil {
			return layer, &SectionError{Entity: graph, Offset: layer, Err: b.err}
		}
		layer += recordSize + 1
	}
	return layer, nil
}

func readGrid(g *Grid, b *block) {
	g.Hidden = b.u8(0x26) == 0
	g.Color = int(b.u8(0x0F))
	g.Style = int(b.u8(0x12))
	g.Width = float64(b.u16(0x15)) / 500
}

func readAxisFormat(f *AxisFormat, b *block) {
	f.Hidden = b.u8(0x26) == 0
	f.Color = int(b.u8(0x0F))
	f.MajorTickLength = float64(b.i16(0x4A)) / 10
	f.Thickness = float64(b.i16(0x15)) / 500
	h := b.u8(0x25)
	f.MinorTicksType = int(h >> 6)
	f.MajorTicksType = int((h >> 4) & 0x03)
	f.Position = AxisPosition(h & 0x0F)
	switch f.Position {
	case AxisPositionPercent:
		f.PositionValue = float64(b.u8(0x37))
	case AxisPositionValue:
		f.PositionValue = b.f64(0x2F)
	}
}

func (d *decoder) readTicks(t *AxisTick, b *block, graph string) {
	t.Hidden = b.u8(0x26) == 0
	t.Color = int(b.u8(0x0F))
	t.Rotation = int(b.i16(0x13)) / 10
	t.FontSize = int(b.i16(0x15))
	t.Bold = b.u8(0x1A)&0x08 != 0
	w := int(b.i16(0x23))
	h := b.u8(0x25)
	h1 := b.u8(0x26)

	t.ValueType = TickLabelType(h & 0x0F)
	switch t.ValueType {
	case TickNumeric:
		if h>>4 > 7 {
			t.ValueTypeSpec = int(h>>4) - 8
			t.DecimalPlaces = int(h1) - 0x40
		} else {
			t.ValueTypeSpec = int(h >> 4)
			t.DecimalPlaces = -1
		}
	case TickTime, TickDate, TickMonth, TickDay, TickColumnHeading:
		t.ValueTypeSpec = int(h1) - 0x40
	case TickText, TickIndexedDataset, TickCategorical:
		if ref, ok := d.resolveData(w, b.base+0x23, graph); ok {
			t.DataName = ref.DataName()
			t.ColumnName = ref.Column
		}
	default:
		t.ValueType = TickNumeric
	}
}
