package opj

import (
	"bytes"
	"testing"

	"github.com/yamitzky/opj-go/opj/opjtest"
)

func graphProject(curves ...opjtest.Curve) []byte {
	layer := opjtest.Layer{
		XAxis: opjtest.AxisRange{Min: 0, Max: 10, Step: 2, Major: 5, Minor: 1, Scale: 1},
		YAxis: opjtest.AxisRange{Min: -1, Max: 1, Step: 0.5, Scale: 20},
		Rect:  [4]int16{50, 40, 350, 260},
		Labels: []opjtest.Label{
			{Section: "XB", Text: "Time (s)", FontSize: 22, Rotation: 900},
			{Section: "YL", Text: "Signal", Color: 1},
			{Section: "Legend", Text: `\l(1) B`},
			{Section: "Text1", Text: "note here"},
		},
		Lines:     []opjtest.Line{{Begin: [2]float64{1, 2}, End: [2]float64{3, 4}, Style: 1, Width: 1000}},
		Bitmaps:   [][]byte{{0x28, 0, 0, 0, 1, 2, 3, 4}},
		Histogram: []float64{0.5, 0, 10},
		Curves:    curves,
		Breaks:    []opjtest.AxisBreak{{Axis: 2, From: 3, To: 4, Position: 50}},
	}
	layer.XParts[1] = []opjtest.Poke{
		opjtest.U8(0x26, 1), opjtest.U8(0x0F, 2), opjtest.U8(0x12, 1), opjtest.U16(0x15, 1500),
	}
	layer.XParts[2] = []opjtest.Poke{
		opjtest.U8(0x25, 0x01), opjtest.I16(0x23, 2), opjtest.U8(0x26, 1),
		opjtest.I16(0x15, 14), opjtest.I16(0x13, 450), opjtest.U8(0x1A, 0x08),
	}
	layer.XParts[3] = []opjtest.Poke{
		opjtest.U8(0x26, 1), opjtest.U8(0x25, 0x52), opjtest.F64(0x2F, 5.5), opjtest.I16(0x4A, 50),
	}
	layer.YParts[2] = []opjtest.Poke{opjtest.U8(0x25, 0x90), opjtest.U8(0x26, 0x42)}
	layer.YParts[4] = []opjtest.Poke{opjtest.U8(0x25, 0x03), opjtest.U8(0x26, 0x41)}

	return opjtest.New("2766").
		NumericColumn("Data1", "A", 1, 2, 3).
		NumericColumn("Data1", "B", 4, 5, 6).
		SpreadsheetWindow(opjtest.Window{Name: "Data1"},
			opjtest.ColumnFormat{Name: "A", Type: opjtest.TypeX},
			opjtest.ColumnFormat{Name: "B", Type: opjtest.TypeY},
		).
		GraphWindow(opjtest.Graph{
			Window: opjtest.Window{Name: "Graph1"},
			Width:  400,
			Height: 300,
			Layers: []opjtest.Layer{layer, {Rect: [4]int16{1, 2, 3, 4}}},
		}).Bytes()
}

func TestGraphLayout(t *testing.T) {
	doc, status := decode(t, graphProject())
	expectStatus(t, doc, status, StatusSuccess)
	g, err := doc.GraphByName("Graph1")
	if err != nil {
		t.Fatal(err)
	}
	if g.Width != 400 || g.Height != 300 || len(g.Layers) != 2 {
		t.Fatalf("graph %dx%d with %d layers", g.Width, g.Height, len(g.Layers))
	}
	if g.ObjectID != 1 {
		t.Errorf("ObjectID = %d, expected 1", g.ObjectID)
	}
	l := g.Layers[0]

	if l.Rect != (Rect{50, 40, 350, 260}) || g.Layers[1].Rect != (Rect{1, 2, 3, 4}) {
		t.Errorf("layer rects %+v %+v", l.Rect, g.Layers[1].Rect)
	}
	x, y := l.XAxis, l.YAxis
	if x.Min != 0 || x.Max != 10 || x.Step != 2 || x.MajorTicks != 5 || x.MinorTicks != 1 || x.Scale != ScaleLog10 {
		t.Errorf("X axis = %+v", x)
	}
	if y.Min != -1 || y.Max != 1 || y.Step != 0.5 || y.Scale != ScaleLinear {
		t.Errorf("Y axis = %+v", y)
	}
}

func TestGraphTruncatedLayer(t *testing.T) {
	data := graphProject()
	// cut inside the second layer, just after its rectangle
	rect := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	at := bytes.LastIndex(data, rect)
	if at < 0 {
		t.Fatal("second layer not found")
	}
	doc, status := decode(t, data[:at+len(rect)])
	expectStatus(t, doc, status, StatusPartial)
	if countDiags(doc, TruncatedInput) != 1 {
		t.Errorf("expected a TruncatedInput diagnostic, got %v", doc.Diagnostics())
	}

	g, err := doc.GraphByName("Graph1")
	if err != nil {
		t.Fatal(err)
	}
	if !g.Truncated || len(g.Layers) != 1 {
		t.Errorf("truncated=%v with %d layers, expected true with 1", g.Truncated, len(g.Layers))
	}
	if ref, ok := doc.ResolveObject(g.ObjectID); !ok || ref.Kind != ObjectGraph {
		t.Errorf("ResolveObject(%d) = %+v, %v", g.ObjectID, ref, ok)
	}

	doc, _ = decode(t, graphProject())
	if g, _ := doc.GraphByName("Graph1"); g == nil || g.Truncated {
		t.Errorf("complete graph = %+v", g)
	}
}

func TestGraphAnnotations(t *testing.T) {
	doc, status := decode(t, graphProject())
	expectStatus(t, doc, status, StatusSuccess)
	l := doc.Graphs()[0].Layers[0]

	xb := l.XAxis.Labels[0]
	if xb.Text != "Time (s)" || xb.FontSize != 22 || xb.Rotation != 90 {
		t.Errorf("XB label = %+v", xb)
	}
	if yl := l.YAxis.Labels[0]; yl.Text != "Signal" || yl.Color != 1 {
		t.Errorf("YL label = %+v", yl)
	}
	if l.Legend.Text != `\l(1) B` {
		t.Errorf("legend = %q", l.Legend.Text)
	}
	if len(l.Texts) != 1 || l.Texts[0].Text != "note here" {
		t.Errorf("texts = %+v", l.Texts)
	}

	if len(l.Lines) != 1 {
		t.Fatalf("%d lines", len(l.Lines))
	}
	line := l.Lines[0]
	if line.Begin.X != 1 || line.Begin.Y != 2 || line.End.X != 3 || line.End.Y != 4 || line.Width != 2 || line.Style != 1 {
		t.Errorf("line = %+v", line)
	}

	if len(l.Bitmaps) != 1 {
		t.Fatalf("%d bitmaps", len(l.Bitmaps))
	}
	bmp := l.Bitmaps[0].Data
	if len(bmp) != 22 || !bytes.HasPrefix(bmp, []byte("BM")) || bmp[2] != 22 || bmp[10] != 0x36 {
		t.Errorf("bitmap = % X", bmp)
	}
	if l.HistogramBin != 0.5 || l.HistogramBegin != 0 || l.HistogramEnd != 10 {
		t.Errorf("histogram %v %v %v", l.HistogramBin, l.HistogramBegin, l.HistogramEnd)
	}
}

func TestGraphAxes(t *testing.T) {
	doc, status := decode(t, graphProject())
	expectStatus(t, doc, status, StatusSuccess)
	l := doc.Graphs()[0].Layers[0]
	x, y := l.XAxis, l.YAxis

	br := l.XBreak
	if !br.Show || br.From != 3 || br.To != 4 || br.Position != 50 || br.ScaleBefore != 2 || br.MinorBefore != 1 {
		t.Errorf("X break = %+v", br)
	}
	if l.YBreak.Show {
		t.Error("Y break should not be shown")
	}

	if !x.MinorGrid.Hidden {
		t.Error("minor grid should be hidden")
	}
	if g := x.MajorGrid; g.Hidden || g.Color != 2 || g.Style != 1 || g.Width != 3 {
		t.Errorf("major grid = %+v", g)
	}

	tick := x.Ticks[0]
	if tick.Hidden || tick.ValueType != TickText || tick.ColumnName != "B" || tick.DataName != "T_Data1" {
		t.Errorf("bottom ticks = %+v", tick)
	}
	if tick.FontSize != 14 || tick.Rotation != 45 || !tick.Bold {
		t.Errorf("bottom tick font = %+v", tick)
	}

	f := x.Formats[0]
	if f.Hidden || f.Position != AxisPositionValue || f.PositionValue != 5.5 {
		t.Errorf("bottom format = %+v", f)
	}
	if f.MinorTicksType != 1 || f.MajorTicksType != 1 || f.MajorTickLength != 5 {
		t.Errorf("bottom format ticks = %+v", f)
	}

	if lt := y.Ticks[0]; lt.ValueType != TickNumeric || lt.ValueTypeSpec != 1 || lt.DecimalPlaces != 2 {
		t.Errorf("left ticks = %+v", lt)
	}
	if rt := y.Ticks[1]; rt.ValueType != TickDate || rt.ValueTypeSpec != 1 {
		t.Errorf("right ticks = %+v", rt)
	}
}

func TestCurves(t *testing.T) {
	line := opjtest.Curve{Y: 2, X: 1, Type: 200, Pokes: []opjtest.Poke{
		opjtest.U8(0x16A, 3), opjtest.U16(0x15, 1000), opjtest.U8(0x136, 255), opjtest.U8(0x1C, 2),
	}}
	pie := opjtest.Curve{Y: 1, Type: 225, Pokes: []opjtest.Poke{
		opjtest.U8(0x92, 0x21), opjtest.I16(0xA0, 50), opjtest.U32(0xA6, 5),
	}}
	vector := opjtest.Curve{Y: 1, Type: 208, Pokes: []opjtest.Poke{
		opjtest.U8(0x5E, 0x65), opjtest.U8(0x18, 2), opjtest.U16(0x19, 0x1400),
		opjtest.U8(0x142, 4), opjtest.U16(0x6A, 500), opjtest.F32(0x56, 1.5),
	}}
	doc, status := decode(t, graphProject(line, pie, vector))
	expectStatus(t, doc, status, StatusSuccess)
	curves := doc.Graphs()[0].Layers[0].Curves
	if len(curves) != 3 {
		t.Fatalf("%d curves", len(curves))
	}

	c := curves[0]
	if c.Type != PlotLine || c.DataName != "T_Data1" || c.YColumn != "B" || c.XColumn != "A" {
		t.Errorf("line curve = %v %q %q %q", c.Type, c.DataName, c.YColumn, c.XColumn)
	}
	if c.LineColor != 3 || c.LineWidth != 2 || c.SymbolThickness != 1 || !c.FillArea {
		t.Errorf("line curve style = %+v", c)
	}

	p := curves[1].Pie
	if curves[1].Type != PlotPie || !p.FormatPercents || !p.Clockwise || p.FormatValues || p.Radius != 50 || p.DisplacedSections != 5 {
		t.Errorf("pie = %+v", p)
	}

	v := curves[2].Vector
	if curves[2].Type != PlotVector || curves[2].YColumn != "A" {
		t.Errorf("vector curve = %v %q", curves[2].Type, curves[2].YColumn)
	}
	if v.EndXColumn != "B" || v.ConstAngle != 90 || v.ConstMagnitude != 10 || v.Position != VectorHead {
		t.Errorf("vector = %+v", v)
	}
	if !v.ArrowClosed || v.Width != 1 || v.Multiplier != 1.5 {
		t.Errorf("vector arrow = %+v", v)
	}
}

func TestUnresolvedCurveData(t *testing.T) {
	doc, status := decode(t, graphProject(opjtest.Curve{Y: 50, Type: 201}))
	expectStatus(t, doc, status, StatusPartial)
	if countDiags(doc, UnresolvedReference) != 1 {
		t.Errorf("expected one UnresolvedReference, got %v", doc.Diagnostics())
	}
	curves := doc.Graphs()[0].Layers[0].Curves
	if len(curves) != 1 || curves[0].DataName != "" || curves[0].Type != PlotScatter {
		t.Errorf("curves = %+v", curves)
	}
	if len(doc.Graphs()[0].Layers) != 2 {
		t.Error("decoding should continue after an unresolved reference")
	}
}

func TestPlotTypeNames(t *testing.T) {
	tests := []struct {
		raw  byte
		want string
	}{
		{200, "Line"},
		{225, "Pie"},
		{218, "FlowVector"},
		{217, "Unknown"},
		{0, "Unknown"},
	}
	for _, test := range tests {
		if got := plotTypeFromByte(test.raw).String(); got != test.want {
			t.Errorf("plotTypeFromByte(%d) = %s, expected %s", test.raw, got, test.want)
		}
	}
}
