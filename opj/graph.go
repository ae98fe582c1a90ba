package opj

// Graph is a graph window made of one or more layers.
type Graph struct {
	Window

	Width  int
	Height int
	Layers []*Layer

	// Truncated is set when a layer could not be decoded. Layers then
	// holds the layers before it.
	Truncated bool
}

// Layer is one set of axes with its curves and annotations.
type Layer struct {
	Rect Rect

	XAxis Axis
	YAxis Axis

	XBreak AxisBreak
	YBreak AxisBreak

	Legend  TextBox
	Texts   []TextBox
	Lines   []Line
	Bitmaps []Bitmap
	Curves  []*Curve

	HistogramBin   float64
	HistogramBegin float64
	HistogramEnd   float64
}

// Scale is an axis scale type.
type Scale int

const (
	ScaleLinear Scale = iota
	ScaleLog10
	ScaleProbability
	ScaleProbit
	ScaleReciprocal
	ScaleOffsetReciprocal
	ScaleLogit
	ScaleLn
	ScaleLog2
)

// AxisPosition places an axis line.
type AxisPosition int

const (
	AxisPositionNone AxisPosition = iota
	AxisPositionPercent
	AxisPositionValue
)

// Axis describes one axis of a layer. Index 0 of Label, Ticks and Formats
// is the bottom or left side, index 1 the top or right side.
type Axis struct {
	Min, Max, Step float64
	MajorTicks     int
	MinorTicks     int
	Scale          Scale

	Labels    [2]TextBox
	MinorGrid Grid
	MajorGrid Grid
	Ticks     [2]AxisTick
	Formats   [2]AxisFormat
}

// AxisBreak is a discontinuity in an axis.
type AxisBreak struct {
	Show        bool
	Log10       bool
	From, To    float64
	Position    float64
	ScaleBefore float64
	ScaleAfter  float64
	MinorBefore int
	MinorAfter  int
}

// Grid is the grid drawn along major or minor ticks.
type Grid struct {
	Hidden bool
	Color  int
	Style  int
	Width  float64
}

// AxisFormat is the line and tick style of one side of an axis.
type AxisFormat struct {
	Hidden          bool
	Color           int
	Thickness       float64
	MajorTickLength float64
	MajorTicksType  int
	MinorTicksType  int
	Position        AxisPosition
	PositionValue   float64
}

// TickLabelType is what axis tick labels show.
type TickLabelType int

const (
	TickNumeric TickLabelType = iota
	TickText
	TickTime
	TickDate
	TickMonth
	TickDay
	TickColumnHeading
	TickIndexedDataset
	TickCategorical
)

// AxisTick is the tick-label style of one side of an axis.
type AxisTick struct {
	Hidden        bool
	Color         int
	ValueType     TickLabelType
	ValueTypeSpec int
	DecimalPlaces int
	FontSize      int
	Bold          bool
	Rotation      int
	// DataName and ColumnName are set when tick labels come from a column.
	DataName   string
	ColumnName string
}

// Attach says what an annotation's coordinates are relative to.
type Attach int

const (
	AttachFrame Attach = iota
	AttachPage
	AttachScale
)

// BorderType is the frame drawn around a text annotation.
type BorderType int

const (
	BorderBlackLine BorderType = iota
	BorderShadow
	BorderDarkMarble
	BorderWhiteOut
	BorderBlackOut
	BorderNone BorderType = -1
)

func borderFromByte(b byte) BorderType {
	if b >= 0x80 {
		return BorderNone
	}
	return BorderType(b)
}

// TextBox is a text annotation, axis label or legend.
type TextBox struct {
	Text     string
	Rect     Rect
	Color    int
	FontSize int
	Rotation int
	Tab      int
	Border   BorderType
	Attach   Attach
}

// LineEnd is one end of a line annotation.
type LineEnd struct {
	X, Y      float64
	ShapeType int
	Width     float64
	Length    float64
}

// Line is a line or arrow annotation.
type Line struct {
	Rect   Rect
	Color  int
	Attach Attach
	Width  float64
	Style  int
	Begin  LineEnd
	End    LineEnd
}

// Bitmap is an embedded picture. Data is a complete BMP file.
type Bitmap struct {
	Rect   Rect
	Attach Attach
	Left   float64
	Top    float64
	Width  float64
	Height float64
	Data   []byte
}

// PlotType is the kind of a curve.
type PlotType int

const (
	PlotLine            PlotType = 200
	PlotScatter         PlotType = 201
	PlotLineSymbol      PlotType = 202
	PlotColumn          PlotType = 203
	PlotArea            PlotType = 204
	PlotHiLoClose       PlotType = 205
	PlotBox             PlotType = 206
	PlotColumnFloat     PlotType = 207
	PlotVector          PlotType = 208
	PlotDot             PlotType = 209
	PlotWall3D          PlotType = 210
	PlotRibbon3D        PlotType = 211
	PlotBar3D           PlotType = 212
	PlotColumnStack     PlotType = 213
	PlotAreaStack       PlotType = 214
	PlotBar             PlotType = 215
	PlotBarStack        PlotType = 216
	PlotFlowVector      PlotType = 218
	PlotHistogram       PlotType = 219
	PlotMatrixImage     PlotType = 220
	PlotPie             PlotType = 225
	PlotContour         PlotType = 226
	PlotUnknown         PlotType = 230
	PlotErrorBar        PlotType = 231
	PlotSurfaceColorMap PlotType = 236
	PlotXErrorBar       PlotType = 237
	PlotXYErrorBar      PlotType = 238
)

var plotTypeNames = map[PlotType]string{
	PlotLine:            "Line",
	PlotScatter:         "Scatter",
	PlotLineSymbol:      "LineSymbol",
	PlotColumn:          "Column",
	PlotArea:            "Area",
	PlotHiLoClose:       "HiLoClose",
	PlotBox:             "Box",
	PlotColumnFloat:     "ColumnFloat",
	PlotVector:          "Vector",
	PlotDot:             "PlotDot",
	PlotWall3D:          "Wall3D",
	PlotRibbon3D:        "Ribbon3D",
	PlotBar3D:           "Bar3D",
	PlotColumnStack:     "ColumnStack",
	PlotAreaStack:       "AreaStack",
	PlotBar:             "Bar",
	PlotBarStack:        "BarStack",
	PlotFlowVector:      "FlowVector",
	PlotHistogram:       "Histogram",
	PlotMatrixImage:     "MatrixImage",
	PlotPie:             "Pie",
	PlotContour:         "Contour",
	PlotUnknown:         "Unknown",
	PlotErrorBar:        "ErrorBar",
	PlotSurfaceColorMap: "SurfaceColorMap",
	PlotXErrorBar:       "XErrorBar",
	PlotXYErrorBar:      "XYErrorBar",
}

func (t PlotType) String() string {
	if s, ok := plotTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

func plotTypeFromByte(b byte) PlotType {
	t := PlotType(b)
	if _, ok := plotTypeNames[t]; ok {
		return t
	}
	return PlotUnknown
}

// VectorPosition is where a vector is anchored on its data point.
type VectorPosition int

const (
	VectorTail VectorPosition = iota
	VectorMidpoint
	VectorHead
)

// VectorProperties are the extra settings of vector curves.
type VectorProperties struct {
	Color       int
	Width       float64
	ArrowLength int
	ArrowAngle  int
	ArrowClosed bool
	Multiplier  float64
	Position    VectorPosition

	// Each of these either names a column or holds a constant.
	EndXColumn      string
	EndYColumn      string
	AngleColumn     string
	MagnitudeColumn string
	ConstAngle      int
	ConstMagnitude  int
}

// PieProperties are the extra settings of pie curves.
type PieProperties struct {
	ViewAngle        int
	Thickness        int
	Clockwise        bool
	Rotation         int
	Radius           int
	HorizontalOffset int
	// DisplacedSections has one bit per displaced wedge.
	DisplacedSections uint32
	Displacement      int

	FormatAutomatic   bool
	FormatValues      bool
	FormatPercents    bool
	FormatCategories  bool
	PositionAssociate bool
	Distance          int
}

// Curve is one data plot of a layer. DataName is the owner-prefixed name of
// the Y data, e.g. "T_Data1" for a spreadsheet or "F_Func1" for a function.
type Curve struct {
	Type     PlotType
	RawType  int
	DataName string
	XColumn  string
	YColumn  string

	LineColor   int
	LineStyle   int
	LineConnect int
	LineWidth   float64

	FillArea             bool
	FillAreaType         int
	FillAreaColor        int
	FillAreaFirstColor   int
	FillAreaPattern      int
	FillAreaPatternColor int
	FillAreaPatternWidth float64
	FillAreaBorderStyle  int
	FillAreaBorderColor  int
	FillAreaBorderWidth  float64

	SymbolType      int
	SymbolColor     int
	SymbolFillColor int
	SymbolSize      float64
	SymbolThickness int
	PointOffset     int

	Vector VectorProperties
	Pie    PieProperties
}
