package opj

import "fmt"

// Dialect selects one of the two incompatible binary layouts used by
// project files. Versions up to 7.0 SR3 are written in the old dialect;
// 7.5 introduced the new one.
type Dialect int

const (
	DialectOld Dialect = iota
	DialectNew
)

func (d Dialect) String() string {
	if d == DialectNew {
		return "new"
	}
	return "old"
}

var versionTextFromNum = map[int]string{
	410: "4.1",
	500: "5.0",
	600: "6.0",
	601: "6.0 SR1",
	604: "6.0 SR4",
	610: "6.1",
	700: "7.0",
	703: "7.0 SR3",
	750: "7.5",
}

// VersionTextFromNum returns a text representation of a normalized version number.
func VersionTextFromNum(num int) string {
	if text, ok := versionTextFromNum[num]; ok {
		return text
	}
	return fmt.Sprintf("Unknown(%d)", num)
}

// versionRange maps a run of raw header codes onto one normalized version.
type versionRange struct {
	lo, hi     int
	normalized int
}

var versionRanges = []versionRange{
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

// Header layout
const (
	versionOffset  = 7
	versionDigits  = 4
	headerSkip     = 0x16
	maxHeaderLine  = 0x400
	firstBlockSkip = 5
)

// Primary record layout. Offsets are relative to the first header byte.
const (
	colFoundMax       = 0x84
	recFunctionKind   = 0x0A
	recSignature      = 0x12
	recDataType       = 0x16
	recPoints         = 0x21
	recBegin          = 0x25
	recStep           = 0x2D
	recValueSize      = 0x3D
	recUnsigned       = 0x3F
	recName           = 0x58
	recNameLen        = 25
	maxOldHeaderScan  = 0x100
	unsignedFlag      = 8
	polarFunctionKind = 0x1194
	textNumericFlag   = 0x100
	garbageMarker     = 0x0E
)

// Matrix and function signatures found in the primary record header.
const (
	sigMatrix1  = 0x50CA
	sigMatrix2  = 0x70CA
	sigMatrix3  = 0x50F2
	sigMatrix4  = 0x50E2
	sigFunction = 0x10C8
)

// Matrix cell storage types.
const (
	matrixDouble = 0x6001
	matrixFloat  = 0x6003
	matrixInt32  = 0x6801
	matrixInt16  = 0x6803
	matrixInt8   = 0x6821
)

func isMatrixSignature(sig uint16) bool {
	switch sig {
	case sigMatrix1, sigMatrix2, sigMatrix3, sigMatrix4:
		return true
	}
	return false
}

// Window header layout (new dialect). Offsets are relative to the first
// header byte, which sits 5 bytes after the window size field.
const (
	winName       = 0x02
	winNameLen    = 25
	winRect       = 0x1B
	winGraphSize  = 0x23
	winState      = 0x32
	winTitle      = 0x69
	winCreated    = 0x73
	winModified   = 0x7B
	winMatrixView = 0x87
	winLabel      = 0xC3
)

// Blocks and records inside a window body.
const (
	layerBlockSize   = 0x12D
	sectionName      = 0x46
	sectionNameLen   = 41
	layerInfoStorage = "__LayerInfoStorage"
	recordSize       = 0x1E7
	axisBreakSize    = 0x2D
	fillerRecordSize = 0x1ED
	columnNameLen    = 12
	namePrefixLen    = 11
)

// Column record fields.
const (
	colType   = 0x11
	colName   = 0x12
	colFormat = 0x1E
	colWidth  = 0x4A
)

// Matrix layer block and format record fields.
const (
	matrixCols   = 0x2B
	matrixRows   = 0x52
	matrixWidth  = 0x2B
	matrixFormat = 0x1E
)

// Structural limits for every loop whose trip count comes from the input.
const (
	maxWindows       = 1 << 12
	maxSections      = 1 << 10
	maxRecords       = 1 << 16
	maxSheets        = 1 << 10
	maxLayers        = 1 << 8
	maxAxisBreaks    = 1 << 4
	maxParameters    = 1 << 12
	maxNotes         = 1 << 12
	maxOriginJumps   = 20
	defaultTreeDepth = 64
)

// Old dialect layout. The first spreadsheet's column-type table is located
// relative to the end of the primary scan; later ones are a fixed distance
// apart plus a per-column stride.
type oldLayout struct {
	spreadJump   int
	colJump      int
	typeTable    int
	originMarker int
}

const (
	oldScanBackoff = 11
	oldOriginStep  = 0x1F2
	oldSpreadName  = 0x12
)

var oldLayouts = map[int]oldLayout{
	410: {spreadJump: 0x7FB, colJump: 0x58, typeTable: 0x229, originMarker: 0x55},
	500: {spreadJump: 0x92C, colJump: 0x5D, typeTable: 0x300, originMarker: 0x58},
	600: {spreadJump: 0x2560, colJump: 0x1ED, typeTable: 0x314, originMarker: 0x55},
	601: {spreadJump: 0x2560, colJump: 0x1ED, typeTable: 0x500, originMarker: 0x55},
	604: {spreadJump: 0x25A0, colJump: 0x1ED, typeTable: 0x354, originMarker: 0x55},
	610: {spreadJump: 0x25A4, colJump: 0x1ED, typeTable: 0x358, originMarker: 0x55},
	700: {spreadJump: 0x2530, colJump: 0x1ED, typeTable: 0x2E4, originMarker: 0x55},
	703: {spreadJump: 0x2530, colJump: 0x1ED, typeTable: 0x2E4, originMarker: 0x55},
}
