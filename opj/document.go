package opj

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding"
)

// ClampPolicy holds the substitutes used when declared sizes are unusable.
// A zero field selects the default.
type ClampPolicy struct {
	// DefaultValueSize replaces a record value size of zero or less. Default 10.
	DefaultValueSize int
	// MatrixThreshold is the cell count above which a matrix is clamped.
	// Default 10000; negative disables clamping.
	MatrixThreshold int
	// MatrixRetain is the number of cells kept from a clamped matrix. Default 1000.
	MatrixRetain int
}

func (p ClampPolicy) withDefaults() ClampPolicy {
	if p.DefaultValueSize <= 0 {
		p.DefaultValueSize = 10
	}
	if p.MatrixThreshold == 0 {
		p.MatrixThreshold = 10000
	}
	if p.MatrixRetain <= 0 {
		p.MatrixRetain = 1000
	}
	return p
}

// Options contains options for decoding a project.
type Options struct {
	// Logfile is an open file to which trace messages are written.
	Logfile io.Writer

	// Verbosity increases the volume of trace material written to the logfile.
	Verbosity int

	// Logger receives every diagnostic as a structured record. Nil discards them.
	Logger *slog.Logger

	// Filename is used in messages and returned by Document.Filename.
	Filename string

	// EncodingOverride names the codepage of 8-bit strings, e.g. "windows-1251".
	// The default is Windows-1252.
	EncodingOverride string

	Clamp ClampPolicy

	// MaxTreeDepth bounds project tree recursion. Default 64.
	MaxTreeDepth int
}

// Document is a decoded project. It is immutable once returned.
type Document struct {
	filename   string
	version    VersionInfo
	spreads    []*Spreadsheet
	matrices   []*Matrix
	workbooks  []*Workbook
	functions  []*Function
	graphs     []*Graph
	notes      []*Note
	params     []Parameter
	resultsLog string
	tree       *TreeNode
	diags      []Diagnostic
	dataRefs   map[DataIndex]DataRef
	objectRefs map[ObjectID]ObjectRef
}

// decoder owns all mutable state of one decode: arenas, counters and
// resolvers. Nothing is shared between decodes.
type decoder struct {
	data      []byte
	cur       *cursor
	enc       *encoding.Decoder
	clamp     ClampPolicy
	maxDepth  int
	logfile   io.Writer
	verbosity int
	logger    *slog.Logger
	filename  string

	version VersionInfo

	spreads    []*Spreadsheet
	matrices   []*Matrix
	workbooks  []*Workbook
	functions  []*Function
	graphs     []*Graph
	notes      []*Note
	params     []Parameter
	resultsLog string
	tree       *TreeNode

	nextData   DataIndex
	nextObject ObjectID
	dataRefs   *dataIndexResolver
	objectRefs *objectIndexResolver

	diags []Diagnostic
	fatal bool
}

func newDecoder(data []byte, options *Options) *decoder {
	if options == nil {
		options = &Options{
			Logfile: os.Stdout,
		}
	}
	d := &decoder{
		data:       data,
		cur:        newCursor(data),
		clamp:      options.Clamp.withDefaults(),
		maxDepth:   options.MaxTreeDepth,
		logfile:    options.Logfile,
		verbosity:  options.Verbosity,
		logger:     options.Logger,
		filename:   options.Filename,
		dataRefs:   newDataIndexResolver(),
		objectRefs: newObjectIndexResolver(),
	}
	if d.maxDepth <= 0 {
		d.maxDepth = defaultTreeDepth
	}
	if d.logfile == nil {
		d.logfile = io.Discard
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	enc, err := lookupEncoding(options.EncodingOverride)
	if err != nil {
		d.fatal = true
		d.report(UnknownVersion, 0, d.filename, "%v", err)
		enc = defaultEncoding
	}
	d.enc = enc.NewDecoder()
	return d
}

// Decode decodes a complete project held in memory. It never panics on
// malformed input: problems are recorded as diagnostics and whatever was
// decoded before them is returned. The document is never nil; after a
// fatal decode it holds only the diagnostics.
func Decode(data []byte, options *Options) (*Document, ParseStatus) {
	d := newDecoder(data, options)
	d.run()
	return d.document(), d.status()
}

// OpenFile reads, decompresses if needed, and decodes the project at path.
// The error is non-nil only for I/O and decompression failures.
func OpenFile(path string, options *Options) (*Document, ParseStatus, error) {
	data, err := Load(path)
	if err != nil {
		return nil, StatusFatal, err
	}
	opts := Options{Logfile: os.Stdout}
	if options != nil {
		opts = *options
	}
	if opts.Filename == "" {
		opts.Filename = path
	}
	doc, status := Decode(data, &opts)
	return doc, status, nil
}

func (d *decoder) run() {
	if d.fatal {
		return
	}
	v, err := ResolveVersion(d.data)
	if err != nil {
		d.fatal = true
		d.report(UnknownVersion, 0, d.filename, "%v", err)
		return
	}
	d.version = v
	if !v.Known {
		d.report(UnknownVersion, versionOffset, d.filename,
			"unknown version code %d, reading as %s", v.Raw, VersionTextFromNum(v.Normalized))
	}
	if d.verbosity > 0 {
		d.logger.Debug("project version", slog.Int("raw", v.Raw), slog.Int("version", v.Normalized))
	}

	end, err := d.scanPrimary()
	if err != nil {
		if errors.Is(err, errNoScanStart) {
			d.fatal = true
		}
		d.reportErr(err, "")
		d.promoteMultisheets()
		return
	}
	d.promoteMultisheets()

	if v.Dialect == DialectOld {
		d.readOldWindows(end)
		return
	}
	end, ok := d.readWindows(end)
	if !ok {
		return
	}
	end, ok = d.readParameters(end)
	if !ok {
		return
	}
	end, ok = d.readNotes(end)
	if !ok {
		return
	}
	d.readProjectTree(end)
}

func (d *decoder) document() *Document {
	doc := &Document{
		filename:   d.filename,
		version:    d.version,
		spreads:    d.spreads,
		matrices:   d.matrices,
		workbooks:  d.workbooks,
		functions:  d.functions,
		graphs:     d.graphs,
		notes:      d.notes,
		params:     d.params,
		resultsLog: d.resultsLog,
		tree:       d.tree,
		diags:      d.diags,
		dataRefs:   d.dataRefs.refs,
		objectRefs: d.objectRefs.refs,
	}
	return doc
}

// Filename returns the name the document was opened from, if any.
func (doc *Document) Filename() string { return doc.filename }

// Version returns the header version.
func (doc *Document) Version() VersionInfo { return doc.version }

// VersionFloat returns the version as a number, e.g. 7.5.
func (doc *Document) VersionFloat() float64 { return doc.version.Float() }

// ResultsLog returns the project's results log text.
func (doc *Document) ResultsLog() string { return doc.resultsLog }

// Parameters returns the project variables.
func (doc *Document) Parameters() []Parameter { return doc.params }

// Diagnostics returns every problem found while decoding, in order.
func (doc *Document) Diagnostics() []Diagnostic { return doc.diags }

// Tree returns the root folder of the project explorer, or nil for
// projects that have none.
func (doc *Document) Tree() *TreeNode { return doc.tree }

// ResolveData returns the owner of a data index.
func (doc *Document) ResolveData(idx DataIndex) (DataRef, bool) {
	ref, ok := doc.dataRefs[idx]
	return ref, ok
}

// ResolveObject returns the window an object id names.
func (doc *Document) ResolveObject(id ObjectID) (ObjectRef, bool) {
	ref, ok := doc.objectRefs[id]
	return ref, ok
}

// Spreadsheets returns all spreadsheets in file order.
func (doc *Document) Spreadsheets() []*Spreadsheet { return doc.spreads }

// SpreadsheetByIndex returns the i-th spreadsheet.
func (doc *Document) SpreadsheetByIndex(i int) (*Spreadsheet, error) {
	if i < 0 || i >= len(doc.spreads) {
		return nil, NewOPJError("spreadsheet index %d out of range", i)
	}
	return doc.spreads[i], nil
}

// SpreadsheetByName returns the spreadsheet called name, ignoring case.
func (doc *Document) SpreadsheetByName(name string) (*Spreadsheet, error) {
	for _, s := range doc.spreads {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return nil, NewOPJError("No spreadsheet named <%s>", name)
}

// Matrices returns all matrices in file order.
func (doc *Document) Matrices() []*Matrix { return doc.matrices }

// MatrixByIndex returns the i-th matrix.
func (doc *Document) MatrixByIndex(i int) (*Matrix, error) {
	if i < 0 || i >= len(doc.matrices) {
		return nil, NewOPJError("matrix index %d out of range", i)
	}
	return doc.matrices[i], nil
}

// MatrixByName returns the matrix called name, ignoring case.
func (doc *Document) MatrixByName(name string) (*Matrix, error) {
	for _, m := range doc.matrices {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return nil, NewOPJError("No matrix named <%s>", name)
}

// Workbooks returns all multi-sheet workbooks.
func (doc *Document) Workbooks() []*Workbook { return doc.workbooks }

// WorkbookByIndex returns the i-th workbook.
func (doc *Document) WorkbookByIndex(i int) (*Workbook, error) {
	if i < 0 || i >= len(doc.workbooks) {
		return nil, NewOPJError("workbook index %d out of range", i)
	}
	return doc.workbooks[i], nil
}

// WorkbookByName returns the workbook called name, ignoring case.
func (doc *Document) WorkbookByName(name string) (*Workbook, error) {
	for _, w := range doc.workbooks {
		if strings.EqualFold(w.Name, name) {
			return w, nil
		}
	}
	return nil, NewOPJError("No workbook named <%s>", name)
}

// Functions returns all functions in file order.
func (doc *Document) Functions() []*Function { return doc.functions }

// FunctionByIndex returns the i-th function.
func (doc *Document) FunctionByIndex(i int) (*Function, error) {
	if i < 0 || i >= len(doc.functions) {
		return nil, NewOPJError("function index %d out of range", i)
	}
	return doc.functions[i], nil
}

// FunctionByName returns the function called name, ignoring case.
func (doc *Document) FunctionByName(name string) (*Function, error) {
	for _, f := range doc.functions {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return nil, NewOPJError("No function named <%s>", name)
}

// Graphs returns all graphs in file order.
func (doc *Document) Graphs() []*Graph { return doc.graphs }

// GraphByIndex returns the i-th graph.
func (doc *Document) GraphByIndex(i int) (*Graph, error) {
	if i < 0 || i >= len(doc.graphs) {
		return nil, NewOPJError("graph index %d out of range", i)
	}
	return doc.graphs[i], nil
}

// GraphByName returns the graph called name, ignoring case.
func (doc *Document) GraphByName(name string) (*Graph, error) {
	for _, g := range doc.graphs {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}
	return nil, NewOPJError("No graph named <%s>", name)
}

// Notes returns all notes in file order.
func (doc *Document) Notes() []*Note { return doc.notes }

// NoteByIndex returns the i-th note.
func (doc *Document) NoteByIndex(i int) (*Note, error) {
	if i < 0 || i >= len(doc.notes) {
		return nil, NewOPJError("note index %d out of range", i)
	}
	return doc.notes[i], nil
}

// NoteByName returns the note called name, ignoring case.
func (doc *Document) NoteByName(name string) (*Note, error) {
	for _, n := range doc.notes {
		if strings.EqualFold(n.Name, name) {
			return n, nil
		}
	}
	return nil, NewOPJError("No note named <%s>", name)
}
