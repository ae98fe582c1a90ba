package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/yamitzky/opj-go/opj"
)

type quotingMode int

const (
	quotingNone quotingMode = iota
	quotingMinimal
	quotingNonNumeric
	quotingAll
)

// datOptions are the flags of the default command.
type datOptions struct {
	delimiter      string
	lineTerminator string
	quotingName    string
	noHeader       bool
	formatted      bool
	workbooks      bool
	outdir         string
	stdout         bool

	delim   rune
	lineSep string
	quoting quotingMode
}

type csvWriter struct {
	w              io.Writer
	delimiter      rune
	lineTerminator string
	quoting        quotingMode
}

type field struct {
	text      string
	isNumeric bool
}

func (o *datOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.delimiter, "delimiter", "d", "space", `field delimiter: a character, xHH, or one of tab, space, comma, semi, pipe`)
	f.StringVarP(&o.lineTerminator, "lineterminator", "l", "", `line terminator, escapes allowed (default "\n", "\r\n" on windows)`)
	f.StringVarP(&o.quotingName, "quoting", "q", "minimal", "quoting: none, minimal, nonnumeric or all")
	f.BoolVar(&o.noHeader, "no-header", false, "omit the column name row")
	f.BoolVarP(&o.formatted, "formatted", "f", false, "format values the way each column displays them")
	f.BoolVarP(&o.workbooks, "workbooks", "w", false, "also write the sheets of workbooks")
	f.StringVarP(&o.outdir, "outdir", "o", "", "directory for the .dat files (default: next to the input)")
	f.BoolVar(&o.stdout, "stdout", false, "write all tables to stdout instead of files")
}

// resolve fills unset flags from cfg and parses the textual values.
func (o *datOptions) resolve(cmd *cobra.Command, cfg config) error {
	flags := cmd.Flags()
	if !flags.Changed("delimiter") && cfg.Delimiter != "" {
		o.delimiter = cfg.Delimiter
	}
	if !flags.Changed("lineterminator") && cfg.LineTerminator != "" {
		o.lineTerminator = cfg.LineTerminator
	}
	if !flags.Changed("quoting") && cfg.Quoting != "" {
		o.quotingName = cfg.Quoting
	}
	if !flags.Changed("no-header") && cfg.Header != nil {
		o.noHeader = !*cfg.Header
	}
	if !flags.Changed("formatted") && cfg.Formatted {
		o.formatted = true
	}
	if !flags.Changed("workbooks") && cfg.Workbooks {
		o.workbooks = true
	}
	if !flags.Changed("outdir") && cfg.Outdir != "" {
		o.outdir = cfg.Outdir
	}

	var err error
	if o.delim, err = parseDelimiter(o.delimiter); err != nil {
		return usagef("invalid delimiter: %v", err)
	}
	o.lineSep = osLineSep()
	if o.lineTerminator != "" {
		if o.lineSep, err = parseEscapedString(o.lineTerminator); err != nil {
			return usagef("invalid line terminator: %v", err)
		}
	}
	if o.quoting, err = parseQuoting(o.quotingName); err != nil {
		return usageError{err}
	}
	return nil
}

// table is one sheet of columns to be written.
type table struct {
	suffix  string
	columns []*opj.Column
}

func collectTables(doc *opj.Document, withWorkbooks bool) []table {
	var tables []table
	for i, s := range doc.Spreadsheets() {
		tables = append(tables, table{suffix: strconv.Itoa(i + 1), columns: s.Columns})
	}
	if !withWorkbooks {
		return tables
	}
	for i, wb := range doc.Workbooks() {
		for k, sheet := range wb.Sheets {
			tables = append(tables, table{
				suffix:  fmt.Sprintf("w%d.%d", i+1, k+1),
				columns: sheet.Columns,
			})
		}
	}
	return tables
}

func runDat(cmd *cobra.Command, g *globals, o *datOptions, args []string) error {
	stdout := cmd.OutOrStdout()
	for _, path := range args {
		doc, err := g.open(cmd, path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		tables := collectTables(doc, o.workbooks)
		if len(tables) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "opj2dat: %s: no spreadsheets\n", path)
			continue
		}
		if path == "-" || o.stdout {
			if err := writeTables(stdout, tables, o); err != nil {
				return err
			}
			continue
		}
		base := path
		if o.outdir != "" {
			if err := os.MkdirAll(o.outdir, 0o755); err != nil {
				return err
			}
			base = filepath.Join(o.outdir, sanitizeFilename(filepath.Base(path)))
		}
		for _, t := range tables {
			name := base + "." + t.suffix + ".dat"
			if err := writeTableToFile(name, t, o); err != nil {
				return err
			}
			fmt.Fprintln(stdout, name)
		}
	}
	return nil
}

func writeTableToFile(path string, t table, o *datOptions) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(file)
	if err := writeTable(writer, t, o); err != nil {
		file.Close()
		return err
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// writeTables writes several tables to one stream, separated by an empty line.
func writeTables(w io.Writer, tables []table, o *datOptions) error {
	writer := bufio.NewWriter(w)
	for i, t := range tables {
		if i > 0 {
			if _, err := writer.WriteString(o.lineSep); err != nil {
				return err
			}
		}
		if err := writeTable(writer, t, o); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func writeTable(w io.Writer, t table, o *datOptions) error {
	cw := &csvWriter{w: w, delimiter: o.delim, lineTerminator: o.lineSep, quoting: o.quoting}
	if !o.noHeader {
		fields := make([]field, len(t.columns))
		for i, c := range t.columns {
			fields[i] = field{text: c.Name}
		}
		if err := cw.writeRow(fields); err != nil {
			return err
		}
	}
	rows := 0
	for _, c := range t.columns {
		if c.NumRows() > rows {
			rows = c.NumRows()
		}
	}
	fields := make([]field, len(t.columns))
	for r := 0; r < rows; r++ {
		for i, c := range t.columns {
			fields[i] = formatCell(c, r, o.formatted)
		}
		if err := cw.writeRow(fields); err != nil {
			return err
		}
	}
	return nil
}

// formatCell renders row r of column c. Rows past the end of a short
// column and unset cells are empty fields.
func formatCell(c *opj.Column, r int, formatted bool) field {
	cell, ok := c.Cell(r)
	if !ok {
		return field{}
	}
	if formatted {
		return field{text: c.Display(r), isNumeric: !cell.IsText()}
	}
	return field{text: cell.Display(), isNumeric: !cell.IsText()}
}

// writeRow writes one delimited line with a single Write call.
func (cw *csvWriter) writeRow(fields []field) error {
	var line bytes.Buffer
	for i := range fields {
		if i > 0 {
			line.WriteRune(cw.delimiter)
		}
		if cw.needsQuote(fields[i]) {
			line.WriteByte('"')
			line.WriteString(strings.ReplaceAll(fields[i].text, `"`, `""`))
			line.WriteByte('"')
		} else {
			line.WriteString(fields[i].text)
		}
	}
	line.WriteString(cw.lineTerminator)
	_, err := line.WriteTo(cw.w)
	return err
}

func (cw *csvWriter) needsQuote(f field) bool {
	switch cw.quoting {
	case quotingAll:
		return true
	case quotingNonNumeric:
		return !f.isNumeric
	case quotingMinimal:
		return strings.ContainsRune(f.text, cw.delimiter) || strings.ContainsAny(f.text, "\"\r\n")
	default:
		return false
	}
}

// namedDelimiters are the spellings accepted for characters that are
// awkward to pass on a command line.
var namedDelimiters = map[string]rune{
	"tab":   '\t',
	"space": ' ',
	"comma": ',',
	"semi":  ';',
	"pipe":  '|',
}

func parseDelimiter(value string) (rune, error) {
	if value == "" {
		return 0, fmt.Errorf("delimiter cannot be empty")
	}
	if r, ok := namedDelimiters[strings.ToLower(value)]; ok {
		return r, nil
	}
	if len(value) == 3 && value[0] == 'x' {
		code, err := strconv.ParseUint(value[1:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("bad hex delimiter %q: %w", value, err)
		}
		return rune(code), nil
	}
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError && size == 1 {
		// not UTF-8; take the raw byte
		return rune(value[0]), nil
	}
	return r, nil
}

var escapes = map[byte]byte{'n': '\n', 'r': '\r', 't': '\t', '\\': '\\'}

// parseEscapedString expands the backslash escapes \n, \r, \t and \\.
func parseEscapedString(value string) (string, error) {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\\' {
			i++
			if i == len(value) {
				return "", fmt.Errorf("dangling escape")
			}
			e, ok := escapes[value[i]]
			if !ok {
				return "", fmt.Errorf("unknown escape \\%c", value[i])
			}
			c = e
		}
		out = append(out, c)
	}
	return string(out), nil
}

var quotingModes = map[string]quotingMode{
	"none":       quotingNone,
	"minimal":    quotingMinimal,
	"nonnumeric": quotingNonNumeric,
	"all":        quotingAll,
}

func parseQuoting(value string) (quotingMode, error) {
	if q, ok := quotingModes[strings.ToLower(value)]; ok {
		return q, nil
	}
	return quotingMinimal, fmt.Errorf("unsupported quoting: %s", value)
}

func osLineSep() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

func sanitizeFilename(name string) string {
	invalid := strings.NewReplacer(string(os.PathSeparator), "_", "/", "_", "\\", "_")
	clean := strings.TrimSpace(invalid.Replace(name))
	if clean == "" {
		return "project"
	}
	return clean
}
