package opj

import (
	"fmt"
	"io"
	"sort"
)

func recordKind(rec *rawRecord) string {
	if _, _, ok := splitColumnName(rec.name); ok {
		return "column"
	}
	switch {
	case isMatrixSignature(rec.signature):
		return "matrix"
	case rec.signature == sigFunction:
		return "function"
	}
	return fmt.Sprintf("unknown(0x%04X)", rec.signature)
}

// walkPrimary calls fn for every primary record of data.
func walkPrimary(data []byte, fn func(*rawRecord)) error {
	d := newDecoder(data, &Options{})
	v, err := ResolveVersion(data)
	if err != nil {
		return err
	}
	d.version = v
	s, err := d.newScanner()
	if err != nil {
		return err
	}
	for s.more() {
		rec, err := s.next()
		if err != nil {
			return err
		}
		fn(rec)
		if err := s.advance(rec); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes one line per primary record of a project for debugging.
//
// data: The project file contents.
// outfile: An open file, to which the dump is written.
// unnumbered: If true, omit offsets (for meaningful diffs).
func Dump(data []byte, outfile io.Writer, unnumbered bool) error {
	return walkPrimary(data, func(rec *rawRecord) {
		if !unnumbered {
			fmt.Fprintf(outfile, "%08X ", rec.offset)
		}
		fmt.Fprintf(outfile, "%-9s %-25q sig=%04X type=%04X vsize=%-3d nbytes=%d\n",
			recordKind(rec), rec.name, rec.signature, rec.dataType, rec.valueSize, rec.nbytes)
	})
}

// CountRecords summarises the project's primary records.
// It produces a sorted list of (record kind, count).
func CountRecords(data []byte, outfile io.Writer) error {
	counts := make(map[string]int)
	err := walkPrimary(data, func(rec *rawRecord) {
		counts[recordKind(rec)]++
	})
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(outfile, "%8d %s\n", counts[k], k)
	}
	return err
}
