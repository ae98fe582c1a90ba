package opj

import "fmt"

// section is one element of a window's section chain:
//
//	[size]\n [header] \n [size1]\n [body1] \n [size2]\n [body2] (\n) [size3]\n [close] (\n)
//
// Offsets are absolute. The header carries the section name at 0x46.
type section struct {
	name   string
	header int
	size1  int
	body1  int
	size2  int
	body2  int
}

func (s *section) bodyBytes(d *decoder, which int) []byte {
	off, n := s.body1, s.size1
	if which == 2 {
		off, n = s.body2, s.size2
	}
	if n <= 0 || off+n > len(d.data) {
		return nil
	}
	return d.data[off : off+n]
}

// walkSections visits the section chain starting at layer until the
// __LayerInfoStorage section and returns the offset after it.
func (d *decoder) walkSections(layer int, entity string, visit func(*section)) (int, error) {
	for n := 0; n < maxSections; n++ {
		b0 := d.cur.at(layer)
		hsize := int(b0.i32(0))
		layer += 5
		sec := &section{header: layer}
		if hsize > sectionName {
			sec.name = d.cname(b0.raw(5+sectionName, min(sectionNameLen, hsize-sectionName)))
		}
		layer += hsize + 1

		b := d.cur.at(layer)
		sec.size1 = int(b.i32(0))
		layer += 5
		sec.body1 = layer
		layer += sec.size1 + 1

		b2 := d.cur.at(layer)
		sec.size2 = int(b2.i32(0))
		layer += 5
		sec.body2 = layer
		layer += sec.size2
		if sec.size2 > 0 {
			layer++
		}

		b3 := d.cur.at(layer)
		size3 := int(b3.i32(0))
		layer += 5 + size3
		if size3 > 0 {
			layer++
		}

		for _, e := range []error{b0.err, b.err, b2.err, b3.err} {
			if e != nil {
				return layer, &SectionError{Entity: entity, Offset: sec.header, Err: e}
			}
		}
		if hsize < 0 || sec.size1 < 0 || sec.size2 < 0 || size3 < 0 || layer > len(d.data) {
			return layer, &SectionError{Entity: entity, Offset: sec.header, Err: truncatedAt(sec.header, layer-sec.header)}
		}
		if d.verbosity >= 3 {
			fmt.Fprintf(d.logfile, "  section %q at 0x%X size1=%d size2=%d\n", sec.name, sec.header, sec.size1, sec.size2)
		}
		visit(sec)
		if sec.name == layerInfoStorage {
			return layer, nil
		}
	}
	return layer, &SectionError{Entity: entity, Offset: layer,
		Err: fmt.Errorf("no %s section after %d sections", layerInfoStorage, maxSections)}
}

// walkRecords visits consecutive fixed-size (0x1E7) records starting at
// layer. Each record is followed by a comment block. It returns the offset
// of the first size field that is not 0x1E7.
func (d *decoder) walkRecords(layer int, entity string, visit func(rec *block, comment string)) (int, error) {
	for n := 0; n < maxRecords; n++ {
		head := d.cur.at(layer)
		size := head.i32(0)
		if head.err != nil {
			return layer, &SectionError{Entity: entity, Offset: layer, Err: head.err}
		}
		if size != recordSize {
			return layer, nil
		}
		layer += 5
		rec := d.cur.at(layer)
		layer += recordSize + 1

		tail := d.cur.at(layer)
		commentSize := int(tail.i32(0))
		layer += 5
		comment := ""
		if commentSize > 0 {
			comment = d.cname(tail.raw(5, commentSize))
			layer += commentSize + 1
		}
		if tail.err != nil {
			return layer, &SectionError{Entity: entity, Offset: layer, Err: tail.err}
		}
		if commentSize < 0 {
			return layer, &SectionError{Entity: entity, Offset: layer, Err: fmt.Errorf("negative comment size %d", commentSize)}
		}
		visit(rec, comment)
		if rec.err != nil {
			return layer, &SectionError{Entity: entity, Offset: rec.base, Err: rec.err}
		}
	}
	return layer, &SectionError{Entity: entity, Offset: layer,
		Err: fmt.Errorf("more than %d records", maxRecords)}
}
