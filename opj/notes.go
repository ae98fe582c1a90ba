package opj

import "fmt"

const (
	noteHeaderSize  = 0x40
	noteCreated     = 0x20
	noteLabelLength = 0x3C
	resultsLogName  = "ResultsLog"
	paramsSkip      = 1 + 5
	treeSkip        = 1 + 4*5 + 0x10 + 1
)

// readParameters reads the project variables, "name\n" followed by a double
// and a newline each, up to a zero byte. It returns the offset of the
// notes list.
func (d *decoder) readParameters(start int) (int, bool) {
	c := d.cur
	if err := c.seek(start); err != nil {
		d.reportErr(&SectionError{Entity: "parameters", Offset: start, Err: err}, "")
		return start, false
	}
	for n := 0; ; n++ {
		first := c.pos()
		b, err := c.u8()
		if err != nil {
			d.reportErr(&SectionError{Entity: "parameters", Offset: first, Err: err}, "")
			return first, false
		}
		if b == 0 {
			break
		}
		if n >= maxParameters {
			d.report(StructuralLimitExceeded, first, "parameters", "more than %d parameters", maxParameters)
			return first, false
		}
		c.seek(first)
		if !c.scanTo('\n', c.remaining()) {
			d.reportErr(&SectionError{Entity: "parameters", Offset: first, Err: truncatedAt(first, c.remaining())}, "")
			return first, false
		}
		name := d.text(d.data[first : c.pos()-1])
		v, err := c.f64()
		if err == nil {
			err = c.skip(1)
		}
		if err != nil {
			d.reportErr(&SectionError{Entity: name, Offset: c.pos(), Err: err}, "")
			return c.pos(), false
		}
		d.params = append(d.params, Parameter{Name: name, Value: v})
	}
	if err := c.skip(paramsSkip); err != nil {
		d.reportErr(&SectionError{Entity: "parameters", Offset: c.pos(), Err: err}, "")
		return c.pos(), false
	}
	return c.pos(), true
}

// readNotes reads the notes list. A note named ResultsLog holds the
// project's results log and ends the list; otherwise the list ends at the
// first block whose size is not 0x40. It returns the offset of the
// project tree.
func (d *decoder) readNotes(start int) (int, bool) {
	c := d.cur
	if err := c.seek(start); err != nil {
		d.reportErr(&SectionError{Entity: "notes", Offset: start, Err: err}, "")
		return start, false
	}
	fail := func(entity string, err error) (int, bool) {
		d.reportErr(&SectionError{Entity: entity, Offset: c.pos(), Err: err}, "")
		return c.pos(), false
	}
	for n := 0; ; n++ {
		blockStart := c.pos()
		size, err := c.i32()
		if err != nil {
			return fail("notes", err)
		}
		if size != noteHeaderSize {
			break
		}
		if n >= maxNotes {
			d.report(StructuralLimitExceeded, blockStart, "notes", "more than %d notes", maxNotes)
			return blockStart, false
		}
		h := c.at(blockStart + 5)
		created := h.f64(noteCreated)
		modified := h.f64(noteCreated + 8)
		labelLen := int(h.u8(noteLabelLength))
		if h.err != nil {
			return fail("notes", h.err)
		}
		if err := c.seek(blockStart + 5 + noteHeaderSize + 1); err != nil {
			return fail("notes", err)
		}
		name, err := d.sizedText(c)
		if err == nil {
			err = c.skip(1)
		}
		if err != nil {
			return fail("notes", err)
		}

		if name == resultsLogName {
			text, err := d.sizedText(c)
			if err != nil {
				return fail(name, err)
			}
			d.resultsLog = text
			if err := c.skip(treeSkip); err != nil {
				return fail(name, err)
			}
			return c.pos(), true
		}

		note := &Note{Window: Window{Name: name}}
		note.Created = d.timestamp(created, name)
		note.Modified = d.timestamp(modified, name)
		size2, err := c.size()
		if err != nil {
			return fail(name, err)
		}
		if labelLen > 1 {
			raw, err := c.bytes(labelLen - 1)
			if err == nil {
				err = c.skip(1)
			}
			if err != nil {
				return fail(name, err)
			}
			note.Label = d.cname(raw)
		}
		textLen := size2 - labelLen
		if textLen < 0 {
			return fail(name, fmt.Errorf("note text size %d shorter than its label", size2))
		}
		raw, err := c.bytes(textLen)
		if err == nil {
			err = c.skip(1)
		}
		if err != nil {
			return fail(name, err)
		}
		note.Text = d.cname(raw)
		note.ObjectID = d.nextObject
		d.nextObject++
		d.objectRefs.register(note.ObjectID, ObjectRef{Kind: ObjectNote, Name: note.Name})
		d.notes = append(d.notes, note)
	}
	if err := c.skip(treeSkip); err != nil {
		return fail("notes", err)
	}
	return c.pos(), true
}

// sizedText reads "[size]\n[bytes]".
func (d *decoder) sizedText(c *cursor) (string, error) {
	n, err := c.size()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("negative text size %d", n)
	}
	raw, err := c.bytes(n)
	if err != nil {
		return "", err
	}
	return d.cname(raw), nil
}
