package opj

import "fmt"

// readOldWindows recovers column types for old-dialect projects. These
// files have no self-describing window list; each spreadsheet's column
// table sits at a version-specific distance from the end of the primary
// records, found by looking for the 'O' of an "ORIGIN" marker.
func (d *decoder) readOldWindows(scanEnd int) {
	layout, ok := oldLayouts[d.version.Normalized]
	if !ok {
		layout = oldLayouts[700]
	}
	pos := scanEnd - oldScanBackoff
	for i := range d.spreads {
		if i > 0 {
			pos += layout.spreadJump + len(d.spreads[i-1].Columns)*layout.colJump
		}

		b := d.cur.at(pos)
		c := b.u8(layout.originMarker)
		for jump := 0; c != 'O' && jump < maxOriginJumps && b.err == nil; jump++ {
			pos += oldOriginStep
			b = d.cur.at(pos)
			c = b.u8(layout.originMarker)
		}
		if b.err != nil {
			d.reportErr(&SectionError{Entity: d.spreads[i].Name, Offset: pos, Err: b.err}, "")
			return
		}
		if c != 'O' {
			d.report(StructuralLimitExceeded, pos, d.spreads[i].Name,
				"no window marker after %d steps", maxOriginJumps)
			return
		}

		name := d.cname(b.raw(oldSpreadName, winNameLen))
		s := d.spreadsheetByName(name)
		if s == nil {
			s = d.spreads[i]
		}
		s.Loose = false
		for j, col := range s.Columns {
			t := d.cur.at(pos + layout.typeTable + j*layout.colJump)
			stored := d.cname(t.raw(0, winNameLen))
			kind := t.u8(-1)
			if t.err != nil {
				d.reportErr(&SectionError{Entity: s.Name + "_" + col.Name, Offset: t.base, Err: t.err}, "")
				return
			}
			if !prefixMatch(stored, col.Name) && d.verbosity > 0 {
				fmt.Fprintf(d.logfile, "%s: column %d is %q in the window table\n", col.Name, j, stored)
			}
			col.Type = columnTypeFromByte(kind)
		}
		if d.verbosity > 0 {
			fmt.Fprintf(d.logfile, "spreadsheet %q window at 0x%X\n", s.Name, pos)
		}
	}
}
