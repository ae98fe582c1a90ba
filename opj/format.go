package opj

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// originPalette is the fixed colour table that colour indexes in curves,
// grids and annotations refer to.
var originPalette = [...][3]int{
	{0x00, 0x00, 0x00}, // black
	{0xFF, 0x00, 0x00}, // red
	{0x00, 0xFF, 0x00}, // green
	{0x00, 0x00, 0xFF}, // blue
	{0x00, 0xFF, 0xFF}, // cyan
	{0xFF, 0x00, 0xFF}, // magenta
	{0xFF, 0xFF, 0x00}, // yellow
	{0x80, 0x80, 0x00}, // dark yellow
	{0x00, 0x00, 0x80}, // navy
	{0x80, 0x00, 0x80}, // purple
	{0x80, 0x00, 0x00}, // wine
	{0x00, 0x80, 0x00}, // olive
	{0x00, 0x80, 0x80}, // dark cyan
	{0x00, 0x00, 0xA0}, // royal
	{0xFF, 0x80, 0x00}, // orange
	{0x80, 0x00, 0xFF}, // violet
	{0xFF, 0x00, 0x80}, // pink
	{0xFF, 0xFF, 0xFF}, // white
	{0xC0, 0xC0, 0xC0}, // light gray
	{0x80, 0x80, 0x80}, // gray
	{0xFF, 0xFF, 0x80}, // light yellow
	{0x80, 0xFF, 0xFF}, // light cyan
	{0xFF, 0x80, 0xFF}, // light magenta
	{0x40, 0x40, 0x40}, // dark gray
}

// ColorRGB returns the palette colour for a colour index.
func ColorRGB(index int) ([3]int, bool) {
	if index < 0 || index >= len(originPalette) {
		return [3]int{}, false
	}
	return originPalette[index], true
}

// ColorHex returns a colour index as "#RRGGBB", or "" when it is not in the palette.
func ColorHex(index int) string {
	rgb, ok := ColorRGB(index)
	if !ok {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2])
}

// Display formats cell i the way the column's value type asks for.
// Empty and missing cells are "".
func (c *Column) Display(i int) string {
	cell, ok := c.Cell(i)
	if !ok || cell.IsEmpty() {
		return ""
	}
	if cell.IsText() {
		return cell.Str
	}
	v := cell.Num
	switch c.ValueType {
	case ValueDate:
		t, err := JulianToTime(v)
		if err != nil {
			return cell.Display()
		}
		if v != math.Trunc(v) {
			return t.Format("2006-01-02 15:04:05")
		}
		return t.Format("2006-01-02")
	case ValueTime:
		_, frac := math.Modf(v)
		secs := int64(math.Floor(math.Abs(frac)*86400 + 0.5))
		return time.Unix(secs, 0).UTC().Format("15:04:05")
	case ValueMonth:
		if m := int(v); m >= 1 && m <= 12 {
			return shortOrLong(time.Month(m).String(), c.ValueTypeSpec)
		}
	case ValueDay:
		if wd := int(v); wd >= 1 && wd <= 7 {
			return shortOrLong(time.Weekday(wd-1).String(), c.ValueTypeSpec)
		}
	}
	return formatNumber(v, c.NumericDisplay, c.DecimalPlaces, c.SignificantDigits)
}

// shortOrLong abbreviates month and day names: spec 0 is three letters,
// 1 the full name, 2 the initial.
func shortOrLong(name string, spec int) string {
	switch spec {
	case 1:
		return name
	case 2:
		return name[:1]
	}
	return name[:3]
}

func formatNumber(v float64, display NumericDisplay, decimals, digits int) string {
	switch {
	case display == DisplayDecimalPlaces && decimals >= 0:
		return strconv.FormatFloat(v, 'f', decimals, 64)
	case display == DisplaySignificantDigits && digits > 0:
		return strconv.FormatFloat(v, 'g', digits, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
