package opj

import "fmt"

// VersionInfo describes the format version found in the file header.
type VersionInfo struct {
	// Raw is the numeric code parsed from the header.
	Raw int
	// Normalized is the version number times 100, e.g. 750 for 7.5.
	Normalized int
	Dialect    Dialect
	// Known is false when Raw was not in the version table and Normalized
	// is the nearest old-dialect version instead.
	Known bool
}

// Float returns the version as a number, e.g. 7.5.
func (v VersionInfo) Float() float64 {
	return float64(v.Normalized) / 100
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (raw %d, %s dialect)", VersionTextFromNum(v.Normalized), v.Raw, v.Dialect)
}

// ResolveVersion reads the version code from the file header. It fails only
// when the header is too short or holds no digits; unknown codes resolve to
// the nearest old-dialect version with Known set to false.
func ResolveVersion(data []byte) (VersionInfo, error) {
	if len(data) < versionOffset+versionDigits {
		return VersionInfo{}, NewOPJError("file too short for a project header (%d bytes)", len(data))
	}
	raw, ok := parseLeadingInt(data[versionOffset : versionOffset+versionDigits])
	if !ok {
		return VersionInfo{}, NewOPJError("no version number in header %q", data[:versionOffset+versionDigits])
	}
	for _, r := range versionRanges {
		if raw >= r.lo && raw <= r.hi {
			return VersionInfo{Raw: raw, Normalized: r.normalized, Dialect: dialectOf(r.normalized), Known: true}, nil
		}
	}
	return VersionInfo{Raw: raw, Normalized: nearestOldVersion(raw), Dialect: DialectOld}, nil
}

func dialectOf(normalized int) Dialect {
	if normalized >= 750 {
		return DialectNew
	}
	return DialectOld
}

// parseLeadingInt parses optional leading spaces followed by decimal digits,
// stopping at the first non-digit.
func parseLeadingInt(b []byte) (int, bool) {
	i := 0
	for i < len(b) && b[i] == ' ' {
		i++
	}
	n, digits := 0, 0
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		n = n*10 + int(b[i]-'0')
		digits++
	}
	return n, digits > 0
}

func nearestOldVersion(raw int) int {
	best, bestDist := 0, -1
	for _, r := range versionRanges {
		if dialectOf(r.normalized) != DialectOld {
			continue
		}
		dist := 0
		switch {
		case raw < r.lo:
			dist = r.lo - raw
		case raw > r.hi:
			dist = raw - r.hi
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = r.normalized, dist
		}
	}
	return best
}
