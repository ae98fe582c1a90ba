package opj

import (
	"fmt"
	"math"
	"time"
)

// Timestamps and date columns are stored as Julian day numbers whose days
// begin at midnight, so day 2440587 is 1970-01-01.
const julianUnixEpoch = 2440587

// Julian days before 0001-01-01 or after 9999-12-31 are rejected.
const (
	julianMin = 1721426
	julianMax = 5373484
)

// JulianDateError reports a Julian day number that cannot be a date.
type JulianDateError struct {
	Value float64
}

func (e *JulianDateError) Error() string {
	return fmt.Sprintf("julian day %v out of range", e.Value)
}

// JulianToTime converts a Julian day number to a UTC time, rounded to the
// nearest second.
func JulianToTime(jd float64) (time.Time, error) {
	if math.IsNaN(jd) || jd < julianMin || jd >= julianMax {
		return time.Time{}, &JulianDateError{Value: jd}
	}
	secs := math.Floor((jd-julianUnixEpoch)*86400 + 0.5)
	return time.Unix(int64(secs), 0).UTC(), nil
}

// TimeToJulian is the inverse of JulianToTime.
func TimeToJulian(t time.Time) float64 {
	return float64(t.Unix())/86400 + julianUnixEpoch
}

// timestamp converts a stored window timestamp. Zero means unset; any
// other unusable value is traced and treated as unset.
func (d *decoder) timestamp(jd float64, entity string) time.Time {
	if jd == 0 {
		return time.Time{}
	}
	t, err := JulianToTime(jd)
	if err != nil {
		if d.verbosity > 0 {
			fmt.Fprintf(d.logfile, "%s: %v\n", entity, err)
		}
		return time.Time{}
	}
	return t
}
