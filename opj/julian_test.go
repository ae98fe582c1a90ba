package opj

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestJulianToTime(t *testing.T) {
	tests := []struct {
		jd   float64
		want time.Time
	}{
		{2440587, time.Unix(0, 0).UTC()},
		{2440587.5, time.Date(1970, 1, 1, 12, 0, 0, 0, time.UTC)},
		{2451544, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{2451544.75, time.Date(2000, 1, 1, 18, 0, 0, 0, time.UTC)},
		{2415020, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, test := range tests {
		got, err := JulianToTime(test.jd)
		if err != nil {
			t.Errorf("JulianToTime(%v): %v", test.jd, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("JulianToTime(%v) = %v, expected %v", test.jd, got, test.want)
		}
		if back := TimeToJulian(got); math.Abs(back-test.jd) > 1e-9 {
			t.Errorf("TimeToJulian(%v) = %v, expected %v", got, back, test.jd)
		}
	}
}

func TestJulianToTimeRange(t *testing.T) {
	for _, jd := range []float64{0, -1, 1721425, 5373484, math.NaN()} {
		_, err := JulianToTime(jd)
		var je *JulianDateError
		if !errors.As(err, &je) {
			t.Errorf("JulianToTime(%v) error = %v", jd, err)
		}
	}
}

func TestTimestampUnset(t *testing.T) {
	d := newDecoder(nil, &Options{})
	if !d.timestamp(0, "x").IsZero() {
		t.Error("zero is unset")
	}
	if !d.timestamp(12, "x").IsZero() {
		t.Error("out of range values are unset")
	}
}
