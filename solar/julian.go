package solar

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	EpochJulianDate       = 2440587.5
	J2000                 = 2451545.0
	TerrestrialTimeOffset = 32.184 // TT - TAI, seconds
	InitialTAIOffset      = 10     // TAI - UTC on 1 January 1972, seconds
	SecondsPerDay         = 86400  // not including leap seconds

	minYear = -4712
	maxYear = 9999
)

// Clock provides the calendar conversions the ephemeris depends on.
// Both methods interpret t in UTC.
type Clock interface {
	// JulianDay returns the Julian date at 0h UT of t's calendar day.
	// The time of day is not included.
	JulianDay(t time.Time) (float64, error)

	// CivilTime returns t's UTC wall clock hour, minute and second
	CivilTime(t time.Time) (hour, minute, second int, err error)
}

// UTCClock is the default Clock, backed by the meeus julian package
type UTCClock struct{}

func (UTCClock) JulianDay(t time.Time) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, &ClockConversionError{Op: "julian day", Time: t, Err: err}
	}

	year, month, day := t.UTC().Date()
	return julian.CalendarGregorianToJD(year, int(month), float64(day)), nil
}

func (UTCClock) CivilTime(t time.Time) (int, int, int, error) {
	if err := checkTime(t); err != nil {
		return 0, 0, 0, &ClockConversionError{Op: "civil time", Time: t, Err: err}
	}

	hour, minute, second := t.UTC().Clock()
	return hour, minute, second, nil
}

func checkTime(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("zero time: %w", ErrInvalidTime)
	}

	year := t.UTC().Year()
	if year < minYear || year > maxYear {
		return fmt.Errorf("year %d outside [%d, %d]: %w", year, minYear, maxYear, ErrInvalidTime)
	}
	return nil
}

// TerrestrialJulianDate returns the Julian ephemeris date (TT) for a
// particular time, including leap seconds
//
// golang does not support leap seconds, so they must be added.
// Instead, golang uses a leap smear, which is how Google production
// servers handle leap seconds, smearing the additional second evenly
// across 24hrs
// https://developers.google.com/time/smear
func TerrestrialJulianDate(t time.Time) float64 {
	unix := float64(t.UnixNano()) / float64(time.Second)
	unixWithLeap := unix + float64(InitialTAIOffset+NumLeapSeconds(t)) + TerrestrialTimeOffset
	return unixWithLeap/SecondsPerDay + EpochJulianDate
}
