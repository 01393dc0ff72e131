package solar

import (
	"math"
	"time"
)

const (
	noonIterations = 5
	noonTolerance  = time.Second
)

// MeanSolarNoon approximates solar noon for the mean sun on day's UTC
// calendar date at a given longitude. Longitude is degrees east, with
// negative values for degrees west.
func MeanSolarNoon(day time.Time, longitude float64) time.Time {
	year, month, date := day.UTC().Date()
	midday := time.Date(year, month, date, 12, 0, 0, 0, time.UTC)
	return midday.Add(-time.Duration(longitude / 15 * float64(time.Hour)))
}

// Noon returns the time of local apparent noon on day's UTC calendar
// date for an observer at latitude and longitude in decimal degrees
func Noon(day time.Time, latitude, longitude float64) (time.Time, error) {
	return defaultCalculator.Noon(day, NewObserver(latitude, longitude))
}

// Noon finds the instant the local hour angle crosses zero, starting
// from the mean solar noon and stepping by the remaining hour angle.
// Civil time has a resolution of one second, so the result does too.
func (c Calculator) Noon(day time.Time, obs Observer) (time.Time, error) {
	noon := MeanSolarNoon(day, obs.Longitude().Deg())
	for i := 0; i < noonIterations; i++ {
		pos, err := c.Position(noon, obs)
		if err != nil {
			return time.Time{}, err
		}

		// [-π, π)
		hourAngle := Rem(pos.GreenwichHourAngle.Rad()-obs.longitudeWest+math.Pi, twoPi) - math.Pi
		correction := time.Duration(-hourAngle / twoPi * float64(24*time.Hour))
		noon = noon.Add(correction)
		if correction.Abs() < noonTolerance {
			break
		}
	}

	return noon, nil
}
