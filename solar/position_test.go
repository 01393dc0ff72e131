package solar

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	meeussolar "github.com/soniakeys/meeus/v3/solar"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

// angleBetween returns the absolute difference of two angles in radians,
// accounting for wraparound
func angleBetween(a, b float64) float64 {
	d := Rem(a-b, twoPi)
	if d > math.Pi {
		d = twoPi - d
	}
	return d
}

func TestRem(t *testing.T) {
	cases := []struct {
		x, m, want float64
	}{
		{-1, 24, 23},
		{25, 24, 1},
		{24, 24, 0},
		{-24, 24, 0},
		{-48.5, 24, 23.5},
		{3, 24, 3},
		{-1e-20, 24, 0},
		{-math.Pi, twoPi, math.Pi},
	}

	for _, c := range cases {
		got := Rem(c.x, c.m)
		if got != c.want {
			t.Errorf("Rem(%v, %v) = %v, want %v", c.x, c.m, got, c.want)
		}
		if got < 0 || got >= c.m {
			t.Errorf("Rem(%v, %v) = %v, outside [0, %v)", c.x, c.m, got, c.m)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	ts := mustParse(t, "2021-07-04T17:23:41Z")

	first, err := Compute(ts, 36.8, -121.9)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	for i := 0; i < 10; i++ {
		pos, err := Compute(ts, 36.8, -121.9)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if pos != first {
			t.Fatalf("compute %d: got %+v, want %+v", i, pos, first)
		}
	}
}

func TestComputeRanges(t *testing.T) {
	start := mustParse(t, "2023-01-01T00:00:00Z")

	for day := 0; day < 365; day += 17 {
		for hour := 0; hour < 24; hour += 5 {
			ts := start.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + 13*time.Minute)
			for lat := -85.0; lat <= 85; lat += 42.5 {
				for lon := -180.0; lon <= 180; lon += 60 {
					pos, err := Compute(ts, lat, lon)
					if err != nil {
						t.Fatalf("compute %s (%v, %v): %v", ts, lat, lon, err)
					}

					if pos.Zenith < 0 || pos.Zenith > math.Pi {
						t.Errorf("%s (%v, %v): zenith %v outside [0, π]", ts, lat, lon, pos.Zenith)
					}
					if pos.Azimuth < 0 || pos.Azimuth >= twoPi {
						t.Errorf("%s (%v, %v): azimuth %v outside [0, 2π)", ts, lat, lon, pos.Azimuth)
					}
					if d := math.Abs(pos.Altitude.Rad() - (math.Pi/2 - pos.Zenith.Rad())); d > 1e-12 {
						t.Errorf("%s (%v, %v): altitude %v is not π/2 - zenith %v", ts, lat, lon, pos.Altitude, pos.Zenith)
					}
					if pos.Distance < 0.95 || pos.Distance > 1.05 {
						t.Errorf("%s: distance %v outside [0.95, 1.05]", ts, pos.Distance)
					}
					if pos.GreenwichHourAngle < 0 || pos.GreenwichHourAngle >= twoPi {
						t.Errorf("%s: greenwich hour angle %v outside [0, 2π)", ts, pos.GreenwichHourAngle)
					}
					if math.Abs(pos.Declination.Rad()) > 0.41 {
						t.Errorf("%s: declination %v outside ±0.41", ts, pos.Declination)
					}
					if pos.AzimuthUndefined {
						t.Errorf("%s (%v, %v): unexpected undefined azimuth", ts, lat, lon)
					}
				}
			}
		}
	}
}

// TestComputeSeries pins the series evaluation at a few instants so any
// change to a coefficient or term is caught. Expected values come from a
// separate evaluation of the same formulae.
func TestComputeSeries(t *testing.T) {
	const tolerance = 1e-9

	cases := []struct {
		time               string
		lat, lon           float64
		declination        float64
		equationOfTime     float64
		distance           float64
		greenwichHourAngle float64
		zenith             float64
		azimuth            float64
	}{
		{
			time: "2020-12-21T20:06:00Z", lat: 36.8, lon: -121.9,
			declination:        -0.408950585043753,
			equationOfTime:     -0.006910152422157,
			distance:           0.983790770244481,
			greenwichHourAngle: 2.127388108286105,
			zenith:             1.051231761757570,
			azimuth:            3.141414808576553,
		},
		{
			time: "1985-07-04T06:30:15Z", lat: -42.88, lon: 147.33,
			declination:        0.399244311138472,
			equationOfTime:     0.018593562495270,
			distance:           1.016874402770353,
			greenwichHourAngle: 4.825687543748984,
			zenith:             1.537446593192255,
			azimuth:            5.308889854077196,
		},
		{
			time: "2031-03-20T16:45:00Z", lat: -1.29, lon: 36.82,
			declination:        -0.000811818894640,
			equationOfTime:     0.032526892732275,
			distance:           0.995707959319844,
			greenwichHourAngle: 1.210923809638224,
			zenith:             1.853461276749197,
			azimuth:            4.705003002092004,
		},
	}

	for _, c := range cases {
		t.Run(c.time, func(t *testing.T) {
			pos, err := Compute(mustParse(t, c.time), c.lat, c.lon)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}

			for _, field := range []struct {
				name      string
				got, want float64
			}{
				{"declination", pos.Declination.Rad(), c.declination},
				{"equation of time", pos.EquationOfTime.Rad(), c.equationOfTime},
				{"distance", pos.Distance, c.distance},
				{"greenwich hour angle", pos.GreenwichHourAngle.Rad(), c.greenwichHourAngle},
				{"zenith", pos.Zenith.Rad(), c.zenith},
				{"azimuth", pos.Azimuth.Rad(), c.azimuth},
			} {
				if math.Abs(field.got-field.want) > tolerance {
					t.Errorf("%s: got %.15f, want %.15f", field.name, field.got, field.want)
				}
			}
		})
	}
}

// TestComputeReference compares against the higher precision solar
// theory of the meeus package
func TestComputeReference(t *testing.T) {
	const (
		angleTolerance    = 2e-3 // radians, ~0.11°
		distanceTolerance = 2e-4 // AU
	)

	cases := []struct {
		time     string
		lat, lon float64
	}{
		{"2020-06-21T19:00:00Z", 36.8, -121.9},
		{"2021-03-15T08:30:00Z", 51.5, -0.13},
		{"2019-12-01T05:00:00Z", -33.9, 151.2},
		{"2024-09-10T15:00:00Z", 0, 0},
		{"1995-01-20T15:45:00Z", 64.8, -147.7},
		{"1987-04-10T19:21:00Z", 38.9, -77.0},
		{"2035-11-02T23:59:59Z", -77.8, 166.7},
	}

	for _, c := range cases {
		t.Run(c.time, func(t *testing.T) {
			ts := mustParse(t, c.time)

			pos, err := Compute(ts, c.lat, c.lon)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}

			jde := pos.EphemerisDate
			if want := TerrestrialJulianDate(ts); jde != want {
				t.Errorf("ephemeris date: got %v, want %v", jde, want)
			}
			ra, dec := meeussolar.ApparentEquatorial(jde)
			distance := meeussolar.Radius(base.J2000Century(jde))

			if d := math.Abs(pos.Declination.Rad() - dec.Rad()); d > angleTolerance {
				t.Errorf("declination: got %v, want %v", pos.Declination.Deg(), dec.Deg())
			}
			if d := angleBetween(pos.RightAscension.Rad(), ra.Rad()); d > angleTolerance {
				t.Errorf("right ascension: got %v, want %v", pos.RightAscension.Rad(), ra.Rad())
			}
			if d := math.Abs(pos.Distance - distance); d > distanceTolerance {
				t.Errorf("distance: got %v, want %v", pos.Distance, distance)
			}

			// horizontal coordinates from the reference right ascension
			// and declination
			gmst := sidereal.Mean(julian.TimeToJD(ts)).Angle().Rad()
			lat := c.lat * deg
			hourAngle := gmst + c.lon*deg - ra.Rad()
			sinAlt := math.Sin(lat)*dec.Sin() + math.Cos(lat)*dec.Cos()*math.Cos(hourAngle)
			altitude := math.Asin(sinAlt)
			azimuth := math.Atan2(
				-dec.Cos()*math.Sin(hourAngle),
				dec.Sin()*math.Cos(lat)-dec.Cos()*math.Sin(lat)*math.Cos(hourAngle),
			)

			if d := math.Abs(pos.Altitude.Rad() - altitude); d > angleTolerance {
				t.Errorf("altitude: got %v, want %v", pos.Altitude.Deg(), altitude/deg)
			}
			if d := angleBetween(pos.Azimuth.Rad(), azimuth); d > angleTolerance {
				t.Errorf("azimuth: got %v, want %v", pos.Azimuth.Deg(), Rem(azimuth, twoPi)/deg)
			}

			dpsi, _ := nutation.Nutation(jde)
			if d := math.Abs(pos.Nutation.Rad() - dpsi.Rad()); d > arcsec {
				t.Errorf("nutation: got %v, want %v", pos.Nutation.Rad()/arcsec, dpsi.Rad()/arcsec)
			}

			// apparent minus mean solar time stays within ~16.5 minutes
			if math.Abs(pos.EquationOfTime.Rad()) > 17*twoPi/(24*60) {
				t.Errorf("equation of time %v out of range", pos.EquationOfTime)
			}
		})
	}
}

func TestComputeLongitudeWrap(t *testing.T) {
	ts := mustParse(t, "2022-08-19T06:42:10Z")

	for _, lon := range []float64{-179.5, -121.9, 0, 45, 151.2} {
		a, err := Compute(ts, 36.8, lon)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		b, err := Compute(ts, 36.8, lon+360)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}

		if d := math.Abs(a.Zenith.Rad() - b.Zenith.Rad()); d > 1e-9 {
			t.Errorf("lon %v: zenith %v != %v", lon, a.Zenith, b.Zenith)
		}
		if d := angleBetween(a.Azimuth.Rad(), b.Azimuth.Rad()); d > 1e-9 {
			t.Errorf("lon %v: azimuth %v != %v", lon, a.Azimuth, b.Azimuth)
		}
		if a.Declination != b.Declination || a.Distance != b.Distance || a.GreenwichHourAngle != b.GreenwichHourAngle {
			t.Errorf("lon %v: observer independent values differ", lon)
		}
	}
}

func TestComputeMontereyNoon(t *testing.T) {
	const lat, lon = 36.8, -121.9

	for _, day := range []string{"2020-12-21T00:00:00Z", "2021-03-20T00:00:00Z", "2021-09-01T00:00:00Z"} {
		t.Run(day, func(t *testing.T) {
			noon, err := Noon(mustParse(t, day), lat, lon)
			if err != nil {
				t.Fatalf("noon: %v", err)
			}

			pos, err := Compute(noon, lat, lon)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}

			azimuth := pos.Azimuth.Deg()
			if azimuth < 170 || azimuth > 190 {
				t.Errorf("azimuth at %s: got %v, want within [170, 190]", noon.Format(time.RFC3339), azimuth)
			}

			for _, offset := range []time.Duration{-3 * time.Hour, 3 * time.Hour} {
				other, err := Compute(noon.Add(offset), lat, lon)
				if err != nil {
					t.Fatalf("compute: %v", err)
				}
				if other.Altitude >= pos.Altitude {
					t.Errorf("altitude at noon%+v: %v >= noon altitude %v", offset, other.Altitude.Deg(), pos.Altitude.Deg())
				}
			}
		})
	}
}

func TestHorizontal(t *testing.T) {
	t.Run("zenith", func(t *testing.T) {
		zenith, azimuth, ok := horizontal(0, 0, 0)
		if ok {
			t.Fatalf("expected undefined azimuth")
		}
		if zenith != 0 {
			t.Errorf("zenith: got %v, want 0", zenith)
		}
		if !math.IsNaN(azimuth) {
			t.Errorf("azimuth: got %v, want NaN", azimuth)
		}
	})

	cases := []struct {
		name                 string
		lat, dec, hourAngle  float64
		wantZenith, wantAzim float64
	}{
		{"south transit", 40 * deg, 10 * deg, 0, 30 * deg, math.Pi},
		{"north transit", 10 * deg, 20 * deg, 0, 10 * deg, 0},
		{"morning", 40 * deg, 0, -math.Pi / 2, math.Pi / 2, math.Pi / 2},
		{"evening", 40 * deg, 0, math.Pi / 2, math.Pi / 2, 3 * math.Pi / 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			zenith, azimuth, ok := horizontal(c.lat, c.dec, c.hourAngle)
			if !ok {
				t.Fatalf("unexpected undefined azimuth")
			}
			if d := math.Abs(zenith - c.wantZenith); d > 1e-9 {
				t.Errorf("zenith: got %v, want %v", zenith, c.wantZenith)
			}
			if d := angleBetween(azimuth, c.wantAzim); d > 1e-6 {
				t.Errorf("azimuth: got %v, want %v", azimuth, c.wantAzim)
			}
			if azimuth < 0 || azimuth >= twoPi {
				t.Errorf("azimuth %v outside [0, 2π)", azimuth)
			}
		})
	}
}

type brokenClock struct {
	UTCClock
}

func (brokenClock) JulianDay(time.Time) (float64, error) {
	return 0, errors.New("clock unavailable")
}

func TestComputeClockErrors(t *testing.T) {
	_, err := Compute(time.Time{}, 0, 0)
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("zero time: got %v, want ErrInvalidTime", err)
	}

	var convErr *ClockConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("zero time: got %T, want *ClockConversionError", err)
	}

	_, err = Compute(time.Date(12000, time.January, 1, 0, 0, 0, 0, time.UTC), 0, 0)
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("year 12000: got %v, want ErrInvalidTime", err)
	}

	calc := Calculator{Clock: brokenClock{}}
	_, err = calc.Position(mustParse(t, "2020-01-01T00:00:00Z"), NewObserver(0, 0))
	if !errors.As(err, &convErr) {
		t.Fatalf("broken clock: got %T, want *ClockConversionError", err)
	}
	if convErr.Op != "julian day" {
		t.Errorf("op: got %q, want %q", convErr.Op, "julian day")
	}
}

func TestObserver(t *testing.T) {
	obs := NewObserver(36.8, -121.9)
	if d := math.Abs(obs.Latitude().Deg() - 36.8); d > 1e-12 {
		t.Errorf("latitude: got %v", obs.Latitude().Deg())
	}
	if d := math.Abs(obs.Longitude().Deg() + 121.9); d > 1e-12 {
		t.Errorf("longitude: got %v", obs.Longitude().Deg())
	}
	if obs.longitudeWest <= 0 {
		t.Errorf("west longitude should be positive for a western observer: %v", obs.longitudeWest)
	}
}
