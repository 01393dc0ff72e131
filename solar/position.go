package solar

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

const (
	deg = math.Pi / 180

	// arcseconds to radians
	arcsec = deg / 3600
)

// Observer is a fixed point on the Earth's surface. Angles are converted
// to radians once, in NewObserver. No range checking is done.
type Observer struct {
	latitude      float64 // radians, north positive
	longitudeWest float64 // radians, west positive
}

// NewObserver takes latitude (north positive) and longitude (east
// positive) in decimal degrees
func NewObserver(latitude, longitude float64) Observer {
	return Observer{
		latitude:      latitude * deg,
		longitudeWest: -longitude * deg,
	}
}

func (o Observer) Latitude() unit.Angle {
	return unit.Angle(o.latitude)
}

// Longitude returns the east positive longitude
func (o Observer) Longitude() unit.Angle {
	return unit.Angle(-o.longitudeWest)
}

// Position is the geometric position of the sun for an observer at an
// instant. Atmospheric refraction is not applied.
type Position struct {
	Altitude           unit.Angle // above the horizon, π/2 - Zenith
	Zenith             unit.Angle // [0, π]
	Azimuth            unit.Angle // clockwise from north, [0, 2π)
	Declination        unit.Angle
	RightAscension     unit.Angle
	GreenwichHourAngle unit.Angle // [0, 2π)
	EquationOfTime     unit.Angle
	Nutation           unit.Angle // in longitude
	Distance           float64    // AU
	JulianDate         float64    // UT based
	EphemerisDate      float64    // Terrestrial Time Julian date

	// AzimuthUndefined is set when the sun is exactly at the zenith.
	// Azimuth is NaN in that case.
	AzimuthUndefined bool
}

// Calculator computes solar positions using the low precision formulae
// of van Flandern and Pulkkinen (1979), "Low-precision formulae for
// planetary positions", ApJS 41, 391.
//
// A Calculator holds no mutable state and is safe for concurrent use.
type Calculator struct {
	Clock Clock
}

var defaultCalculator = Calculator{Clock: UTCClock{}}

// Compute returns the position of the sun at t for an observer at
// latitude and longitude, both in decimal degrees with east positive
// longitude
func Compute(t time.Time, latitude, longitude float64) (Position, error) {
	return defaultCalculator.Position(t, NewObserver(latitude, longitude))
}

// Position returns the position of the sun at t as seen by obs. The only
// possible error is a *ClockConversionError from c.Clock.
func (c Calculator) Position(t time.Time, obs Observer) (Position, error) {
	clock := c.Clock
	if clock == nil {
		clock = UTCClock{}
	}

	hour, minute, second, err := clock.CivilTime(t)
	if err != nil {
		return Position{}, conversionError("civil time", t, err)
	}
	decimalHour := float64(hour) + (float64(minute)+float64(second)/60)/60

	julianDay, err := clock.JulianDay(t)
	if err != nil {
		return Position{}, conversionError("julian day", t, err)
	}
	julianDate := julianDay + decimalHour/24

	days := julianDate - J2000
	centuries := 1 + days/36525 // since 1900 January 0.5

	// hours
	gmst := Rem(6.6460656+2400.051262*centuries+0.00002581*centuries*centuries, 24)

	// Fundamental arguments in radians. These are left unwrapped, only
	// their sines and cosines are used.
	moonNode := twoPi * (0.347343 - 0.00014709391*days)        // P10
	sunAnomaly := twoPi * (0.993126 + 0.00273777850*days)      // P11
	sunLongitude := twoPi * (0.779072 + 0.00273790931*days)    // P12
	moonLongitude := twoPi * (0.606434 + 0.03660110129*days)   // P13
	moonAnomaly := twoPi * (0.374897 + 0.03629164709*days)     // P14
	moonLatitudeArg := twoPi * (0.259091 + 0.03674819520*days) // P15
	moonElongation := twoPi * (0.827362 + 0.03386319198*days)  // P16

	// P17, arcseconds
	nutation := -17.1996*math.Sin(moonNode) -
		1.3187*math.Sin(2*moonLongitude-2*moonElongation) -
		0.2274*math.Sin(2*moonLatitudeArg+2*moonNode) +
		0.2062*math.Sin(2*moonNode) +
		0.0712*math.Sin(moonAnomaly) -
		0.0386*math.Sin(2*moonLatitudeArg+moonNode) -
		0.0301*math.Sin(moonAnomaly+2*moonLatitudeArg+2*moonNode) -
		0.0158*math.Sin(moonAnomaly-2*moonElongation) +
		0.0123*math.Sin(2*moonLatitudeArg+2*moonNode-moonAnomaly) +
		0.0063*math.Sin(moonAnomaly+moonNode) +
		0.0063*math.Sin(2*moonElongation)

	// P18
	v := 0.39785*math.Sin(sunLongitude) -
		0.01000*math.Sin(sunLongitude-sunAnomaly) +
		0.00333*math.Sin(sunLongitude+sunAnomaly) -
		0.00021*centuries*math.Sin(sunLongitude) +
		0.00004*math.Sin(sunLongitude+2*sunAnomaly) -
		0.00004*math.Cos(sunLongitude)

	// P19
	u := 1 -
		0.03349*math.Cos(sunAnomaly) -
		0.00014*math.Cos(2*sunLongitude) +
		0.00008*math.Cos(sunLongitude)

	// P20
	w := -0.04129*math.Sin(2*sunLongitude) +
		0.03211*math.Sin(sunAnomaly) +
		0.00104*math.Sin(2*sunLongitude-sunAnomaly) -
		0.00035*math.Sin(2*sunLongitude+sunAnomaly) -
		0.00010 -
		0.00008*centuries*math.Sin(sunAnomaly) -
		0.00008*math.Sin(moonNode) +
		0.00007*math.Sin(2*sunAnomaly) +
		0.00005*math.Cos(2*sunLongitude) +
		0.00003*centuries*math.Sin(2*sunLongitude) +
		0.00002*math.Sin(4*sunLongitude-sunAnomaly)

	equationOfTime := math.Asin(w / math.Sqrt(u-v*v))
	distance := 1.00021 * math.Sqrt(u)
	declination := math.Asin(v / math.Sqrt(u))
	rightAscension := sunLongitude + equationOfTime

	ghaAries := 15 * (gmst + decimalHour) * deg
	gha := Rem(ghaAries-rightAscension, twoPi)
	localHourAngle := gha - obs.longitudeWest

	zenith, azimuth, ok := horizontal(obs.latitude, declination, localHourAngle)

	return Position{
		Altitude:           unit.Angle(math.Pi/2 - zenith),
		Zenith:             unit.Angle(zenith),
		Azimuth:            unit.Angle(azimuth),
		Declination:        unit.Angle(declination),
		RightAscension:     unit.Angle(rightAscension),
		GreenwichHourAngle: unit.Angle(gha),
		EquationOfTime:     unit.Angle(equationOfTime),
		Nutation:           unit.Angle(nutation * arcsec),
		Distance:           distance,
		JulianDate:         julianDate,
		EphemerisDate:      TerrestrialJulianDate(t),
		AzimuthUndefined:   !ok,
	}, nil
}

// horizontal converts declination and local hour angle to zenith
// distance and azimuth for the given latitude, all in radians. ok is
// false when the sun is at the zenith, where azimuth is NaN.
func horizontal(latitude, declination, hourAngle float64) (zenith, azimuth float64, ok bool) {
	sinLat, cosLat := math.Sincos(latitude)
	sinDec, cosDec := math.Sincos(declination)
	cosHA := math.Cos(hourAngle)

	zenith = math.Acos(clamp(sinLat*sinDec + cosLat*cosDec*cosHA))
	sinZenith := math.Sin(zenith)
	if sinZenith == 0 {
		return zenith, math.NaN(), false
	}

	azimuth = math.Acos(clamp((-sinLat*cosHA*cosDec + sinDec*cosLat) / sinZenith))

	// acos only covers [0, π]; the sign of sin(azimuth) picks the half.
	// A zero sign only matches another zero.
	sinAzimuth := -cosDec * math.Sin(hourAngle) / sinZenith
	if sign(sinAzimuth) != sign(math.Sin(azimuth)) {
		azimuth = twoPi - azimuth
		if azimuth == twoPi {
			azimuth = 0
		}
	}

	return zenith, azimuth, true
}
