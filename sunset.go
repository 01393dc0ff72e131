package solarpos

import (
	"log"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/subtlepseudonym/solarpos/solar"
)

const (
	// polar night lasts at most half a year
	eventSearchDays = 190
)

type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

func (l Location) Observer() solar.Observer {
	return solar.NewObserver(l.Latitude, l.Longitude)
}

// SunsetSchedule fires at sunset plus Offset each day
type SunsetSchedule struct {
	Location Location      `json:"location"`
	Offset   time.Duration `json:"offset"`
}

// Next returns the time of next sunset, given the SunsetSchedule's
// location value
//
// This implements robfig/cron.Schedule
func (s SunsetSchedule) Next(now time.Time) time.Time {
	next := nextEvent(GetSunset, s.Location, s.Offset, now)
	if next.IsZero() {
		log.Printf("ERR: no sunset within %d days of %s", eventSearchDays, now.Format(time.RFC3339))
		return next
	}

	log.Printf("next sunset %s: %s", s.Offset, next.Local().Format(time.RFC3339))
	return next
}

// SunriseSchedule fires at sunrise plus Offset each day
type SunriseSchedule struct {
	Location Location      `json:"location"`
	Offset   time.Duration `json:"offset"`
}

// Next returns the time of next sunrise
//
// This implements robfig/cron.Schedule
func (s SunriseSchedule) Next(now time.Time) time.Time {
	next := nextEvent(GetSunrise, s.Location, s.Offset, now)
	if next.IsZero() {
		log.Printf("ERR: no sunrise within %d days of %s", eventSearchDays, now.Format(time.RFC3339))
		return next
	}

	log.Printf("next sunrise %s: %s", s.Offset, next.Local().Format(time.RFC3339))
	return next
}

// GetSunset returns sunset for location on date's UTC calendar day, or
// the zero time if the sun does not set
func GetSunset(location Location, date time.Time) time.Time {
	year, month, day := date.UTC().Date()
	_, set := sunrise.SunriseSunset(location.Latitude, location.Longitude, year, month, day)
	return set
}

// GetSunrise returns sunrise for location on date's UTC calendar day, or
// the zero time if the sun does not rise
func GetSunrise(location Location, date time.Time) time.Time {
	year, month, day := date.UTC().Date()
	rise, _ := sunrise.SunriseSunset(location.Latitude, location.Longitude, year, month, day)
	return rise
}

// nextEvent returns the first event plus offset strictly after now. The
// search starts a day early because the UTC calendar day passed to the
// event function may not match the observer's local day.
func nextEvent(event func(Location, time.Time) time.Time, location Location, offset time.Duration, now time.Time) time.Time {
	day := now.AddDate(0, 0, -1)
	for i := 0; i < eventSearchDays; i++ {
		t := event(location, day)
		if !t.IsZero() {
			t = t.Add(offset)
			if t.After(now) {
				return t
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	return time.Time{}
}
