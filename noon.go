package solarpos

import (
	"log"
	"time"

	"github.com/subtlepseudonym/solarpos/solar"
)

const (
	retryLimit    = 5
	retryInterval = time.Minute
)

// NoonSchedule fires at local apparent noon plus Offset each day
type NoonSchedule struct {
	Location   Location      `json:"location"`
	Offset     time.Duration `json:"offset"`
	Calculator solar.Calculator

	errCount int
}

// Next determines the next local apparent noon after now. If the
// position cannot be computed it retries a minute later, giving up
// after retryLimit consecutive failures.
//
// This implements robfig/cron.Schedule
func (s *NoonSchedule) Next(now time.Time) time.Time {
	obs := s.Location.Observer()

	// the noon of the previous UTC day can still be ahead of now for
	// observers east of Greenwich
	day := now.AddDate(0, 0, -1)
	for i := 0; i < 3; i++ {
		noon, err := s.Calculator.Noon(day, obs)
		if err != nil {
			log.Printf("ERR: get noon: %s", err)
			if s.errCount >= retryLimit {
				return time.Time{}
			}

			s.errCount++
			return now.Add(retryInterval)
		}

		next := noon.Add(s.Offset)
		if next.After(now) {
			s.errCount = 0
			log.Printf("next noon %s: %s", s.Offset, next.Local().Format(time.RFC3339))
			return next
		}
		day = day.AddDate(0, 0, 1)
	}

	// only reachable with offsets of more than a day
	return time.Time{}
}
