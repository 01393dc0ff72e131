package solarpos

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	noonPrefix    = "@noon"
	sunrisePrefix = "@sunrise"
	sunsetPrefix  = "@sunset"
)

// ParseSchedule accepts a standard cron spec or one of @noon, @sunrise
// and @sunset followed by an optional offset, e.g. "@sunset -1h"
func ParseSchedule(spec string, location Location) (cron.Schedule, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty schedule")
	}

	switch fields[0] {
	case noonPrefix, sunrisePrefix, sunsetPrefix:
	default:
		schedule, err := cron.ParseStandard(spec)
		if err != nil {
			return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
		}
		return schedule, nil
	}

	var offset time.Duration
	if len(fields) > 2 {
		return nil, fmt.Errorf("parse schedule %q: unexpected %q", spec, fields[2])
	}
	if len(fields) == 2 {
		var err error
		offset, err = time.ParseDuration(fields[1])
		if err != nil {
			return nil, fmt.Errorf("parse %s offset: %w", fields[0], err)
		}
	}

	switch fields[0] {
	case noonPrefix:
		return &NoonSchedule{Location: location, Offset: offset}, nil
	case sunrisePrefix:
		return SunriseSchedule{Location: location, Offset: offset}, nil
	default:
		return SunsetSchedule{Location: location, Offset: offset}, nil
	}
}
