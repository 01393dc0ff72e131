package solar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is returned by a Clock for instants it cannot convert
var ErrInvalidTime = errors.New("invalid time")

// ClockConversionError reports a failed Julian day or civil time
// conversion. Compute returns it as-is; there are no retries.
type ClockConversionError struct {
	Op   string // "julian day" or "civil time"
	Time time.Time
	Err  error
}

func (e *ClockConversionError) Error() string {
	return fmt.Sprintf("%s conversion of %s: %s", e.Op, e.Time.Format(time.RFC3339Nano), e.Err)
}

func (e *ClockConversionError) Unwrap() error {
	return e.Err
}

// conversionError returns err as a *ClockConversionError, wrapping it
// if a Clock returned some other error type
func conversionError(op string, t time.Time, err error) error {
	var convErr *ClockConversionError
	if errors.As(err, &convErr) {
		return err
	}
	return &ClockConversionError{Op: op, Time: t, Err: err}
}
