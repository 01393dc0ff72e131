package solar

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

const maxTableRows = 1 << 20

// Sample is a single row of an ephemeris table
type Sample struct {
	Time     time.Time
	Position Position
}

// Table computes the position of the sun for obs at start, start+step,
// ... up to and including end. Rows are computed concurrently and
// returned in time order.
func (c Calculator) Table(ctx context.Context, obs Observer, start, end time.Time, step time.Duration) ([]Sample, error) {
	if step <= 0 {
		return nil, fmt.Errorf("table step %s: must be positive", step)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("table end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	rows := int(end.Sub(start)/step) + 1
	if rows > maxTableRows {
		return nil, fmt.Errorf("table of %d rows exceeds limit of %d", rows, maxTableRows)
	}

	samples := make([]Sample, rows)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i := range samples {
		i := i
		t := start.Add(time.Duration(i) * step)
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			pos, err := c.Position(t, obs)
			if err != nil {
				return fmt.Errorf("position at %s: %w", t.Format(time.RFC3339), err)
			}
			samples[i] = Sample{Time: t, Position: pos}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}
