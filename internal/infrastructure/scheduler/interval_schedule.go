package scheduler

import (
	"fmt"
	"time"
)

// minInterval is the floor for interval schedules. Maintenance jobs run
// against shared Postgres and Redis, so sub-second intervals are never
// intentional.
const minInterval = time.Second

// IntervalSchedule runs a job at a fixed interval, measured from the end
// of the previous run.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a new IntervalSchedule.
// Intervals below one second are raised to one second.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	if interval < minInterval {
		interval = minInterval
	}
	return &IntervalSchedule{
		Interval: interval,
	}
}

// Next returns the next scheduled time.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}
