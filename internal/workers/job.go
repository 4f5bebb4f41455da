package workers

import (
	"context"
	"time"
)

// Job is one recurring or on-demand unit of scheduled work.
type Job interface {
	// Name returns the unique identifier for this job
	Name() string

	// Run executes one iteration of the job
	Run(ctx context.Context) error
}

// Schedule decides when a job fires. Next returns the first fire time
// strictly after the given instant; ok=false means the job never fires on
// its own and runs only via Scheduler.Trigger.
type Schedule interface {
	Next(after time.Time) (time.Time, bool)
}

// IntervalSchedule fires after an initial warm-up delay and then at a
// fixed interval.
type IntervalSchedule struct {
	Interval time.Duration
	Warmup   time.Duration

	fired bool
}

// Next returns the next fire time.
func (s *IntervalSchedule) Next(after time.Time) (time.Time, bool) {
	if !s.fired {
		s.fired = true
		return after.Add(s.Warmup), true
	}
	return after.Add(s.Interval), true
}

// DailySchedule fires once per day at a fixed wall-clock time.
type DailySchedule struct {
	Hour   int
	Minute int
}

// Next returns the next occurrence of the configured wall-clock time.
func (s *DailySchedule) Next(after time.Time) (time.Time, bool) {
	next := time.Date(after.Year(), after.Month(), after.Day(), s.Hour, s.Minute, 0, 0, after.Location())
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next, true
}

// ManualSchedule never fires on its own; the job runs only when triggered
// explicitly. Used for the breaking cadence, reserved for push sources.
type ManualSchedule struct{}

// Next reports that the job has no timer.
func (s *ManualSchedule) Next(after time.Time) (time.Time, bool) {
	return time.Time{}, false
}
