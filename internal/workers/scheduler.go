package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"herald/internal/metrics"
	"herald/pkg/errors"
	"herald/pkg/logger"
)

// registration pairs a job with its schedule and run guard.
type registration struct {
	job      Job
	schedule Schedule
	running  atomic.Bool
}

// Scheduler runs registered jobs on their schedules. Each job has an
// at-most-one-concurrent-run guarantee: a fire that arrives while the
// previous run is still in flight is skipped, not queued.
type Scheduler struct {
	jobs    []*registration
	byName  map[string]*registration
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	log     *logger.Logger
	started bool
}

// NewScheduler creates an empty job scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		byName: make(map[string]*registration),
		log:    logger.Get(),
	}
}

// Register adds a job with its schedule.
func (s *Scheduler) Register(job Job, schedule Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.log.Warnf("Cannot register job %s after scheduler has started", job.Name())
		return
	}

	reg := &registration{job: job, schedule: schedule}
	s.jobs = append(s.jobs, reg)
	s.byName[job.Name()] = reg
	s.log.Infof("Job registered: %s", job.Name())
}

// Start begins running all registered jobs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler already started")
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Infof("Starting scheduler with %d jobs", len(s.jobs))

	for _, reg := range s.jobs {
		s.wg.Add(1)
		go s.runJob(reg)
	}

	return nil
}

// Stop gracefully shuts down all jobs, waiting up to one minute for
// in-flight runs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler not started")
	}
	s.cancel()
	s.mu.Unlock()

	s.log.Info("Stopping scheduler...")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var shutdownErr error
	select {
	case <-done:
		s.log.Info("All jobs stopped")
	case <-time.After(time.Minute):
		s.log.Warn("Job shutdown timed out")
		shutdownErr = errors.Wrapf(errors.ErrTimeout, "job shutdown")
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	return shutdownErr
}

// Trigger fires a job on demand, subject to the same running guard as
// timed fires. This is how the breaking cadence and any future push
// source reach the pipeline.
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	reg, ok := s.byName[name]
	ctx := s.ctx
	started := s.started
	s.mu.RUnlock()

	if !ok {
		return errors.Wrapf(errors.ErrInvalidInput, "unknown job %q", name)
	}
	if !started {
		return errors.Wrapf(errors.ErrInternal, "scheduler not started")
	}

	go s.execute(ctx, reg)
	return nil
}

// runJob waits for the job's fire times until the scheduler stops.
// Manual-only jobs just park until shutdown.
func (s *Scheduler) runJob(reg *registration) {
	defer s.wg.Done()

	for {
		next, ok := reg.schedule.Next(time.Now())
		if !ok {
			<-s.ctx.Done()
			return
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(s.ctx, reg)
		}
	}
}

// execute runs a single job iteration with the running guard, panic
// recovery, and metrics.
func (s *Scheduler) execute(ctx context.Context, reg *registration) {
	if !reg.running.CompareAndSwap(false, true) {
		s.log.Warnf("Job %s still running, skipping fire", reg.job.Name())
		metrics.JobExecutions.WithLabelValues(reg.job.Name(), "skipped").Inc()
		return
	}
	defer reg.running.Store(false)

	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Job %s panicked: %v", reg.job.Name(), r)
			metrics.JobExecutions.WithLabelValues(reg.job.Name(), "error").Inc()
		}
	}()

	err := reg.job.Run(ctx)
	duration := time.Since(start)
	metrics.JobDuration.WithLabelValues(reg.job.Name()).Observe(duration.Seconds())

	if err != nil {
		s.log.Errorf("Job %s failed after %s: %v", reg.job.Name(), duration, err)
		metrics.JobExecutions.WithLabelValues(reg.job.Name(), "error").Inc()
		return
	}

	s.log.Debugf("Job %s completed in %s", reg.job.Name(), duration)
	metrics.JobExecutions.WithLabelValues(reg.job.Name(), "success").Inc()
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
