// Package scheduler runs named cron jobs with an explicit lifecycle.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobInfo describes a registered job.
type JobInfo struct {
	ID      string    `json:"id"`
	Spec    string    `json:"spec"`
	NextRun time.Time `json:"next_run_time"`
	PrevRun time.Time `json:"prev_run_time"`
}

type job struct {
	spec  string
	entry cron.EntryID
}

// Scheduler wraps a cron runner. Jobs receive a context that is canceled
// when the scheduler stops.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs map[string]job
}

func New(logger *zap.Logger, opts ...cron.Option) *Scheduler {
	logger = logger.Named("scheduler")
	cl := cronLogger{logger: logger.Sugar()}
	opts = append([]cron.Option{
		cron.WithLogger(cl),
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	}, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(opts...),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]job),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling, cancels running jobs' context and waits for them
// to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddJob registers fn under id. It reports false without changing anything
// when a job with that id already exists.
func (s *Scheduler) AddJob(id, spec string, fn func(ctx context.Context)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; ok {
		return false, nil
	}
	entry, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		s.logger.Info("job started", zap.String("job_id", id))
		fn(s.ctx)
		s.logger.Info("job finished", zap.String("job_id", id), zap.Duration("duration", time.Since(start)))
	})
	if err != nil {
		return false, fmt.Errorf("job %s: invalid spec %q: %w", id, spec, err)
	}
	s.jobs[id] = job{spec: spec, entry: entry}
	return true, nil
}

// RemoveJob unregisters id, reporting whether it existed.
func (s *Scheduler) RemoveJob(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	s.cron.Remove(j.entry)
	delete(s.jobs, id)
	return true
}

// Jobs lists the registered jobs by id.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for id, j := range s.jobs {
		e := s.cron.Entry(j.entry)
		out = append(out, JobInfo{ID: id, Spec: j.spec, NextRun: e.Next, PrevRun: e.Prev})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// cronLogger routes cron's own logging to zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
