package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RoundFunc is one scheduled run. The context carries the round timeout and
// is cancelled when the scheduler stops.
type RoundFunc func(ctx context.Context) error

// EntryID identifies a scheduled round.
type EntryID = cron.EntryID

// OverlapPolicy decides what happens when a round is due while the previous
// run of the same entry has not finished.
type OverlapPolicy int

const (
	// Overlap lets runs proceed concurrently.
	Overlap OverlapPolicy = iota
	// Skip drops the due run.
	Skip
	// Queue waits for the previous run and then starts.
	Queue
)

func (p OverlapPolicy) String() string {
	switch p {
	case Skip:
		return "skip"
	case Queue:
		return "queue"
	default:
		return "overlap"
	}
}

// Options configures one entry.
type Options struct {
	Name          string
	Timeout       time.Duration
	OverlapPolicy OverlapPolicy
}

// Hooks observe every run. Any of them may be nil.
type Hooks struct {
	OnStart  func(name string)
	OnFinish func(name string, d time.Duration, err error)
}

// Config configures a Scheduler.
type Config struct {
	Logger *slog.Logger
	Hooks  Hooks
}

// parser accepts both five-field specs and six-field specs with a leading
// seconds field, plus descriptors such as "@every 30s".
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs rounds on cron schedules until its context ends.
type Scheduler struct {
	cron      *cron.Cron
	logger    *slog.Logger
	hooks     Hooks
	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// New returns a Scheduler bound to parent. Cancelling parent stops it.
func New(parent context.Context, cfg Config) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "scheduler")
	return &Scheduler{
		cron:   cron.New(cron.WithParser(parser), cron.WithLogger(cronLogger{logger: logger})),
		logger: logger,
		hooks:  cfg.Hooks,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Add schedules fn. Schedules take five fields, or six with a leading
// seconds field, or a descriptor: "*/5 * * * *", "0 */5 * * * *" and
// "@every 30s" are all accepted.
func (s *Scheduler) Add(schedule string, fn RoundFunc, opts Options) (EntryID, error) {
	if opts.Name == "" {
		opts.Name = "unnamed"
	}
	var chain cron.Chain
	cl := cronLogger{logger: s.logger}
	switch opts.OverlapPolicy {
	case Skip:
		chain = cron.NewChain(cron.SkipIfStillRunning(cl))
	case Queue:
		chain = cron.NewChain(cron.DelayIfStillRunning(cl))
	default:
		chain = cron.NewChain()
	}
	id, err := s.cron.AddJob(schedule, chain.Then(cron.FuncJob(func() {
		s.run(fn, opts)
	})))
	if err != nil {
		return 0, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	s.logger.Info("round scheduled",
		"name", opts.Name, "schedule", schedule, "overlap", opts.OverlapPolicy, "id", id)
	return id, nil
}

// Remove unschedules an entry. A run already in progress finishes.
func (s *Scheduler) Remove(id EntryID) {
	s.cron.Remove(id)
}

// Start begins firing entries. Calling it again has no effect.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.cron.Start()
		go func() {
			<-s.ctx.Done()
			s.stopOnce.Do(s.stop)
		}()
	})
}

// Stop cancels running rounds and waits for them until ctx ends. When ctx
// ends first, Stop returns its error and shutdown completes in the
// background.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	go s.stopOnce.Do(s.stop)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop deadline exceeded")
		return ctx.Err()
	}
}

// Running reports whether the scheduler has not been stopped.
func (s *Scheduler) Running() bool {
	return s.ctx.Err() == nil
}

func (s *Scheduler) stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	close(s.done)
}

func (s *Scheduler) run(fn RoundFunc, opts Options) {
	if s.ctx.Err() != nil {
		return
	}
	if s.hooks.OnStart != nil {
		s.hooks.OnStart(opts.Name)
	}

	ctx := s.ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := call(ctx, fn)
	d := time.Since(start)

	if s.hooks.OnFinish != nil {
		s.hooks.OnFinish(opts.Name, d, err)
	}
	if err != nil {
		s.logger.Error("round failed", "name", opts.Name, "duration", d, "error", err)
		return
	}
	s.logger.Debug("round finished", "name", opts.Name, "duration", d)
}

// call runs fn, turning a panic into an error.
func call(ctx context.Context, fn RoundFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", e)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
