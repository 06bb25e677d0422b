package soak

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/m-ou-se/mstd/pkg/erroror"
)

// Config configures a Runner.
type Config struct {
	Workers    int
	Iterations int
	Logger     *slog.Logger
}

// Runner runs soak rounds and keeps the latest report.
type Runner struct {
	workers    int
	iterations int
	log        *slog.Logger
	checks     []check
	latest     Latest
	round      atomic.Int64
}

// NewRunner returns a Runner with at least one worker and one iteration.
func NewRunner(cfg Config) *Runner {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		workers:    max(1, cfg.Workers),
		iterations: max(1, cfg.Iterations),
		log:        log.With("component", "soak"),
		checks:     checks,
	}
}

// Latest returns the holder of the most recent completed report.
func (r *Runner) Latest() *Latest {
	return &r.latest
}

// RunRound runs every check once. A round that completes yields a report,
// whether or not its checks passed, and becomes the latest one. A round cut
// short by ctx yields ctx's error and publishes nothing.
func (r *Runner) RunRound(ctx context.Context) erroror.Of[Report, error] {
	var destroyed atomic.Int64
	rep := Report{
		Round:      r.round.Add(1),
		Started:    time.Now(),
		Workers:    r.workers,
		Iterations: r.iterations,
	}
	log := r.log.With("round", rep.Round)
	p := params{workers: r.workers, iterations: r.iterations, destroyed: &destroyed}

	for _, c := range r.checks {
		start := time.Now()
		err := c.run(ctx, p)
		if err != nil && !errors.Is(err, ErrCheckFailed) {
			Destroyed.Add(float64(destroyed.Load()))
			Rounds.WithLabelValues("aborted").Inc()
			log.Warn("round aborted", "check", c.name, "error", err)
			return erroror.Fail[Report](err)
		}
		res := CheckResult{Name: c.name, Passed: err == nil, Duration: time.Since(start)}
		if err != nil {
			res.Error = err.Error()
			CheckFailures.WithLabelValues(c.name).Inc()
			log.Error("check failed", "check", c.name, "error", err)
		} else {
			log.Debug("check passed", "check", c.name, "duration", res.Duration)
		}
		rep.Checks = append(rep.Checks, res)
	}

	rep.Duration = time.Since(rep.Started)
	rep.Destroyed = destroyed.Load()

	result := "passed"
	if !rep.Passed() {
		result = "failed"
	}
	Rounds.WithLabelValues(result).Inc()
	RoundDuration.Observe(rep.Duration.Seconds())
	Destroyed.Add(float64(rep.Destroyed))
	LastRound.SetToCurrentTime()
	log.Info("round finished", "result", result, "duration", rep.Duration, "destroyed", rep.Destroyed)

	r.latest.Store(rep)
	return erroror.Ok(rep)
}

// Run is RunRound for schedulers: it reports an aborted round or failed
// checks as an error.
func (r *Runner) Run(ctx context.Context) error {
	res := r.RunRound(ctx)
	if !res.OK() {
		return res.Err()
	}
	return res.ValuePtr().Err()
}
