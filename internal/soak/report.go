package soak

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m-ou-se/mstd/pkg/refcount"
)

// CheckResult is the outcome of one check in a round.
type CheckResult struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report describes a completed round.
type Report struct {
	Round      int64         `json:"round"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration_ns"`
	Workers    int           `json:"workers"`
	Iterations int           `json:"iterations"`
	Destroyed  int64         `json:"destroyed"`
	Checks     []CheckResult `json:"checks"`
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Err joins the failures of r, or returns nil if it passed.
func (r *Report) Err() error {
	var errs []error
	for _, c := range r.Checks {
		if !c.Passed {
			errs = append(errs, fmt.Errorf("%s: %s", c.Name, c.Error))
		}
	}
	return errors.Join(errs...)
}

// Latest holds the most recent report. Readers get their own reference and
// must Reset it when done; a report being read stays alive after it is
// replaced.
type Latest struct {
	mu sync.Mutex
	p  refcount.Ptr[*Report]
}

// Store publishes r, dropping the previous report's reference.
func (l *Latest) Store(r Report) {
	p := refcount.New(r)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Take(&p)
}

// Load returns a reference to the latest report, or a null Ptr if none was
// stored yet.
func (l *Latest) Load() refcount.Ptr[*Report] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Clone()
}
