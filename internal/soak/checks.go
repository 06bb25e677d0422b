package soak

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/m-ou-se/mstd/pkg/contract"
	"github.com/m-ou-se/mstd/pkg/erroror"
	"github.com/m-ou-se/mstd/pkg/refcount"
)

// ErrCheckFailed marks a broken invariant, as opposed to an aborted round.
var ErrCheckFailed = errors.New("check failed")

type params struct {
	workers    int
	iterations int
	destroyed  *atomic.Int64
}

type check struct {
	name string
	run  func(ctx context.Context, p params) error
}

var checks = []check{
	{"copy-drop", checkCopyDrop},
	{"last-drop", checkLastDrop},
	{"dynamic-cast", checkDynamicCast},
	{"release-unique", checkReleaseUnique},
	{"result", checkResult},
}

func failf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCheckFailed, fmt.Sprintf(format, args...))
}

// guarded runs fn and reports a contract violation as a failed check.
func guarded(fn func() error) error {
	var err error
	if v := contract.Catch(func() { err = fn() }); v != nil {
		return fmt.Errorf("%w: %w", ErrCheckFailed, v)
	}
	return err
}

// fanOut runs work on p.workers goroutines and stops them all at the first
// error.
func fanOut(ctx context.Context, p params, work func(ctx context.Context, worker int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < p.workers; w++ {
		g.Go(func() error {
			return guarded(func() error { return work(ctx, w) })
		})
	}
	return g.Wait()
}

// checkCopyDrop clones and drops one shared object from every worker. The
// object must stay alive and unchanged, and the count must come back.
func checkCopyDrop(ctx context.Context, p params) error {
	obj := newTracked(p.destroyed)
	root := refcount.Adopt(obj)
	defer root.Reset()

	err := fanOut(ctx, p, func(ctx context.Context, _ int) error {
		for i := 0; i < p.iterations; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := root.Clone()
			ok := c.Get().intact()
			c.Reset()
			if !ok {
				return failf("object damaged while shared")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if n := root.UseCount(); n != 1 {
		return failf("use count %d after all copies were dropped, want 1", n)
	}
	if !obj.intact() {
		return failf("object destroyed while still referenced")
	}
	return nil
}

// checkLastDrop hands one reference to every worker and releases them all
// at once. Exactly one release may destroy the object.
func checkLastDrop(ctx context.Context, p params) error {
	rounds := max(1, p.iterations/10)
	for r := 0; r < rounds; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var destroyed atomic.Int64
		obj := newTracked(&destroyed)
		root := refcount.Adopt(obj)
		handles := make([]refcount.Ptr[*tracked], p.workers)
		for i := range handles {
			handles[i] = root.Clone()
		}
		root.Reset()

		start := make(chan struct{})
		g := new(errgroup.Group)
		for i := range handles {
			g.Go(func() error {
				<-start
				return guarded(func() error {
					handles[i].Reset()
					return nil
				})
			})
		}
		close(start)
		if err := g.Wait(); err != nil {
			return err
		}

		p.destroyed.Add(destroyed.Load())
		if n := destroyed.Load(); n != 1 {
			return failf("round %d: object destroyed %d times, want 1", r, n)
		}
		if n := refcount.UseCount(obj); n != 0 {
			return failf("round %d: use count %d after the last drop", r, n)
		}
	}
	return nil
}

// checkDynamicCast casts one object concurrently to a type it is and one it
// is not. Failures must leave it untouched and successes must share it.
func checkDynamicCast(ctx context.Context, p params) error {
	obj := newTracked(p.destroyed)
	base := refcount.Adopt[sized](obj)
	defer base.Reset()

	err := fanOut(ctx, p, func(ctx context.Context, _ int) error {
		for i := 0; i < p.iterations; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if d := refcount.DynamicCast[*decoy](base); !d.IsNil() {
				d.Reset()
				return failf("cast to *decoy succeeded")
			}
			if base.Get() != sized(obj) {
				return failf("failed cast changed the source")
			}
			t := refcount.DynamicCast[*tracked](base)
			if t.IsNil() {
				return failf("cast to *tracked failed")
			}
			same := t.Get() == obj && t.UseCount() >= 2
			t.Reset()
			if !same {
				return failf("cast result does not share the source")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if n := base.UseCount(); n != 1 {
		return failf("use count %d after all casts were dropped, want 1", n)
	}
	return nil
}

// checkReleaseUnique has every worker release its own object, first while
// shared and then while unique.
func checkReleaseUnique(ctx context.Context, p params) error {
	return fanOut(ctx, p, func(ctx context.Context, _ int) error {
		for i := 0; i < p.iterations; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			var destroyed atomic.Int64
			a := refcount.Adopt(newTracked(&destroyed))
			b := a.Clone()

			if box, ok := a.ReleaseUnique(); ok || !box.IsNil() || a.IsNil() {
				return failf("released a shared object")
			}
			b.Reset()
			box, ok := a.ReleaseUnique()
			if !ok || !a.IsNil() {
				return failf("unique object was not released")
			}
			if destroyed.Load() != 0 {
				return failf("object destroyed before its box was closed")
			}
			box.Close()
			if n := destroyed.Load(); n != 1 {
				return failf("box close destroyed the object %d times", n)
			}
			p.destroyed.Add(1)
		}
		return nil
	})
}

// checkResult walks erroror through a value, an error code and the missing
// value contract.
func checkResult(_ context.Context, _ params) error {
	return guarded(func() error {
		r := erroror.Value[int, int](5)
		if !r.OK() || r.Value() != 5 {
			return failf("value result: %v", r)
		}
		r = erroror.Error[int](2)
		if r.OK() || r.Err() != 2 {
			return failf("error result: %v", r)
		}
		if err := contract.Catch(func() { erroror.Error[int](0) }); !errors.Is(err, contract.ErrMissingValue) {
			return failf("error code 0 was accepted: %v", err)
		}
		if err := contract.Catch(func() { r.Value() }); !errors.Is(err, contract.ErrNoValue) {
			return failf("value read from an error result: %v", err)
		}
		if s := erroror.StatusOf(0); !s.OK() {
			return failf("zero status is not a success")
		}
		return nil
	})
}
