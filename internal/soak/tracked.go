package soak

import (
	"sync/atomic"

	"github.com/m-ou-se/mstd/pkg/refcount"
)

const fill = 0x9e3779b97f4a7c15

// sized is the interface the checks cast to and from.
type sized interface {
	refcount.Counted
	Size() int
}

// tracked is an intrusively counted object that notices use after destroy.
type tracked struct {
	refcount.Refcounted
	data      [8]uint64
	dead      atomic.Bool
	destroyed *atomic.Int64
}

func newTracked(destroyed *atomic.Int64) *tracked {
	t := &tracked{destroyed: destroyed}
	for i := range t.data {
		t.data[i] = uint64(i+1) * fill
	}
	return t
}

func (t *tracked) Size() int { return len(t.data) }

func (t *tracked) intact() bool {
	if t.dead.Load() {
		return false
	}
	for i := range t.data {
		if t.data[i] != uint64(i+1)*fill {
			return false
		}
	}
	return true
}

func (t *tracked) Destroy() {
	t.dead.Store(true)
	t.destroyed.Add(1)
}

// decoy is counted but is never a tracked.
type decoy struct {
	refcount.Refcounted
}

func (*decoy) Size() int { return 0 }
