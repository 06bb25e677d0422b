// Package refcount provides atomically reference-counted ownership.
//
// The garbage collector frees memory, but it does not tell anyone when the
// last user of an object is gone. Objects that hold something the collector
// cannot see (a file descriptor, a pooled buffer, a slot in a registry)
// need that moment to release it exactly once. Ptr gives it to them.
//
// # Counting
//
// An object is counted either intrusively, by embedding Refcounted, or by a
// wrapper that New allocates around a plain value:
//
//	type Conn struct {
//	    refcount.Refcounted
//	    fd int
//	}
//
//	func (c *Conn) Destroy() { syscall.Close(c.fd) }
//
//	p := refcount.Adopt(&Conn{fd: fd}) // intrusive, count 1
//	q := refcount.New(Config{Name: "x"}) // wrapped, count 1, q.Get() is *Config
//
// Destroy, when the object implements Destroyer, runs exactly once: in the
// goroutine whose release takes the count from one to zero.
//
// # Ownership policy
//
// A freshly constructed object's count is one. That reference belongs to its
// creator. Adopt takes it over without incrementing; Share attaches a new
// handle to an object that is already owned and increments. New resets the
// count of the copy it allocates to one and adopts it.
//
// Ptr values are copied by Go assignment without any counting, so the
// handle operations are explicit:
//
//	q := p.Clone() // +1
//	r := p.Move()  // transfer, p is now null
//	q.Reset()      // -1, destroys at zero
//
// # Casts
//
// StaticCast, DynamicCast and DynamicCastMove change the element type under
// which an object is seen, typically between a concrete type and an
// interface it implements. A failed dynamic cast returns a null Ptr and
// leaves the source exactly as it was.
//
// # Concurrency
//
// The count is the only synchronised state. Any number of goroutines may
// Clone and Reset their own handles to one object concurrently. The package
// does nothing to protect the object's data, and a single Ptr value must not
// be used from several goroutines without coordination.
package refcount
