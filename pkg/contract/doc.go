// Package contract defines the contract violations raised by the primitives
// in pkg/erroror and pkg/refcount.
//
// A contract violation is a precondition failure caused by the caller, not a
// runtime condition. It is never returned as an error value: the primitive
// panics with a *Violation instead.
//
// # Sentinels
//
//   - ErrMissingValue: a failed result was built from the "no error" value
//   - ErrNoValue: the payload of a failed result was accessed
//   - ErrBadCast: a static pointer cast targeted a type the object is not
//   - ErrReleased: a destroyed object was referenced again
//   - ErrOverRelease: a count was decremented below zero
//   - ErrNotCopyable: a counted object without a safe copy was copied
//
// Every violation also matches ErrViolation:
//
//	err := contract.Catch(func() {
//	    _ = erroror.Error[int, Code](0)
//	})
//	errors.Is(err, contract.ErrViolation)    // true
//	errors.Is(err, contract.ErrMissingValue) // true
//	contract.KindOf(err)                     // KindMissingValue
//
// # Catching
//
// Catch runs a function and converts a violation panic back into an error.
// Any other panic propagates unchanged. It exists for tests and for harnesses
// that deliberately probe misuse; production code should let violations crash.
package contract
