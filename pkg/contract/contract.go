package contract

import (
	"errors"
	"fmt"
)

var (
	// ErrViolation is matched by every contract violation.
	ErrViolation = errors.New("contract violation")

	// ErrMissingValue indicates a failed result built from the "no error" value
	ErrMissingValue = errors.New("no error given where a value was required")

	// ErrNoValue indicates access to the payload of a failed result
	ErrNoValue = errors.New("value accessed on a failed result")

	// ErrBadCast indicates a static cast to a type the object is not
	ErrBadCast = errors.New("invalid static cast")

	// ErrReleased indicates a new reference to an already destroyed object
	ErrReleased = errors.New("object already destroyed")

	// ErrOverRelease indicates more decrements than references
	ErrOverRelease = errors.New("reference count decremented below zero")

	// ErrNotCopyable indicates a copy of an object that cannot be copied
	// without reading its reference count
	ErrNotCopyable = errors.New("object cannot be copied")
)

// Kind classifies a contract violation.
type Kind int

const (
	// KindUnknown represents an unclassified error
	KindUnknown Kind = iota
	// KindMissingValue represents ErrMissingValue
	KindMissingValue
	// KindNoValue represents ErrNoValue
	KindNoValue
	// KindBadCast represents ErrBadCast
	KindBadCast
	// KindReleased represents ErrReleased
	KindReleased
	// KindOverRelease represents ErrOverRelease
	KindOverRelease
	// KindNotCopyable represents ErrNotCopyable
	KindNotCopyable
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindMissingValue:
		return "MissingValue"
	case KindNoValue:
		return "NoValue"
	case KindBadCast:
		return "BadCast"
	case KindReleased:
		return "Released"
	case KindOverRelease:
		return "OverRelease"
	case KindNotCopyable:
		return "NotCopyable"
	default:
		return "Unknown"
	}
}

// kindPriorities is the order KindOf checks sentinels in.
// Lifetime violations come first: they usually cause the others.
var kindPriorities = []struct {
	kind Kind
	err  error
}{
	{KindOverRelease, ErrOverRelease},
	{KindReleased, ErrReleased},
	{KindBadCast, ErrBadCast},
	{KindNotCopyable, ErrNotCopyable},
	{KindMissingValue, ErrMissingValue},
	{KindNoValue, ErrNoValue},
}

// KindOf returns the Kind of err, walking its chain. For joined errors the
// first kind in priority order wins. Returns KindUnknown for nil and for
// errors that are not violations.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, p := range kindPriorities {
		if errors.Is(err, p.err) {
			return p.kind
		}
	}
	return KindUnknown
}

// Violation is the panic value raised on a contract violation.
type Violation struct {
	Kind    Kind
	Message string
	err     error
}

// Error implements error.
func (v *Violation) Error() string {
	if v.Message == "" {
		return fmt.Sprintf("%s: %s", ErrViolation, v.err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrViolation, v.err, v.Message)
}

// Unwrap exposes both ErrViolation and the specific sentinel.
func (v *Violation) Unwrap() []error {
	return []error{ErrViolation, v.err}
}

// New builds a violation for sentinel with a formatted message.
func New(sentinel error, format string, args ...any) *Violation {
	return &Violation{
		Kind:    KindOf(sentinel),
		Message: fmt.Sprintf(format, args...),
		err:     sentinel,
	}
}

// Panic raises a violation for sentinel.
func Panic(sentinel error, format string, args ...any) {
	panic(New(sentinel, format, args...))
}

// Require panics with a violation for sentinel unless condition holds.
func Require(condition bool, sentinel error, format string, args ...any) {
	if condition {
		return
	}
	Panic(sentinel, format, args...)
}

// Catch calls fn and returns the violation it panicked with, or nil if it
// returned normally. Panics that are not violations are re-raised.
func Catch(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		v, ok := r.(*Violation)
		if !ok {
			panic(r)
		}
		err = v
	}()
	fn()
	return nil
}

// IsViolation reports whether err is a contract violation.
func IsViolation(err error) bool {
	return errors.Is(err, ErrViolation)
}
