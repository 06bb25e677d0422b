package erroror

import (
	"errors"
	"reflect"
)

// OKer is implemented by error types with more than one "no error" value,
// such as status codes where every 2xx is a success. When E implements it,
// OK decides success instead of comparing with the zero E. The zero E must
// still report OK.
type OKer interface {
	OK() bool
}

func isOK[E comparable](e E) bool {
	if o, ok := any(e).(OKer); ok {
		return o.OK()
	}
	var zero E
	return e == zero
}

// equal is a == b for comparable types whose dynamic values may not be, like
// an error interface holding a slice. Those are compared deeply instead of
// panicking.
func equal[V comparable](a, b V) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(any(a), any(b))
		}
	}()
	return a == b
}

// matches reports whether e equals target or, for errors, wraps it.
func matches[E comparable](e, target E) bool {
	if equal(e, target) {
		return true
	}
	err, ok := any(e).(error)
	if !ok {
		return false
	}
	t, _ := any(target).(error)
	return errors.Is(err, t)
}
