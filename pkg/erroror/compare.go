package erroror

// Equal reports whether a and b hold equal values or equal errors.
// An ok result never equals a failed one. Dynamic values that Go cannot
// compare with == are compared deeply.
func Equal[T, E comparable](a, b Of[T, E]) bool {
	if a.OK() && b.OK() {
		return equal(a.value, b.value)
	}
	return equal(a.err, b.err)
}

// EqualFunc compares results of different types field by field: payloads
// with eqValue when both are ok, errors with eqErr when both failed. With a
// nil eqErr two failed results never compare equal.
func EqualFunc[T1 any, E1 comparable, T2 any, E2 comparable](
	a Of[T1, E1],
	b Of[T2, E2],
	eqValue func(T1, T2) bool,
	eqErr func(E1, E2) bool,
) bool {
	switch {
	case a.OK() && b.OK():
		return eqValue(a.value, b.value)
	case a.OK() != b.OK():
		return false
	case eqErr == nil:
		return false
	default:
		return eqErr(a.err, b.err)
	}
}

// Holds reports whether r is ok and its payload equals v.
func Holds[T, E comparable](r Of[T, E], v T) bool {
	return r.OK() && equal(r.value, v)
}

// Map applies f to the payload of a successful r. Errors pass through.
func Map[T, U any, E comparable](r Of[T, E], f func(T) U) Of[U, E] {
	if !r.OK() {
		return Of[U, E]{err: r.err}
	}
	return Of[U, E]{value: f(r.value)}
}

// Then chains a fallible step after a successful r. Errors pass through.
func Then[T, U any, E comparable](r Of[T, E], f func(T) Of[U, E]) Of[U, E] {
	if !r.OK() {
		return Of[U, E]{err: r.err}
	}
	return f(r.value)
}

// MapErr converts the error of a failed r. f must not map a real error to the
// "no error" E2 unless T is Empty.
func MapErr[T any, E1, E2 comparable](r Of[T, E1], f func(E1) E2) Of[T, E2] {
	if r.OK() {
		return Of[T, E2]{value: r.value}
	}
	return Error[T](f(r.err))
}
