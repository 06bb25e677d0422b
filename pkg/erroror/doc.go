// Package erroror provides Of, a value holding either a result or an error.
//
// Of[T, E] is for code that reports failure through a domain error type
// rather than Go's error interface, or that needs to store "result or error"
// as a single value: in a struct field, a channel, a slice of outcomes.
// The fully qualified name reads as erroror.Of[T, E].
//
// The error type E must be comparable and its zero value must mean "no error".
// That makes enums, integer codes and the error interface itself all usable:
//
//	type Code int
//
//	const (
//	    Timeout Code = iota + 1
//	    Refused
//	)
//
//	func dial(addr string) erroror.Of[*Conn, Code] {
//	    if addr == "" {
//	        return erroror.Error[*Conn](Refused)
//	    }
//	    return erroror.Value[*Conn, Code](&Conn{addr: addr})
//	}
//
//	if r := dial("db:5432"); r.OK() {
//	    use(r.Value())
//	} else {
//	    log.Printf("dial: code %d", r.Err())
//	}
//
// An E with more success values than its zero implements OKer:
//
//	type HTTPStatus int
//
//	func (s HTTPStatus) OK() bool { return s == 0 || s/100 == 2 }
//
// # Contract
//
// Building a failed Of from a "no error" E is a contract violation: a value was
// required but omitted. Error panics with a *contract.Violation in that case.
// So does reading the payload of a failed Of. Neither is a condition to
// handle at runtime; both are bugs at the call site.
//
// Status[E] is the payload-free form. It carries only E, and "no error" is
// its success state, so StatusOf accepts any E.
//
// Of is a plain value. Copying it copies the state; it has no shared mutable
// parts and no synchronisation.
package erroror
