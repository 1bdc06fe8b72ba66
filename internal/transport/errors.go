package transport

import "net"

// Error is the transport package's sentinel error type, mirroring the
// teacher's types.Error and internal/wire.Error rather than scattering
// ad hoc errors.New calls through the loops.
type Error struct {
	s string
}

func (e *Error) Error() string {
	return e.s
}

// ErrUnexpectedControl marks a control token received in a state that
// does not expect it (spec section 7): a START received mid-session.
// It is never returned to a caller; the sender logs it at debug level
// and ignores it, and the receiver drops a START silently, per the
// propagation policy.
var ErrUnexpectedControl = &Error{"transport: unexpected control token"}

// isTimeout reports whether err is a deadline-exceeded error from a
// blocking socket read, the one non-fatal, expected error kind in the
// entire loop.
func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
