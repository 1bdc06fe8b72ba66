// Package congestion implements the two congestion-control regimes of
// spec sections 4.4 and 4.5: a fixed-size window (p1) and an AIMD
// window governed by a slow-start/congestion-avoidance/fast-recovery
// state machine (p2, modeled on TCP Tahoe/Reno).
package congestion

// Action is a side effect a Controller asks its caller to perform in
// response to an ACK event. The controller only decides policy; the
// caller (internal/transport) owns the socket and the window.
type Action int

const (
	// ActionNone means no additional retransmission is required beyond
	// whatever the caller already does for this event.
	ActionNone Action = iota
	// ActionRetransmitEarliest means the caller should retransmit the
	// earliest outstanding segment (fast retransmit).
	ActionRetransmitEarliest
)

// Controller is the policy surface both congestion-control regimes
// implement. internal/transport drives it purely through ACK and
// timeout events; it holds no socket or window state itself.
type Controller interface {
	// WindowBound returns how many segments may be outstanding right
	// now: the configured window size (fixed window) or cwnd divided by
	// mss (AIMD).
	WindowBound() int

	// OnNewAck is called when a cumulative ACK advances last_ack_received.
	OnNewAck()

	// OnDuplicateAck is called when an ACK repeats last_ack_received.
	// dupCount is the running duplicate count after this ACK is
	// counted. It returns what the caller should do and whether the
	// caller should reset its duplicate-ACK counter afterward. The two
	// regimes intentionally disagree on the latter; see DESIGN.md.
	OnDuplicateAck(dupCount int) (action Action, resetDupCount bool)

	// OnTimeout is called when no ACK arrives before the RTO expires.
	OnTimeout()
}
