package congestion

// WindowSize and DupAckThreshold are the spec's default values for the
// p1 regime (spec section 4.4); NewFixedWindow takes both as explicit
// parameters so a config overlay can vary them per session.
const (
	WindowSize      = 5
	DupAckThreshold = 3
)

// FixedWindow implements the p1 congestion-control regime: a constant
// window of windowSize segments, with fast retransmit on
// dupAckThreshold duplicate ACKs gated behind an enable flag — the
// original prototype's "fast_recovery" CLI argument.
type FixedWindow struct {
	windowSize            int
	dupAckThreshold       int
	fastRetransmitEnabled bool
}

// NewFixedWindow returns a FixedWindow controller bounded to windowSize
// in-flight segments, firing fast retransmit on dupAckThreshold
// duplicate ACKs. fastRetransmitEnabled mirrors the prototype's
// enable_fast_recovery argument: when false, duplicate ACKs are counted
// but never trigger a retransmission, and the sender relies solely on
// RTO expiry.
func NewFixedWindow(windowSize, dupAckThreshold int, fastRetransmitEnabled bool) *FixedWindow {
	return &FixedWindow{windowSize: windowSize, dupAckThreshold: dupAckThreshold, fastRetransmitEnabled: fastRetransmitEnabled}
}

// WindowBound always returns windowSize; the fixed regime never
// changes its bound in response to network conditions.
func (f *FixedWindow) WindowBound() int {
	return f.windowSize
}

// OnNewAck is a no-op: the fixed regime has no window-size state to
// adjust, only the dup-ack counter, which the caller resets itself on
// every new ACK.
func (f *FixedWindow) OnNewAck() {}

// OnDuplicateAck fires fast retransmit once dupCount reaches
// dupAckThreshold, provided fast retransmit is enabled, and always
// resets the duplicate-ACK counter immediately after firing — matching
// the prototype's explicit "Reset after fast recovery retransmission."
func (f *FixedWindow) OnDuplicateAck(dupCount int) (Action, bool) {
	if f.fastRetransmitEnabled && dupCount >= f.dupAckThreshold {
		return ActionRetransmitEarliest, true
	}
	return ActionNone, false
}

// OnTimeout is a no-op: the fixed regime does not shrink its window on
// timeout, it simply relies on the caller retransmitting everything
// outstanding.
func (f *FixedWindow) OnTimeout() {}
