package congestion

import "github.com/arjunsriva/rudpft/internal/wire"

// State is one of the three AIMD regime states.
type State int

const (
	SlowStart State = iota
	CongestionAvoidance
	FastRecovery
)

// String implements fmt.Stringer for logging.
func (s State) String() string {
	switch s {
	case SlowStart:
		return "slow_start"
	case CongestionAvoidance:
		return "congestion_avoidance"
	case FastRecovery:
		return "fast_recovery"
	default:
		return "unknown"
	}
}

// Initial cwnd/ssthresh values from spec section 4.5 (and the p2
// prototype's INITIAL_CWND / THRESHOLD_CWND), for callers of NewAIMD
// that have no config overlay to draw from.
const (
	InitialCwnd     = 1 * wire.MSS
	InitialSsthresh = 16 * wire.MSS
)

// AIMD implements the p2 congestion-control regime: additive-increase
// multiplicative-decrease window growth modeled on TCP Tahoe/Reno, with
// three states (SlowStart, CongestionAvoidance, FastRecovery). mss,
// the initial cwnd, and the dup-ack threshold are all explicit
// constructor parameters so a config overlay can vary them per session.
type AIMD struct {
	mss             int
	initialCwnd     int
	dupAckThreshold int

	cwnd     float64
	ssthresh int
	state    State
}

// NewAIMD returns an AIMD controller starting in slow start with the
// given initial cwnd and ssthresh, sized in units of mss, firing fast
// retransmit on dupAckThreshold duplicate ACKs.
func NewAIMD(mss, initialCwnd, initialSsthresh, dupAckThreshold int) *AIMD {
	return &AIMD{
		mss:             mss,
		initialCwnd:     initialCwnd,
		dupAckThreshold: dupAckThreshold,
		cwnd:            float64(initialCwnd),
		ssthresh:        initialSsthresh,
		state:           SlowStart,
	}
}

// WindowBound returns the number of MSS-sized segments that fit in the
// current cwnd — the p2 prototype's "window_size = cwnd // MSS".
func (a *AIMD) WindowBound() int {
	return int(a.cwnd) / a.mss
}

// Cwnd returns the current congestion window in bytes, for metrics.
func (a *AIMD) Cwnd() int {
	return int(a.cwnd)
}

// Ssthresh returns the current slow-start threshold in bytes, for
// metrics.
func (a *AIMD) Ssthresh() int {
	return a.ssthresh
}

// State returns the current regime state, for metrics.
func (a *AIMD) State() State {
	return a.state
}

// OnNewAck grows cwnd according to the current state: additively by one
// MSS per new ACK in slow start (exponential growth across RTTs) until
// ssthresh is crossed, then by the classic 1/cwnd fractional increment
// in congestion avoidance; exiting fast recovery drops cwnd back to
// ssthresh and resumes congestion avoidance. This mirrors the p2
// prototype's cumulative-ACK branch exactly.
func (a *AIMD) OnNewAck() {
	mss := float64(a.mss)
	switch a.state {
	case SlowStart:
		a.cwnd += mss
		if a.cwnd >= float64(a.ssthresh) {
			a.state = CongestionAvoidance
		}
	case CongestionAvoidance:
		a.cwnd += mss * (mss / a.cwnd)
	case FastRecovery:
		a.cwnd = float64(a.ssthresh)
		a.state = CongestionAvoidance
	}
}

// OnDuplicateAck enters fast recovery on the DupAckThreshold-th
// duplicate ACK (halving cwnd into ssthresh, then inflating cwnd by
// three segments), or inflates cwnd by one more MSS per additional
// duplicate ACK while already in fast recovery. Unlike FixedWindow, it
// never asks the caller to reset the duplicate-ACK counter: the p2
// prototype only resets duplicate_ack_count in the new-ACK branch, so
// the counter keeps climbing for as long as fast recovery lasts, until
// a new ACK arrives (the sender also zeroes it on timeout).
func (a *AIMD) OnDuplicateAck(dupCount int) (Action, bool) {
	if dupCount >= a.dupAckThreshold && a.state != FastRecovery {
		a.ssthresh = maxInt(int(a.cwnd)/2, a.mss)
		a.cwnd = float64(a.ssthresh + 3*a.mss)
		a.state = FastRecovery
		return ActionRetransmitEarliest, false
	}
	if a.state == FastRecovery {
		a.cwnd += float64(a.mss)
	}
	return ActionNone, false
}

// OnTimeout halves cwnd into ssthresh and resets to the initial cwnd in
// slow start, matching the p2 prototype's timeout branch.
func (a *AIMD) OnTimeout() {
	a.ssthresh = maxInt(int(a.cwnd)/2, a.mss)
	a.cwnd = float64(a.initialCwnd)
	a.state = SlowStart
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
