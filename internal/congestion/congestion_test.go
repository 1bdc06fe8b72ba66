package congestion

import (
	"testing"

	"github.com/arjunsriva/rudpft/internal/wire"
)

func TestFixedWindowBoundIsConstant(t *testing.T) {
	f := NewFixedWindow(WindowSize, DupAckThreshold, true)
	if f.WindowBound() != WindowSize {
		t.Errorf("WindowBound = %d, want %d", f.WindowBound(), WindowSize)
	}
	f.OnNewAck()
	f.OnTimeout()
	if f.WindowBound() != WindowSize {
		t.Errorf("WindowBound after events = %d, want %d", f.WindowBound(), WindowSize)
	}
}

func TestFixedWindowBoundHonorsConfiguredSize(t *testing.T) {
	f := NewFixedWindow(10, DupAckThreshold, true)
	if f.WindowBound() != 10 {
		t.Errorf("WindowBound = %d, want 10", f.WindowBound())
	}
}

func TestFixedWindowFastRetransmitGatedByFlag(t *testing.T) {
	f := NewFixedWindow(WindowSize, DupAckThreshold, false)
	action, reset := f.OnDuplicateAck(DupAckThreshold)
	if action != ActionNone || reset {
		t.Errorf("disabled: got (%v, %v), want (ActionNone, false)", action, reset)
	}
}

func TestFixedWindowFastRetransmitFiresAndResets(t *testing.T) {
	f := NewFixedWindow(WindowSize, DupAckThreshold, true)
	action, reset := f.OnDuplicateAck(1)
	if action != ActionNone {
		t.Errorf("dupCount=1: action = %v, want ActionNone", action)
	}
	action, reset = f.OnDuplicateAck(DupAckThreshold)
	if action != ActionRetransmitEarliest || !reset {
		t.Errorf("dupCount=%d: got (%v, %v), want (ActionRetransmitEarliest, true)", DupAckThreshold, action, reset)
	}
}

func TestFixedWindowFastRetransmitHonorsConfiguredThreshold(t *testing.T) {
	f := NewFixedWindow(WindowSize, 5, true)
	action, _ := f.OnDuplicateAck(DupAckThreshold)
	if action != ActionNone {
		t.Errorf("dupCount=%d below configured threshold 5: action = %v, want ActionNone", DupAckThreshold, action)
	}
	action, reset := f.OnDuplicateAck(5)
	if action != ActionRetransmitEarliest || !reset {
		t.Errorf("dupCount=5: got (%v, %v), want (ActionRetransmitEarliest, true)", action, reset)
	}
}

func TestAIMDStartsInSlowStart(t *testing.T) {
	a := NewAIMD(wire.MSS, InitialCwnd, InitialSsthresh, DupAckThreshold)
	if a.State() != SlowStart {
		t.Errorf("State = %v, want SlowStart", a.State())
	}
	if a.Cwnd() != InitialCwnd {
		t.Errorf("Cwnd = %d, want %d", a.Cwnd(), InitialCwnd)
	}
	if a.Ssthresh() != InitialSsthresh {
		t.Errorf("Ssthresh = %d, want %d", a.Ssthresh(), InitialSsthresh)
	}
}

func TestAIMDSlowStartGrowsByMSSAndTransitions(t *testing.T) {
	a := NewAIMD(wire.MSS, InitialCwnd, InitialSsthresh, DupAckThreshold)
	for a.State() == SlowStart {
		a.OnNewAck()
	}
	if a.State() != CongestionAvoidance {
		t.Errorf("State = %v, want CongestionAvoidance", a.State())
	}
	if a.Cwnd() < InitialSsthresh {
		t.Errorf("Cwnd = %d, want >= %d after leaving slow start", a.Cwnd(), InitialSsthresh)
	}
}

func TestAIMDCongestionAvoidanceGrowsSlowly(t *testing.T) {
	a := &AIMD{mss: wire.MSS, cwnd: InitialSsthresh, ssthresh: InitialSsthresh, state: CongestionAvoidance}
	before := a.Cwnd()
	a.OnNewAck()
	if a.Cwnd() <= before {
		t.Errorf("Cwnd did not grow: before=%d after=%d", before, a.Cwnd())
	}
	// Growth per ACK in congestion avoidance should be far smaller than
	// a full MSS.
	if a.Cwnd()-before >= wire.MSS {
		t.Errorf("Cwnd grew by a full MSS (%d), want a fractional increment", a.Cwnd()-before)
	}
}

func TestAIMDFastRecoveryEntryAndInflation(t *testing.T) {
	a := &AIMD{mss: wire.MSS, dupAckThreshold: DupAckThreshold, cwnd: 8 * wire.MSS, ssthresh: InitialSsthresh, state: SlowStart}
	action, reset := a.OnDuplicateAck(DupAckThreshold)
	if action != ActionRetransmitEarliest {
		t.Errorf("entry action = %v, want ActionRetransmitEarliest", action)
	}
	if reset {
		t.Error("AIMD must never ask the caller to reset the duplicate-ACK counter")
	}
	if a.State() != FastRecovery {
		t.Errorf("State = %v, want FastRecovery", a.State())
	}
	wantSsthresh := maxInt(8*wire.MSS/2, wire.MSS)
	if a.Ssthresh() != wantSsthresh {
		t.Errorf("Ssthresh = %d, want %d", a.Ssthresh(), wantSsthresh)
	}
	wantCwnd := wantSsthresh + 3*wire.MSS
	if a.Cwnd() != wantCwnd {
		t.Errorf("Cwnd = %d, want %d", a.Cwnd(), wantCwnd)
	}

	before := a.Cwnd()
	action, reset = a.OnDuplicateAck(DupAckThreshold + 1)
	if action != ActionNone || reset {
		t.Errorf("repeat dup ack in fast recovery: got (%v, %v), want (ActionNone, false)", action, reset)
	}
	if a.Cwnd() != before+wire.MSS {
		t.Errorf("Cwnd = %d, want %d (inflate by one MSS)", a.Cwnd(), before+wire.MSS)
	}
}

func TestAIMDExitFastRecoveryOnNewAck(t *testing.T) {
	a := &AIMD{mss: wire.MSS, cwnd: 5 * wire.MSS, ssthresh: 4 * wire.MSS, state: FastRecovery}
	a.OnNewAck()
	if a.State() != CongestionAvoidance {
		t.Errorf("State = %v, want CongestionAvoidance", a.State())
	}
	if a.Cwnd() != 4*wire.MSS {
		t.Errorf("Cwnd = %d, want ssthresh %d", a.Cwnd(), 4*wire.MSS)
	}
}

func TestAIMDTimeoutHalvesAndResetsToSlowStart(t *testing.T) {
	a := &AIMD{mss: wire.MSS, initialCwnd: InitialCwnd, cwnd: 10 * wire.MSS, ssthresh: InitialSsthresh, state: CongestionAvoidance}
	a.OnTimeout()
	if a.State() != SlowStart {
		t.Errorf("State = %v, want SlowStart", a.State())
	}
	if a.Cwnd() != InitialCwnd {
		t.Errorf("Cwnd = %d, want initial %d", a.Cwnd(), InitialCwnd)
	}
	if a.Ssthresh() != 5*wire.MSS {
		t.Errorf("Ssthresh = %d, want %d", a.Ssthresh(), 5*wire.MSS)
	}
}
