package rtt

import (
	"testing"
	"time"
)

func TestFirstSampleSeedsSRTT(t *testing.T) {
	e := New(time.Second, time.Second, 2*time.Second)
	e.Update(1200 * time.Millisecond)

	if e.SRTT() != 1200*time.Millisecond {
		t.Errorf("SRTT = %v, want 1200ms", e.SRTT())
	}
	// rto = srtt + 4*rttvar = 1200ms + 4*600ms = 3600ms, clamped to max 2s
	if e.RTO() != 2*time.Second {
		t.Errorf("RTO = %v, want 2s (clamped)", e.RTO())
	}
}

func TestRTOClampedToMin(t *testing.T) {
	e := New(time.Second, time.Second, 2*time.Second)
	e.Update(1 * time.Millisecond)

	if e.RTO() < time.Second {
		t.Errorf("RTO = %v, want >= 1s floor", e.RTO())
	}
}

func TestRTOStaysWithinBoundsAcrossSamples(t *testing.T) {
	e := New(time.Second, time.Second, 2*time.Second)
	samples := []time.Duration{
		50 * time.Millisecond,
		800 * time.Millisecond,
		10 * time.Millisecond,
		1500 * time.Millisecond,
		5 * time.Millisecond,
	}
	for _, s := range samples {
		e.Update(s)
		if e.RTO() < time.Second || e.RTO() > 2*time.Second {
			t.Fatalf("RTO = %v out of [1s, 2s] after sample %v", e.RTO(), s)
		}
	}
}

func TestSubsequentSampleUsesWeightedAverage(t *testing.T) {
	e := New(time.Second, 0, time.Hour)
	e.Update(100 * time.Millisecond)
	e.Update(100 * time.Millisecond)

	// Second identical sample: rttvar decays toward 0, srtt stays ~100ms.
	if e.SRTT() != 100*time.Millisecond {
		t.Errorf("SRTT = %v, want 100ms", e.SRTT())
	}
}
