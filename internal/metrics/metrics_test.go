package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/arjunsriva/rudpft/internal/transport"
)

func gaugeValue(t *testing.T, families []*dto.MetricFamily, name string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		if len(fam.Metric) != 1 {
			t.Fatalf("metric %s: got %d series, want 1", name, len(fam.Metric))
		}
		return fam.Metric[0].GetGauge().GetValue()
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestSenderCollectorPublishesSnapshot(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := NewSenderCollector("test-session")
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	c.Update(transport.Snapshot{
		NextSeqNum:        2800,
		LastAckReceived:   1400,
		InFlight:          1,
		DuplicateAckCount: 2,
		RetransmitCount:   1,
		SRTT:              100 * time.Millisecond,
		RTO:               1200 * time.Millisecond,
		Cwnd:              4200,
		Ssthresh:          22400,
	})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if got := gaugeValue(t, families, "rudpft_sender_cwnd_bytes"); got != 4200 {
		t.Errorf("cwnd = %v, want 4200", got)
	}
	if got := gaugeValue(t, families, "rudpft_sender_next_seq_num"); got != 2800 {
		t.Errorf("next_seq_num = %v, want 2800", got)
	}
	if got := gaugeValue(t, families, "rudpft_sender_rto_seconds"); got != 1.2 {
		t.Errorf("rto_seconds = %v, want 1.2", got)
	}
}

func TestReceiverCollectorPublishesSnapshot(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := NewReceiverCollector("test-session")
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	c.Update(transport.ReceiverSnapshot{ExpectedSeqNum: 1400, BufferedCount: 1, AcksSent: 3})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if got := gaugeValue(t, families, "rudpft_receiver_expected_seq_num"); got != 1400 {
		t.Errorf("expected_seq_num = %v, want 1400", got)
	}
	if got := gaugeValue(t, families, "rudpft_receiver_acks_sent"); got != 3 {
		t.Errorf("acks_sent = %v, want 3", got)
	}
}

// Ensure both collectors satisfy prometheus.Collector at compile time.
var (
	_ prometheus.Collector = (*SenderCollector)(nil)
	_ prometheus.Collector = (*ReceiverCollector)(nil)
)
