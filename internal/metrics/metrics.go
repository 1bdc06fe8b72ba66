// Package metrics exposes the live transport state of a sender or
// receiver session as Prometheus gauges, the Go-native analogue of
// reading a kernel tcp_info struct for a real TCP socket — here the
// numbers come from our own user-space congestion state rather than a
// syscall, since a UDP socket has no such kernel struct to read.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arjunsriva/rudpft/internal/transport"
)

// SenderCollector publishes a Sender's Snapshot as a set of gauges,
// labeled with the session id so one run's log lines and metrics
// series can be correlated. Update runs on the transport loop's
// goroutine while Collect runs on the metrics HTTP server's goroutine,
// so access to snap is mutex-guarded, matching the teacher pack's own
// TCPInfoCollector.
type SenderCollector struct {
	sessionID string
	mu        sync.Mutex
	snap      transport.Snapshot

	nextSeqNum        *prometheus.Desc
	lastAckReceived   *prometheus.Desc
	inFlight          *prometheus.Desc
	duplicateAckCount *prometheus.Desc
	retransmitCount   *prometheus.Desc
	srtt              *prometheus.Desc
	rto               *prometheus.Desc
	cwnd              *prometheus.Desc
	ssthresh          *prometheus.Desc
}

// NewSenderCollector returns a collector labeled with sessionID.
func NewSenderCollector(sessionID string) *SenderCollector {
	labels := []string{"session"}
	return &SenderCollector{
		sessionID:         sessionID,
		nextSeqNum:        prometheus.NewDesc("rudpft_sender_next_seq_num", "Next byte offset the sender will transmit.", labels, nil),
		lastAckReceived:   prometheus.NewDesc("rudpft_sender_last_ack_received", "Most recent cumulative ACK value.", labels, nil),
		inFlight:          prometheus.NewDesc("rudpft_sender_in_flight_segments", "Number of segments currently unacked.", labels, nil),
		duplicateAckCount: prometheus.NewDesc("rudpft_sender_duplicate_ack_count", "Running duplicate-ACK count since the last new ACK.", labels, nil),
		retransmitCount:   prometheus.NewDesc("rudpft_sender_retransmit_count", "Total retransmit events (fast retransmit or timeout).", labels, nil),
		srtt:              prometheus.NewDesc("rudpft_sender_srtt_seconds", "Smoothed round-trip time estimate.", labels, nil),
		rto:               prometheus.NewDesc("rudpft_sender_rto_seconds", "Current retransmission timeout.", labels, nil),
		cwnd:              prometheus.NewDesc("rudpft_sender_cwnd_bytes", "AIMD congestion window in bytes (-1 for fixed-window regime).", labels, nil),
		ssthresh:          prometheus.NewDesc("rudpft_sender_ssthresh_bytes", "AIMD slow-start threshold in bytes (-1 for fixed-window regime).", labels, nil),
	}
}

// Update records the latest snapshot to publish on the next Collect.
func (c *SenderCollector) Update(snap transport.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
}

// Describe implements prometheus.Collector.
func (c *SenderCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.nextSeqNum
	descs <- c.lastAckReceived
	descs <- c.inFlight
	descs <- c.duplicateAckCount
	descs <- c.retransmitCount
	descs <- c.srtt
	descs <- c.rto
	descs <- c.cwnd
	descs <- c.ssthresh
}

// Collect implements prometheus.Collector.
func (c *SenderCollector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	s := c.snap
	c.mu.Unlock()
	metrics <- prometheus.MustNewConstMetric(c.nextSeqNum, prometheus.GaugeValue, float64(s.NextSeqNum), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.lastAckReceived, prometheus.GaugeValue, float64(s.LastAckReceived), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.inFlight, prometheus.GaugeValue, float64(s.InFlight), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.duplicateAckCount, prometheus.GaugeValue, float64(s.DuplicateAckCount), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.retransmitCount, prometheus.GaugeValue, float64(s.RetransmitCount), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.srtt, prometheus.GaugeValue, s.SRTT.Seconds(), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.rto, prometheus.GaugeValue, s.RTO.Seconds(), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.cwnd, prometheus.GaugeValue, float64(s.Cwnd), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.ssthresh, prometheus.GaugeValue, float64(s.Ssthresh), c.sessionID)
}

// ReceiverCollector publishes a Receiver's ReceiverSnapshot.
type ReceiverCollector struct {
	sessionID string
	mu        sync.Mutex
	snap      transport.ReceiverSnapshot

	expectedSeqNum *prometheus.Desc
	bufferedCount  *prometheus.Desc
	acksSent       *prometheus.Desc
}

// NewReceiverCollector returns a collector labeled with sessionID.
func NewReceiverCollector(sessionID string) *ReceiverCollector {
	labels := []string{"session"}
	return &ReceiverCollector{
		sessionID:      sessionID,
		expectedSeqNum: prometheus.NewDesc("rudpft_receiver_expected_seq_num", "Next byte offset the receiver expects.", labels, nil),
		bufferedCount:  prometheus.NewDesc("rudpft_receiver_buffered_segments", "Number of out-of-order segments buffered.", labels, nil),
		acksSent:       prometheus.NewDesc("rudpft_receiver_acks_sent", "Total ACKs sent this session.", labels, nil),
	}
}

// Update records the latest snapshot to publish on the next Collect.
func (c *ReceiverCollector) Update(snap transport.ReceiverSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
}

// Describe implements prometheus.Collector.
func (c *ReceiverCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.expectedSeqNum
	descs <- c.bufferedCount
	descs <- c.acksSent
}

// Collect implements prometheus.Collector.
func (c *ReceiverCollector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	s := c.snap
	c.mu.Unlock()
	metrics <- prometheus.MustNewConstMetric(c.expectedSeqNum, prometheus.GaugeValue, float64(s.ExpectedSeqNum), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.bufferedCount, prometheus.GaugeValue, float64(s.BufferedCount), c.sessionID)
	metrics <- prometheus.MustNewConstMetric(c.acksSent, prometheus.GaugeValue, float64(s.AcksSent), c.sessionID)
}

// Serve registers collectors and blocks serving /metrics on addr.
func Serve(addr string, collectors ...prometheus.Collector) error {
	reg := prometheus.NewRegistry()
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
