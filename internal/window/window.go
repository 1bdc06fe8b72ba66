// Package window implements the sender's transmit window: the map of
// in-flight segments keyed by sequence number, per spec section 4.3.
package window

import (
	"time"

	"github.com/arjunsriva/rudpft/internal/ilist"
)

// Entry is one in-flight segment: the exact bytes last transmitted for
// it, the timestamp of that transmission, and whether the transmission
// was a retransmission. Retransmitted segments are excluded from RTT
// sampling by the caller (Karn's algorithm).
type Entry struct {
	ilist.Entry

	SeqNum        uint64
	Bytes         []byte
	PayloadLen    int
	SentAt        time.Time
	Retransmitted bool
}

// Window is the sender's unacked map. Keys are sparse sequence numbers;
// an ilist.List threaded through the same entries is kept in ascending
// order by Insert, so ordered retransmission needs no sort pass.
type Window struct {
	entries map[uint64]*Entry
	order   ilist.List
}

// New returns an empty transmit window.
func New() *Window {
	return &Window{entries: make(map[uint64]*Entry)}
}

// Insert records a newly transmitted segment. encoded is the exact wire
// bytes sent; payloadLen is the length of the segment's payload only
// (used by ByteSize for the AIMD cwnd bound).
func (w *Window) Insert(seqNum uint64, encoded []byte, payloadLen int, sentAt time.Time) {
	e := &Entry{SeqNum: seqNum, Bytes: encoded, PayloadLen: payloadLen, SentAt: sentAt}
	w.entries[seqNum] = e

	// Entries keyed above seqNum are moved behind the new one so the
	// list stays in ascending order even for out-of-order inserts.
	var later []*Entry
	for l := w.order.Front(); l != nil; {
		next := l.Next()
		if le := l.(*Entry); le.SeqNum > seqNum {
			w.order.Remove(le)
			later = append(later, le)
		}
		l = next
	}
	w.order.PushBack(e)
	for _, le := range later {
		w.order.PushBack(le)
	}
}

// Lookup returns the entry for seqNum, if it is still in flight.
func (w *Window) Lookup(seqNum uint64) (*Entry, bool) {
	e, ok := w.entries[seqNum]
	return e, ok
}

// PruneBelow removes every entry with a key strictly less than ackSeq —
// the cumulative-ACK semantics of spec section 4.3. Because entries are
// kept in ascending order and ACKs are cumulative, it is always the
// list's front entries that qualify.
func (w *Window) PruneBelow(ackSeq uint64) {
	for {
		front := w.order.Front()
		if front == nil {
			return
		}
		e := front.(*Entry)
		if e.SeqNum >= ackSeq {
			return
		}
		w.order.Remove(e)
		delete(w.entries, e.SeqNum)
	}
}

// Size returns the number of in-flight segments (the fixed-window
// bound).
func (w *Window) Size() int {
	return len(w.entries)
}

// ByteSize returns the sum of in-flight payload lengths (the AIMD cwnd
// bound).
func (w *Window) ByteSize() int {
	total := 0
	for _, e := range w.entries {
		total += e.PayloadLen
	}
	return total
}

// Send transmits the bytes for one segment; implementations return an
// error only on a fatal socket failure.
type Send func(seqNum uint64, b []byte) error

// RetransmitAll resends every in-flight segment in ascending sequence
// order, refreshing each entry's timestamp and marking it as a
// retransmission. Stops and returns the first error encountered.
func (w *Window) RetransmitAll(now time.Time, send Send) error {
	for l := w.order.Front(); l != nil; l = l.Next() {
		e := l.(*Entry)
		if err := send(e.SeqNum, e.Bytes); err != nil {
			return err
		}
		e.SentAt = now
		e.Retransmitted = true
	}
	return nil
}

// RetransmitEarliest resends only the smallest-keyed in-flight segment,
// refreshing its timestamp and marking it as a retransmission. A no-op
// if the window is empty.
func (w *Window) RetransmitEarliest(now time.Time, send Send) error {
	front := w.order.Front()
	if front == nil {
		return nil
	}
	e := front.(*Entry)
	if err := send(e.SeqNum, e.Bytes); err != nil {
		return err
	}
	e.SentAt = now
	e.Retransmitted = true
	return nil
}
