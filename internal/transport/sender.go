package transport

import (
	"bytes"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arjunsriva/rudpft/internal/congestion"
	"github.com/arjunsriva/rudpft/internal/rtt"
	"github.com/arjunsriva/rudpft/internal/wire"
	"github.com/arjunsriva/rudpft/internal/window"
)

// readBufferSlack covers the DATA frame header and an ACK's decimal
// digits on top of the negotiated mss, so readBufferSize(mss) always
// comfortably fits the largest datagram this protocol sends or
// receives.
const readBufferSlack = 128

func readBufferSize(mss int) int {
	return mss + readBufferSlack
}

// SenderHooks lets a caller observe sender progress without the
// transport package depending on metrics or progress-bar libraries
// directly — the same decoupling the teacher achieves by keeping
// transport/tcp free of anything outside the stack package.
type SenderHooks struct {
	// OnProgress is called with the new cumulative-ACK offset every
	// time a new (non-duplicate) ACK advances it.
	OnProgress func(ackedOffset uint64)
	// OnSample is called after every ACK and timeout event with a
	// snapshot of the sender's live transport state.
	OnSample func(Snapshot)
}

// Snapshot is a point-in-time view of sender state, consumed by
// internal/metrics and logging call sites.
type Snapshot struct {
	NextSeqNum        uint64
	LastAckReceived   uint64
	InFlight          int
	DuplicateAckCount int
	RetransmitCount   int
	SRTT              time.Duration
	RTO               time.Duration
	// Cwnd and Ssthresh are -1 for the fixed-window regime, which has
	// no congestion window.
	Cwnd     int
	Ssthresh int
	State    string
}

// Sender drives the sender main loop of spec section 4.4. It owns no
// concurrency itself: Run blocks the calling goroutine until the
// session completes or a fatal I/O error occurs.
type Sender struct {
	conn  PacketConn
	file  io.Reader
	win   *window.Window
	cc    congestion.Controller
	rto   *rtt.Estimator
	hooks SenderHooks
	log   *logrus.Entry
	mss   int

	peerAddr        *net.UDPAddr
	nextSeqNum      uint64
	lastAckReceived uint64
	hasAck          bool
	dupAckCount     int
	endSent         bool
	retransmitCount int
}

// NewSender constructs a Sender. cc selects the congestion-control
// regime (FixedWindow or AIMD); rtoEst is pre-seeded with the RTO
// bounds the caller wants in effect; mss is the largest payload a
// single DATA frame may carry (0 falls back to wire.MSS).
func NewSender(conn PacketConn, file io.Reader, cc congestion.Controller, rtoEst *rtt.Estimator, hooks SenderHooks, log *logrus.Entry, mss int) *Sender {
	if mss <= 0 {
		mss = wire.MSS
	}
	return &Sender{
		conn:  conn,
		file:  file,
		win:   window.New(),
		cc:    cc,
		rto:   rtoEst,
		hooks: hooks,
		log:   log,
		mss:   mss,
	}
}

// Run executes the handshake followed by the fill/wait/timeout loop
// until END_ACK is received. It returns only on session completion or
// a fatal socket/file error.
func (s *Sender) Run() error {
	if err := s.handshake(); err != nil {
		return err
	}
	s.log.WithField("peer", s.peerAddr).Info("handshake complete")

	for {
		if err := s.fill(); err != nil {
			return err
		}
		done, err := s.waitOnce()
		if err != nil {
			return err
		}
		if done {
			s.log.Info("session complete")
			return nil
		}
	}
}

// handshake blocks indefinitely until a START datagram is received,
// recording the sender's address as the peer. An intervening START
// received mid-session (after this point) is ignored by waitOnce.
func (s *Sender) handshake() error {
	buf := make([]byte, readBufferSize(s.mss))
	if err := s.conn.SetReadDeadline(time.Time{}); err != nil {
		return err
	}
	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return err
		}
		if bytes.Equal(buf[:n], wire.Start) {
			s.peerAddr = addr
			return nil
		}
	}
}

// fill sends new segments while the window has room and the file has
// unread bytes, per spec section 4.4 step 2.
func (s *Sender) fill() error {
	buf := make([]byte, s.mss)
	for s.win.Size() < s.cc.WindowBound() {
		n, err := s.file.Read(buf)
		if n == 0 {
			if err != nil && err != io.EOF {
				return err
			}
			if !s.endSent && s.win.Size() == 0 {
				if err := s.sendControl(wire.End); err != nil {
					return err
				}
				s.endSent = true
				s.log.Info("sent END")
			}
			return nil
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		seg := wire.Segment{SeqNum: s.nextSeqNum, Data: payload}
		encoded := wire.Encode(seg)
		if _, err := s.conn.WriteToUDP(encoded, s.peerAddr); err != nil {
			return err
		}
		s.win.Insert(s.nextSeqNum, encoded, n, time.Now())
		s.log.WithField("seq", s.nextSeqNum).Debug("sent segment")
		s.nextSeqNum += uint64(n)
	}
	return nil
}

// waitOnce blocks for one datagram (or the RTO deadline), dispatching
// it per spec section 4.4 steps 3-4. It returns done=true once END_ACK
// is received.
func (s *Sender) waitOnce() (bool, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.rto.RTO())); err != nil {
		return false, err
	}
	buf := make([]byte, readBufferSize(s.mss))
	n, _, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		if isTimeout(err) {
			return false, s.handleTimeout()
		}
		return false, err
	}

	dg := wire.Classify(buf[:n])
	switch dg.Kind {
	case wire.KindStart:
		s.log.Debug(ErrUnexpectedControl)
	case wire.KindEndAck:
		return true, nil
	case wire.KindAck:
		s.handleAck(dg.Ack)
	case wire.KindMalformed, wire.KindData, wire.KindEnd:
		// Not a valid response from a receiver; drop silently.
	}
	return false, nil
}

// handleAck implements the new-ACK and duplicate-ACK branches of spec
// section 4.4 step 3.
func (s *Sender) handleAck(ackSeq uint64) {
	if !s.hasAck || ackSeq > s.lastAckReceived {
		s.hasAck = true
		s.lastAckReceived = ackSeq
		s.dupAckCount = 0

		if entry, ok := s.win.Lookup(ackSeq); ok && !entry.Retransmitted {
			s.rto.Update(time.Since(entry.SentAt))
		}
		s.win.PruneBelow(ackSeq)
		s.cc.OnNewAck()

		if s.hooks.OnProgress != nil {
			s.hooks.OnProgress(ackSeq)
		}
	} else {
		s.dupAckCount++
		action, reset := s.cc.OnDuplicateAck(s.dupAckCount)
		if reset {
			s.dupAckCount = 0
		}
		if action == congestion.ActionRetransmitEarliest {
			s.win.RetransmitEarliest(time.Now(), s.retransmit)
			s.retransmitCount++
			s.log.WithField("dup_acks", s.dupAckCount).Info("fast retransmit")
		}
	}
	s.sample()
}

// handleTimeout implements spec section 4.4 step 4.
func (s *Sender) handleTimeout() error {
	s.dupAckCount = 0
	s.cc.OnTimeout()
	if err := s.win.RetransmitAll(time.Now(), s.retransmit); err != nil {
		return err
	}
	if s.win.Size() > 0 {
		s.retransmitCount++
	}
	if s.endSent && s.win.Size() == 0 {
		if err := s.sendControl(wire.End); err != nil {
			return err
		}
		s.log.Info("resent END after timeout")
	}
	s.sample()
	return nil
}

func (s *Sender) retransmit(seqNum uint64, b []byte) error {
	_, err := s.conn.WriteToUDP(b, s.peerAddr)
	return err
}

func (s *Sender) sendControl(token []byte) error {
	_, err := s.conn.WriteToUDP(token, s.peerAddr)
	return err
}

func (s *Sender) sample() {
	if s.hooks.OnSample == nil {
		return
	}
	snap := Snapshot{
		NextSeqNum:        s.nextSeqNum,
		LastAckReceived:   s.lastAckReceived,
		InFlight:          s.win.Size(),
		DuplicateAckCount: s.dupAckCount,
		RetransmitCount:   s.retransmitCount,
		SRTT:              s.rto.SRTT(),
		RTO:               s.rto.RTO(),
		Cwnd:              -1,
		Ssthresh:          -1,
	}
	if aimd, ok := s.cc.(*congestion.AIMD); ok {
		snap.Cwnd = aimd.Cwnd()
		snap.Ssthresh = aimd.Ssthresh()
		snap.State = aimd.State().String()
	}
	s.hooks.OnSample(snap)
}
