package transport

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arjunsriva/rudpft/internal/reassembly"
	"github.com/arjunsriva/rudpft/internal/wire"
)

// ReceiverDeadline is the fixed 2-second recv deadline spec section 6
// specifies for the receiver (the sender's deadline is adaptive RTO;
// the receiver's is not).
const ReceiverDeadline = 2 * time.Second

// ReceiverHooks mirrors SenderHooks for the receiver side.
type ReceiverHooks struct {
	// OnProgress is called with the current expected offset after every
	// DATA segment, whether or not that segment advanced it.
	OnProgress func(expectedOffset uint64)
	// OnSample is called after every received datagram other than END
	// with a snapshot of receiver state.
	OnSample func(ReceiverSnapshot)
}

// ReceiverSnapshot is a point-in-time view of receiver state.
type ReceiverSnapshot struct {
	ExpectedSeqNum  uint64
	BufferedCount   int
	AcksSent        int
}

// Receiver drives the receiver main loop of spec section 4.7.
type Receiver struct {
	conn       PacketConn
	serverAddr *net.UDPAddr
	buf        *reassembly.Buffer
	hooks      ReceiverHooks
	log        *logrus.Entry
	deadline   time.Duration
	mss        int

	acksSent int
}

// NewReceiver constructs a Receiver that will send its initial START to
// serverAddr and write reassembled bytes to the writer backing buf. A
// deadline <= 0 falls back to ReceiverDeadline; mss <= 0 falls back to
// wire.MSS.
func NewReceiver(conn PacketConn, serverAddr *net.UDPAddr, buf *reassembly.Buffer, hooks ReceiverHooks, log *logrus.Entry, deadline time.Duration, mss int) *Receiver {
	if deadline <= 0 {
		deadline = ReceiverDeadline
	}
	if mss <= 0 {
		mss = wire.MSS
	}
	return &Receiver{conn: conn, serverAddr: serverAddr, buf: buf, hooks: hooks, log: log, deadline: deadline, mss: mss}
}

// Run sends the initial START and then loops on recv until END is
// received and END_ACK has been sent, per spec section 4.7.
func (r *Receiver) Run() error {
	if err := r.sendControl(wire.Start); err != nil {
		return err
	}
	r.log.WithField("server", r.serverAddr).Info("sent START")

	buf := make([]byte, readBufferSize(r.mss))
	for {
		if err := r.conn.SetReadDeadline(time.Now().Add(r.deadline)); err != nil {
			return err
		}
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if isTimeout(err) {
				if err := r.sendAck(); err != nil {
					return err
				}
				continue
			}
			return err
		}

		dg := wire.Classify(buf[:n])
		switch dg.Kind {
		case wire.KindEnd:
			if err := r.sendControl(wire.EndAck); err != nil {
				return err
			}
			r.log.Info("sent END_ACK, session complete")
			return nil
		case wire.KindData:
			if err := r.buf.TryAbsorb(dg.Segment.SeqNum, dg.Segment.Data); err != nil {
				return err
			}
			if r.hooks.OnProgress != nil {
				r.hooks.OnProgress(r.buf.Expected())
			}
			if err := r.sendAck(); err != nil {
				return err
			}
		case wire.KindMalformed, wire.KindStart, wire.KindEndAck, wire.KindAck:
			// Anything else is either a duplicate handshake echo or
			// unparseable; drop silently per spec section 7.
		}
		r.sample()
	}
}

func (r *Receiver) sendAck() error {
	if err := r.sendControl(wire.EncodeAck(r.buf.Expected())); err != nil {
		return err
	}
	r.acksSent++
	return nil
}

func (r *Receiver) sendControl(b []byte) error {
	_, err := r.conn.WriteToUDP(b, r.serverAddr)
	return err
}

func (r *Receiver) sample() {
	if r.hooks.OnSample == nil {
		return
	}
	r.hooks.OnSample(ReceiverSnapshot{
		ExpectedSeqNum: r.buf.Expected(),
		BufferedCount:  r.buf.Buffered(),
		AcksSent:       r.acksSent,
	})
}
