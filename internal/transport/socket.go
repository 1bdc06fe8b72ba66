// Package transport implements the sender and receiver main loops of
// spec sections 4.4 and 4.7: the single-threaded event loops that drive
// the window, congestion controller, RTT estimator, and reassembly
// buffer over a UDP socket.
package transport

import (
	"net"
	"time"
)

// PacketConn narrows *net.UDPConn to the surface the sender and
// receiver loops actually use, the same way the teacher narrows its
// link-layer endpoints to small interfaces rather than depending on
// concrete net types directly. This lets tests drive the loops over an
// in-memory fake without a real socket.
type PacketConn interface {
	SetReadDeadline(t time.Time) error
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
}
