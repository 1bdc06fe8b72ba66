package wire

import (
	"bytes"
	"strconv"
)

// The three literal control tokens. Sent and compared as-is, never
// length-prefixed or escaped.
var (
	Start  = []byte("START")
	End    = []byte("END")
	EndAck = []byte("END_ACK")
)

// EncodeAck serializes a cumulative ACK as decimal ASCII: no sign, no
// leading zero padding beyond what strconv produces naturally, no
// trailing whitespace.
func EncodeAck(seqNum uint64) []byte {
	return []byte(strconv.FormatUint(seqNum, 10))
}

// DecodeAck parses a decimal ASCII ACK. It fails with
// ErrMalformedSegment if b is not a plain non-negative base-10 integer.
func DecodeAck(b []byte) (uint64, error) {
	v, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, ErrMalformedSegment
	}
	return v, nil
}

// Kind identifies what a received datagram decodes as.
type Kind int

const (
	KindMalformed Kind = iota
	KindStart
	KindEnd
	KindEndAck
	KindAck
	KindData
)

// String implements fmt.Stringer, mainly for log lines.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "START"
	case KindEnd:
		return "END"
	case KindEndAck:
		return "END_ACK"
	case KindAck:
		return "ACK"
	case KindData:
		return "DATA"
	default:
		return "MALFORMED"
	}
}

// Datagram is the result of classifying one received UDP datagram.
type Datagram struct {
	Kind    Kind
	Ack     uint64
	Segment Segment
}

// Classify parses a raw datagram into one of the wire protocol's five
// shapes. The three literal control tokens are tried first since
// they're cheap exact matches, then a decimal ACK, and only then a DATA
// frame — the codec distinguishes DATA from control on size and
// literal/decimal match rather than a type tag, per the wire format
// notes.
func Classify(b []byte) Datagram {
	switch {
	case bytes.Equal(b, Start):
		return Datagram{Kind: KindStart}
	case bytes.Equal(b, End):
		return Datagram{Kind: KindEnd}
	case bytes.Equal(b, EndAck):
		return Datagram{Kind: KindEndAck}
	}

	if ack, err := DecodeAck(b); err == nil {
		return Datagram{Kind: KindAck, Ack: ack}
	}

	if seg, err := DecodeSegment(b); err == nil {
		return Datagram{Kind: KindData, Segment: seg}
	}

	return Datagram{Kind: KindMalformed}
}
