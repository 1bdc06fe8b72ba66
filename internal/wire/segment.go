// Package wire implements the codec for the reliable-UDP wire protocol:
// DATA segments and the three control tokens. It is a pure function of
// bytes with no knowledge of sockets, timers, or session state.
package wire

import "encoding/binary"

// MSS is the maximum segment size: the largest payload, in bytes, a
// single DATA frame may carry. Both congestion-control regimes express
// their window bounds in terms of it.
const MSS = 1400

// headerSize is the fixed DATA frame header: an 8-byte big-endian
// seq_num followed by a 4-byte big-endian data_len. This replaces the
// original system's tagged object serialization (see design notes) with
// a fixed layout that doesn't require a general-purpose unpickler on the
// receiving end.
const headerSize = 8 + 4

// Segment is a DATA frame: payload bytes starting at byte offset SeqNum
// within the file being transferred.
type Segment struct {
	SeqNum uint64
	Data   []byte
}

// Encode serializes seg using the fixed binary layout.
func Encode(seg Segment) []byte {
	b := make([]byte, headerSize+len(seg.Data))
	binary.BigEndian.PutUint64(b[0:8], seg.SeqNum)
	binary.BigEndian.PutUint32(b[8:12], uint32(len(seg.Data)))
	copy(b[headerSize:], seg.Data)
	return b
}

// DecodeSegment parses a DATA frame. It fails with ErrMalformedSegment
// if the datagram is shorter than the header, or if data_len disagrees
// with the number of payload bytes actually present.
func DecodeSegment(b []byte) (Segment, error) {
	if len(b) < headerSize {
		return Segment{}, ErrMalformedSegment
	}

	seqNum := binary.BigEndian.Uint64(b[0:8])
	dataLen := binary.BigEndian.Uint32(b[8:12])
	if len(b)-headerSize != int(dataLen) {
		return Segment{}, ErrMalformedSegment
	}

	data := make([]byte, dataLen)
	copy(data, b[headerSize:])
	return Segment{SeqNum: seqNum, Data: data}, nil
}
