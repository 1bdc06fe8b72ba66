package wire

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeSegmentRoundTrip(t *testing.T) {
	seg := Segment{SeqNum: 2800, Data: []byte("hello world")}
	b := Encode(seg)

	got, err := DecodeSegment(b)
	if err != nil {
		t.Fatalf("DecodeSegment: %v", err)
	}
	if got.SeqNum != seg.SeqNum {
		t.Errorf("SeqNum = %d, want %d", got.SeqNum, seg.SeqNum)
	}
	if !bytes.Equal(got.Data, seg.Data) {
		t.Errorf("Data = %q, want %q", got.Data, seg.Data)
	}
}

func TestDecodeSegmentRejectsShort(t *testing.T) {
	if _, err := DecodeSegment([]byte{1, 2, 3}); err != ErrMalformedSegment {
		t.Errorf("err = %v, want ErrMalformedSegment", err)
	}
}

func TestDecodeSegmentRejectsLengthMismatch(t *testing.T) {
	seg := Segment{SeqNum: 0, Data: []byte("abc")}
	b := Encode(seg)
	b = b[:len(b)-1] // truncate one payload byte

	if _, err := DecodeSegment(b); err != ErrMalformedSegment {
		t.Errorf("err = %v, want ErrMalformedSegment", err)
	}
}

func TestEncodeDecodeAck(t *testing.T) {
	b := EncodeAck(3500)
	if string(b) != "3500" {
		t.Errorf("EncodeAck = %q, want %q", b, "3500")
	}

	v, err := DecodeAck(b)
	if err != nil {
		t.Fatalf("DecodeAck: %v", err)
	}
	if v != 3500 {
		t.Errorf("DecodeAck = %d, want 3500", v)
	}
}

func TestDecodeAckRejectsGarbage(t *testing.T) {
	if _, err := DecodeAck([]byte("not-a-number")); err != ErrMalformedSegment {
		t.Errorf("err = %v, want ErrMalformedSegment", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want Kind
	}{
		{"start", Start, KindStart},
		{"end", End, KindEnd},
		{"end_ack", EndAck, KindEndAck},
		{"ack", []byte("3500"), KindAck},
		{"data", Encode(Segment{SeqNum: 0, Data: []byte("x")}), KindData},
		{"malformed", []byte("12ab"), KindMalformed},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.in)
			if got.Kind != c.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", c.in, got.Kind, c.want)
			}
		})
	}
}

func TestClassifyDataFromScenario1(t *testing.T) {
	// Scenario 1 of the spec: a 3500-byte file split at MSS=1400
	// produces segments at offsets 0, 1400, 2800 with lengths 1400,
	// 1400, 700.
	offsets := []uint64{0, 1400, 2800}
	lens := []int{1400, 1400, 700}

	for i, off := range offsets {
		seg := Segment{SeqNum: off, Data: make([]byte, lens[i])}
		dg := Classify(Encode(seg))
		if dg.Kind != KindData {
			t.Fatalf("segment at %d: Kind = %v, want KindData", off, dg.Kind)
		}
		if dg.Segment.SeqNum != off || len(dg.Segment.Data) != lens[i] {
			t.Errorf("segment at %d: got seq=%d len=%d", off, dg.Segment.SeqNum, len(dg.Segment.Data))
		}
	}
}
