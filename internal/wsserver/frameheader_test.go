package wsserver

import (
	"bytes"
	"testing"
)

func TestControlEmpty(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x89, 0x80, 0x01, 0x02, 0x03, 0x04})
	if _, err := readFrameHeader(buf, 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestControlTooBig(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x89, 0xFE, 0x01, 0x02, 0x03, 0x04})
	if _, err := readFrameHeader(buf, 1024); err == nil {
		t.Fatal("expected a protocol error for an oversize control frame")
	}
}

func TestContinuationRejected(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x80, 0x80, 0x01, 0x02, 0x03, 0x04})
	if _, err := readFrameHeader(buf, 1024); err == nil {
		t.Fatal("expected a protocol error for a continuation frame")
	}
}

func TestFragmentedDataFrameRejected(t *testing.T) {
	// FIN=0, opcode=text: this core doesn't support fragmentation.
	buf := bytes.NewBuffer([]byte{0x01, 0x80, 0x01, 0x02, 0x03, 0x04})
	if _, err := readFrameHeader(buf, 1024); err == nil {
		t.Fatal("expected a protocol error for a fragmented data frame")
	}
}

func TestUnmaskedFrameRejected(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x81, 0x05, 'H', 'e', 'l', 'l', 'o'})
	if _, err := readFrameHeader(buf, 1024); err == nil {
		t.Fatal("expected a protocol error for an unmasked client frame")
	}
}

func TestReservedBitsRejected(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x71, 0x80, 0x01, 0x02, 0x03, 0x04})
	if _, err := readFrameHeader(buf, 1024); err == nil {
		t.Fatal("expected a protocol error when an RSV bit is set")
	}
}

func TestPayloadOverCeilingRejected(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x81, 0xFE, 0x00, 0xC8, 0x01, 0x02, 0x03, 0x04})
	if _, err := readFrameHeader(buf, 100); err == nil {
		t.Fatal("expected a protocol error when payload length exceeds maxPayload")
	}
}

func TestNonMinimalExtendedLengthRejected(t *testing.T) {
	// 16-bit extended length encoding a value that fits in 7 bits.
	buf := bytes.NewBuffer([]byte{0x81, 0xFE, 0x00, 0x05, 0x01, 0x02, 0x03, 0x04})
	if _, err := readFrameHeader(buf, 1024); err == nil {
		t.Fatal("expected a protocol error for a non-minimal extended length")
	}
}

func TestWriteFrameHeaderSizes(t *testing.T) {
	if n := len(writeFrameHeader(opCodeText, 10)); n != 2 {
		t.Errorf("short payload: got %d header bytes, want 2", n)
	}
	if n := len(writeFrameHeader(opCodeText, 200)); n != 4 {
		t.Errorf("medium payload: got %d header bytes, want 4", n)
	}
	if n := len(writeFrameHeader(opCodeText, 1<<17)); n != 10 {
		t.Errorf("large payload: got %d header bytes, want 10", n)
	}
}

func TestUnmaskRoundTrip(t *testing.T) {
	key := [4]byte{0x37, 0xfa, 0x21, 0x3d}
	payload := []byte("Hello")
	masked := append([]byte(nil), payload...)
	unmask(masked, key)
	unmask(masked, key)
	if !bytes.Equal(masked, payload) {
		t.Errorf("unmask is not its own inverse: got %q, want %q", masked, payload)
	}
}
