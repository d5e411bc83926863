package wsserver

import (
	"bytes"
	"testing"
)

func TestParseTextFrame(t *testing.T) {
	buf := bytes.NewBuffer([]byte{
		0x81, 0x05, 0x48, 0x65, 0x6c, 0x6c, 0x6f,
	})
	if _, err := parseFrame(buf, 1024); err == nil {
		t.Fatal("expected a protocol error: this frame is unmasked")
	}
}

func TestParseMaskedTextFrame(t *testing.T) {
	buf := bytes.NewBuffer([]byte{
		0x81, 0x85, 0x37, 0xfa, 0x21, 0x3d, 0x7f, 0x9f, 0x4d, 0x51, 0x58,
	})
	f, err := parseFrame(buf, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.kind != inboundText {
		t.Fatalf("got kind %v, want inboundText", f.kind)
	}
	if string(f.payload) != "Hello" {
		t.Errorf("got payload %q, want %q", f.payload, "Hello")
	}
}

func TestParseBinaryFrameRejected(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x82, 0x80, 0x37, 0xfa, 0x21, 0x3d})
	if _, err := parseFrame(buf, 1024); err == nil {
		t.Fatal("expected a protocol error for a binary frame")
	}
}

func TestParseInvalidUTF8Rejected(t *testing.T) {
	key := [4]byte{0x00, 0x00, 0x00, 0x00}
	payload := []byte{0xFF, 0xFE}
	buf := bytes.NewBuffer(nil)
	buf.Write([]byte{0x81, 0x82})
	buf.Write(key[:])
	buf.Write(payload)
	if _, err := parseFrame(buf, 1024); err == nil {
		t.Fatal("expected a protocol error for invalid UTF-8")
	}
}

func TestWriteFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, opCodeText, []byte("hi")); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	want := []byte{0x81, 0x02, 'h', 'i'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %X, want %X", buf.Bytes(), want)
	}
}

func TestWriteFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, opCodeClose, nil); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	want := []byte{0x88, 0x00}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %X, want %X", buf.Bytes(), want)
	}
}
