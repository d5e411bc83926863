package wsserver

import (
	"io"
	"unicode/utf8"
)

// inboundKind classifies a fully parsed client frame for the event loop
// (spec.md §4.A "Contract").
type inboundKind int

const (
	inboundText inboundKind = iota
	inboundClose
	inboundPing
	inboundPong
)

// inboundFrame is one complete, unmasked client frame.
type inboundFrame struct {
	kind    inboundKind
	payload []byte
}

// parseFrame consumes exactly one inbound frame from r: a header via
// readFrameHeader, then its (unmasked) payload. Binary frames are treated
// as a protocol error per spec.md §4.A ("for this core, treated as
// protocol error... documented").
func parseFrame(r io.Reader, maxPayload int64) (inboundFrame, error) {
	fh, err := readFrameHeader(r, maxPayload)
	if err != nil {
		return inboundFrame{}, err
	}

	payload := make([]byte, fh.payloadLength)
	if fh.payloadLength > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return inboundFrame{}, err
		}
		unmask(payload, fh.maskingKey)
	}

	switch fh.opCode {
	case opCodeText:
		if !utf8.Valid(payload) {
			return inboundFrame{}, errProtocol
		}
		return inboundFrame{kind: inboundText, payload: payload}, nil
	case opCodeClose:
		return inboundFrame{kind: inboundClose, payload: payload}, nil
	case opCodePing:
		return inboundFrame{kind: inboundPing, payload: payload}, nil
	case opCodePong:
		return inboundFrame{kind: inboundPong, payload: payload}, nil
	default:
		// opCodeBinary and anything else readFrameHeader didn't already
		// reject.
		return inboundFrame{}, errProtocol
	}
}

// writeFrame emits a single, unmasked, unfragmented server-to-client frame
// and loops until the full header+payload has been written or the writer
// errors (spec.md §4.A "partial writes must loop until complete").
func writeFrame(w io.Writer, opCode byte, payload []byte) error {
	header := writeFrameHeader(opCode, int64(len(payload)))
	if err := writeAll(w, header); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return writeAll(w, payload)
}

// writeAll loops Write calls until all of b is written or an error occurs;
// io.Writer makes no guarantee a single call flushes the whole slice.
func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
