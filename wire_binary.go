package lltrace

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeEventsBinaryV0 renders a stream as the legacy, non-streaming
// binary encoding: one whole-file msgpack array. Field-for-field this
// carries the same information as the JSON array; msgpack's default
// struct encoding round-trips every LowLevelEvent variant exactly,
// satisfying §6.3's bit-exactness requirement without needing a second
// hand-written wire schema.
func EncodeEventsBinaryV0(events []LowLevelEvent) ([]byte, error) {
	data, err := msgpack.Marshal(events)
	if err != nil {
		return nil, formatError("EncodeEventsBinaryV0", err)
	}
	return data, nil
}

// DecodeEventsBinaryV0 is EncodeEventsBinaryV0's inverse.
func DecodeEventsBinaryV0(data []byte) ([]LowLevelEvent, error) {
	var events []LowLevelEvent
	if err := msgpack.Unmarshal(data, &events); err != nil {
		return nil, formatError("DecodeEventsBinaryV0", err)
	}
	return events, nil
}

// frameMaxSize guards against a corrupt length prefix causing an
// unbounded allocation on read.
const frameMaxSize = 64 << 20

// encodeFrame renders a single event as a length-prefixed msgpack
// record, the unit the streaming writer flushes into its compressed
// container per §4.4/§6.3.
func encodeFrame(e LowLevelEvent) ([]byte, error) {
	body, err := msgpack.Marshal(&e)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(body)))
	copy(frame[4:], body)
	return frame, nil
}

// decodeFrame reads one length-prefixed record from r. io.EOF at a
// frame boundary is a clean end of stream; any other error (including
// io.ErrUnexpectedEOF mid-frame) signals truncation to the caller.
func decodeFrame(r io.Reader) (LowLevelEvent, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return LowLevelEvent{}, err
	}
	size := binary.BigEndian.Uint32(lenBuf[:])
	if size > frameMaxSize {
		return LowLevelEvent{}, fmt.Errorf("lltrace: frame size %d exceeds limit", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return LowLevelEvent{}, err
	}
	var e LowLevelEvent
	if err := msgpack.Unmarshal(body, &e); err != nil {
		return LowLevelEvent{}, err
	}
	return e, nil
}
