package lltrace

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// blockContainer is the streaming binary format's on-disk shape: a
// sequence of independently-decodable, zstd-compressed blocks, each
// itself a length-prefixed concatenation of encodeFrame records. A
// block is sealed only on an explicit Flush or on Close, matching
// §4.4's "per-block flush" contract and giving the reader the
// truncation-recovery property from §8 scenario 6: any prefix of whole
// blocks decodes cleanly regardless of what follows.
type blockContainer struct {
	dst     WriteFlushCloser
	pending bytes.Buffer
	encoder *zstd.Encoder
}

func newBlockContainer(dst WriteFlushCloser) (*blockContainer, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, ioError("newBlockContainer", err)
	}
	return &blockContainer{dst: dst, encoder: enc}, nil
}

// addEvent buffers one event's frame; it is not durable until the next
// Flush or Close seals a block.
func (b *blockContainer) addEvent(e LowLevelEvent) error {
	frame, err := encodeFrame(e)
	if err != nil {
		return formatError("blockContainer.addEvent", err)
	}
	b.pending.Write(frame)
	return nil
}

// flushBlock seals whatever is pending into one compressed block and
// writes it to dst. Called with an empty buffer, it writes nothing.
func (b *blockContainer) flushBlock() error {
	if b.pending.Len() == 0 {
		return nil
	}
	compressed := b.encoder.EncodeAll(b.pending.Bytes(), nil)
	b.pending.Reset()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(compressed)))
	if _, err := b.dst.Write(lenBuf[:]); err != nil {
		return ioError("blockContainer.flushBlock", err)
	}
	if _, err := b.dst.Write(compressed); err != nil {
		return ioError("blockContainer.flushBlock", err)
	}
	return nil
}

func (b *blockContainer) flush() error {
	if err := b.flushBlock(); err != nil {
		return err
	}
	if err := b.dst.Flush(); err != nil {
		return ioError("blockContainer.flush", err)
	}
	return nil
}

func (b *blockContainer) close() error {
	if err := b.flushBlock(); err != nil {
		return err
	}
	b.encoder.Close()
	if err := b.dst.Close(); err != nil {
		return ioError("blockContainer.close", err)
	}
	return nil
}

// readBlockContainer decodes a blockContainer stream, returning every
// event from every complete block. If the stream ends mid-length-prefix
// or mid-block, it returns the events decoded so far alongside a
// *TruncatedError rather than failing outright, per §7's streaming
// truncation policy.
func readBlockContainer(r io.Reader) ([]LowLevelEvent, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, ioError("readBlockContainer", err)
	}
	defer dec.Close()

	var events []LowLevelEvent
	for {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return events, &TruncatedError{EventsRecovered: len(events), Err: fmt.Errorf("reading block length: %w", err)}
		}
		size := binary.BigEndian.Uint32(lenBuf[:])
		compressed := make([]byte, size)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return events, &TruncatedError{EventsRecovered: len(events), Err: fmt.Errorf("reading block body: %w", err)}
		}
		raw, err := dec.DecodeAll(compressed, nil)
		if err != nil {
			return events, &TruncatedError{EventsRecovered: len(events), Err: fmt.Errorf("decompressing block: %w", err)}
		}
		block, err := decodeFramesFromBlock(raw)
		if err != nil {
			return events, &TruncatedError{EventsRecovered: len(events), Err: fmt.Errorf("decoding block frames: %w", err)}
		}
		events = append(events, block...)
	}
}

func decodeFramesFromBlock(raw []byte) ([]LowLevelEvent, error) {
	r := bytes.NewReader(raw)
	var events []LowLevelEvent
	for r.Len() > 0 {
		e, err := decodeFrame(r)
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
	return events, nil
}
