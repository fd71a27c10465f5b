package lltrace

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

// memStream is an in-memory WriteFlushCloser for exercising the
// streaming writer without touching the filesystem.
type memStream struct {
	buf    bytes.Buffer
	closed bool
}

func (m *memStream) Write(p []byte) (int, error) { return m.buf.Write(p) }
func (m *memStream) Flush() error                { return nil }
func (m *memStream) Close() error                { m.closed = true; return nil }

func newTestStreamingWriter(t *testing.T) (*StreamingWriter, *memStream) {
	t.Helper()
	dst := &memStream{}
	w, err := New(Config{Format: FormatBinaryStreaming, EntryPath: "main.rs", EntryLine: 1, StreamOutput: dst})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sw, ok := w.(*StreamingWriter)
	if !ok {
		t.Fatalf("expected *StreamingWriter, got %T", w)
	}
	return sw, dst
}

func TestStreamingRoundTrip(t *testing.T) {
	sw, dst := newTestStreamingWriter(t)
	typeID := sw.EnsureTypeID(TypeKindInt, "i32")
	sw.RegisterVariableWithFullValue("x", IntValue(42, typeID))
	fn := sw.EnsureFunctionID("f", "main.rs", 3)
	sw.RegisterCall(fn, nil)
	sw.RegisterReturn(IntValue(0, typeID))
	sw.RegisterStep("main.rs", 2)

	if err := sw.FinishWritingTraceEvents(nil); err != nil {
		t.Fatalf("FinishWritingTraceEvents: %v", err)
	}

	events, err := readBlockContainer(bytes.NewReader(dst.buf.Bytes()))
	if err != nil {
		t.Fatalf("readBlockContainer: %v", err)
	}
	if err := Validate(events); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// The exact same operations against a BufferedWriter must produce
	// a structurally identical event stream: the streaming writer's per-event
	// msgpack frames are just an alternate encoding of the same core.
	bw := newTestBufferedWriter(t, FormatBinaryV0)
	wantType := bw.EnsureTypeID(TypeKindInt, "i32")
	bw.RegisterVariableWithFullValue("x", IntValue(42, wantType))
	wantFn := bw.EnsureFunctionID("f", "main.rs", 3)
	bw.RegisterCall(wantFn, nil)
	bw.RegisterReturn(IntValue(0, wantType))
	bw.RegisterStep("main.rs", 2)

	if !reflect.DeepEqual(bw.events, events) {
		t.Fatalf("streaming decode != equivalent BufferedWriter events\n got:  %+v\n want: %+v", events, bw.events)
	}
}

// TestStreamingTruncation is §8 scenario 6: 1000 events flushed every
// 100, hard-abort after 350; the reader must recover at least 300 and
// at most 399 events from the truncated stream.
func TestStreamingTruncation(t *testing.T) {
	dst := &memStream{}
	w, err := New(Config{Format: FormatBinaryStreaming, EntryPath: "main.rs", EntryLine: 1, StreamOutput: dst})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sw := w.(*StreamingWriter)

	written := 0
	for block := 0; block < 10; block++ {
		for i := 0; i < 100; i++ {
			sw.RegisterStep("main.rs", int64(i))
			written++
			if written >= 350 {
				break
			}
		}
		if written >= 350 {
			break
		}
		if err := sw.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
	}
	// Simulate a hard abort: bytes already written to dst exist, but no
	// final flush/close ever happens for the in-flight block.

	events, err := readBlockContainer(bytes.NewReader(dst.buf.Bytes()))
	var trunc *TruncatedError
	_ = errors.As(err, &trunc) // truncation is only reported once EOF lands mid-block; a clean EOF at a block boundary returns err == nil.

	total := sw.eventCount
	if total < 350 {
		t.Fatalf("test setup produced fewer than 350 events: %d", total)
	}
	if len(events) < 300 {
		t.Fatalf("expected to recover at least 300 events (3 full blocks), got %d", len(events))
	}
	if len(events) > 399 {
		t.Fatalf("expected to recover at most 399 events, got %d", len(events))
	}
}
