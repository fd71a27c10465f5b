package lltrace

import "encoding/json"

// BufferedWriter accumulates the whole event stream in memory and
// serializes it in one shot at finalize, backing FormatJSON and
// FormatBinaryV0. It is the "whole-stream emission" writer from §6.3.
type BufferedWriter struct {
	*core

	format  Format
	program string
	args    []string
	workdir string
	session string

	events []LowLevelEvent

	eventsFinished   bool
	metadataFinished bool
	pathsFinished    bool
	closed           bool
}

func newBufferedWriter(cfg Config, sessionID string) *BufferedWriter {
	w := &BufferedWriter{
		format:  cfg.Format,
		program: cfg.Program,
		args:    cfg.Args,
		workdir: cfg.Workdir,
		session: sessionID,
	}
	w.core = newCore(w)
	return w
}

// addEvent implements sink.
func (w *BufferedWriter) addEvent(e LowLevelEvent) { w.events = append(w.events, e) }

func (w *BufferedWriter) FinishWritingTraceEvents(sink WriteCloser) error {
	if w.closed {
		return invariantError("FinishWritingTraceEvents", "writer already closed")
	}
	if w.eventsFinished {
		return invariantError("FinishWritingTraceEvents", "already finished")
	}
	var data []byte
	var err error
	switch w.format {
	case FormatJSON:
		data, err = EncodeEventsJSON(w.events)
	case FormatBinaryV0:
		data, err = EncodeEventsBinaryV0(w.events)
	default:
		return invariantError("FinishWritingTraceEvents", "buffered writer used with a streaming format")
	}
	if err != nil {
		return err
	}
	if _, err := sink.Write(data); err != nil {
		return ioError("FinishWritingTraceEvents", err)
	}
	if err := sink.Close(); err != nil {
		return ioError("FinishWritingTraceEvents", err)
	}
	w.eventsFinished = true
	return nil
}

func (w *BufferedWriter) FinishWritingTraceMetadata(sink WriteCloser) error {
	if w.closed {
		return invariantError("FinishWritingTraceMetadata", "writer already closed")
	}
	if w.metadataFinished {
		return invariantError("FinishWritingTraceMetadata", "already finished")
	}
	meta := TraceMetadata{Workdir: w.workdir, Program: w.program, Args: w.args, SessionID: w.session}
	if err := writeJSONFinish(sink, meta, "FinishWritingTraceMetadata"); err != nil {
		return err
	}
	w.metadataFinished = true
	return nil
}

func (w *BufferedWriter) FinishWritingTracePaths(sink WriteCloser) error {
	if w.closed {
		return invariantError("FinishWritingTracePaths", "writer already closed")
	}
	if w.pathsFinished {
		return invariantError("FinishWritingTracePaths", "already finished")
	}
	if err := writeJSONFinish(sink, w.pathSnapshot(), "FinishWritingTracePaths"); err != nil {
		return err
	}
	w.pathsFinished = true
	return nil
}

// Flush is a no-op for BufferedWriter: nothing is written until finalize.
func (w *BufferedWriter) Flush() error { return nil }

func (w *BufferedWriter) Close() error {
	w.closed = true
	return nil
}

// writeJSONFinish is the shared tail of the metadata and paths Finish*
// methods: marshal,
// write, close, wrapping failures per §7's I/O error kind. Both
// BufferedWriter and StreamingWriter use it for the metadata and paths
// sidecars, which are always plain JSON regardless of event format.
func writeJSONFinish(sink WriteCloser, v interface{}, op string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return formatError(op, err)
	}
	if _, err := sink.Write(data); err != nil {
		return ioError(op, err)
	}
	if err := sink.Close(); err != nil {
		return ioError(op, err)
	}
	return nil
}
