package lltrace

// StreamingWriter pushes each event into a blockContainer as soon as it
// is emitted, backing FormatBinaryStreaming. It shares *core with
// BufferedWriter; the only difference between the two is what addEvent
// does with an event, per §9's design note that this must be the sole
// point of divergence.
type StreamingWriter struct {
	*core

	program string
	args    []string
	workdir string
	session string

	container *blockContainer

	// err latches the first failure from addEvent, Flush or
	// FinishWritingTraceEvents. Once set, addEvent drops further events
	// and Flush, FinishWritingTraceEvents and Close return it;
	// FinishWritingTraceMetadata and FinishWritingTracePaths do not
	// consult it and still write their sidecars.
	err error

	metadataFinished bool
	pathsFinished    bool
	closed           bool
}

func newStreamingWriter(cfg Config, sessionID string) (*StreamingWriter, error) {
	container, err := newBlockContainer(cfg.StreamOutput)
	if err != nil {
		return nil, err
	}
	w := &StreamingWriter{
		program:   cfg.Program,
		args:      cfg.Args,
		workdir:   cfg.Workdir,
		session:   sessionID,
		container: container,
	}
	w.core = newCore(w)
	return w, nil
}

// addEvent implements sink. It cannot itself return an error (the sink
// interface is call-and-forget by design, see intern.go); an encoding
// failure is latched into w.err and surfaced by the next Flush,
// FinishWritingTraceEvents or Close.
func (w *StreamingWriter) addEvent(e LowLevelEvent) {
	if w.err != nil {
		return
	}
	if err := w.container.addEvent(e); err != nil {
		w.err = err
	}
}

// FinishWritingTraceEvents finalizes the streaming container: it flushes
// whatever is buffered as a final block and closes the underlying
// StreamOutput. The sink argument is accepted for interface symmetry
// with BufferedWriter but unused — the streaming writer has already
// been writing directly into Config.StreamOutput all along.
func (w *StreamingWriter) FinishWritingTraceEvents(_ WriteCloser) error {
	if w.closed {
		return invariantError("FinishWritingTraceEvents", "writer already closed")
	}
	if w.err != nil {
		return w.err
	}
	if err := w.container.close(); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *StreamingWriter) FinishWritingTraceMetadata(sink WriteCloser) error {
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

func (w *StreamingWriter) FinishWritingTracePaths(sink WriteCloser) error {
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

// Flush seals the pending block, per §4.4/§8 scenario 6.
func (w *StreamingWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.container.flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *StreamingWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.err != nil {
		return w.err
	}
	return nil
}
