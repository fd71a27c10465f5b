package lltrace

import (
	"fmt"

	"github.com/google/uuid"
)

// Format selects a wire encoding, the "format tag" the base spec's
// §6.4 factory dispatches on.
type Format uint8

const (
	// FormatJSON is the pretty-printed, externally-tagged JSON array.
	FormatJSON Format = iota
	// FormatBinaryV0 is the legacy, non-streaming msgpack framing.
	FormatBinaryV0
	// FormatBinaryStreaming is the current binary format: framed
	// records flushed incrementally into a compressed container.
	FormatBinaryStreaming

	// FormatAuto is not a wire format; it tells LoadTrace to detect the
	// format from what is present in the trace directory. New() rejects
	// it, since a writer always needs a concrete format.
	FormatAuto Format = 255
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatBinaryV0:
		return "binary-v0"
	case FormatBinaryStreaming:
		return "binary"
	case FormatAuto:
		return "auto"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ParseFormat converts a string (as accepted by the CLI or a config
// file) to a Format, mirroring trace.ParseLevel/trace.ParseMode's
// style in the teacher compiler.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "binary-v0":
		return FormatBinaryV0, nil
	case "binary", "":
		return FormatBinaryStreaming, nil
	default:
		return 0, fmt.Errorf("invalid trace format: %q (expected: json|binary-v0|binary)", s)
	}
}

// Config configures a new Writer, mirroring trace.Config's shape in the
// teacher compiler (Level/Mode/Output become Format/Program/Args here).
type Config struct {
	Format Format

	// Program, Args and Workdir populate trace_metadata.json and are
	// fixed for the trace's lifetime.
	Program string
	Args    []string
	Workdir string

	// EntryPath and EntryLine locate the synthetic top-level frame
	// every trace opens with. EntryLine defaults to 1 when zero.
	EntryPath string
	EntryLine int64

	// StreamOutput is required when Format is FormatBinaryStreaming: it
	// is the container the streaming writer flushes into incrementally.
	// Buffered formats ignore it; they serialize to whatever io.Writer
	// is passed to FinishWritingTraceEvents.
	StreamOutput WriteFlushCloser
}

// WriteFlushCloser is the sink contract the streaming writer needs:
// something it can write framed, compressed records into and flush on
// demand without closing the underlying resource.
type WriteFlushCloser interface {
	Write(p []byte) (int, error)
	Flush() error
	Close() error
}

// Writer is the capability set an instrumentation frontend drives to
// build a trace. Both BufferedWriter and StreamingWriter implement it;
// callers select an implementation through New by Format, the same way
// trace.New in the teacher compiler dispatches on StorageMode.
type Writer interface {
	// Interning, explicit declaration and lookup.
	EnsurePathID(path string) PathID
	EnsureFunctionID(name, path string, line int64) FunctionID
	EnsureVariableID(name string) VariableID
	EnsureTypeID(kind TypeKind, langType string) TypeID
	EnsureRawTypeID(t TypeRecord) TypeID
	RegisterPath(path string)
	RegisterFunction(name, path string, line int64)
	RegisterType(kind TypeKind, langType string)
	RegisterRawType(t TypeRecord)

	// Main event emission.
	RegisterStep(path string, line int64)
	RegisterCall(functionID FunctionID, args []FullValueRecord)
	RegisterReturn(value ValueRecord)
	RegisterSpecialEvent(kind EventLogKind, content string) StepID
	RegisterAsm(instructions []string)
	RegisterVariableWithFullValue(name string, value ValueRecord)
	RegisterVariableName(name string) VariableID
	RegisterFullValue(variableID VariableID, value ValueRecord)

	// Place-graph operations.
	RegisterCompoundValue(place Place, value ValueRecord)
	RegisterCellValue(place Place, value ValueRecord)
	AssignCompoundItem(place Place, index int, itemPlace Place)
	AssignCell(place Place, newValue ValueRecord)
	BindVariable(name string, place Place)
	RegisterVariable(name string, place Place)
	DropVariable(name string)
	DropVariables(names []string)

	// Assignment/history.
	Assign(name string, rvalue RValue, passBy PassBy)
	SimpleRValue(name string) RValue
	CompoundRValue(names []string) RValue
	Arg(name string, value ValueRecord) FullValueRecord

	DropLastStep()

	// Escape hatch.
	AddEvent(e LowLevelEvent)
	AppendEvents(events []LowLevelEvent)

	// Resource lifecycle, per §5: each begin_writing_* (implicit in
	// New) is balanced by exactly one of these per sink.
	FinishWritingTraceEvents(sink WriteCloser) error
	FinishWritingTraceMetadata(sink WriteCloser) error
	FinishWritingTracePaths(sink WriteCloser) error
	Flush() error
	Close() error
}

// WriteCloser is the minimal contract FinishWritingTrace* needs from an
// output sink.
type WriteCloser interface {
	Write(p []byte) (int, error)
	Close() error
}

// New builds a Writer for cfg.Format, allocating the reserved
// TopLevelFunctionID and NoneTypeID exactly as the original tracer's
// start() does: declare the entry path, declare the top-level function,
// emit its Call, then declare the None type.
func New(cfg Config) (Writer, error) {
	if cfg.EntryLine == 0 {
		cfg.EntryLine = 1
	}
	sessionID := uuid.NewString()

	switch cfg.Format {
	case FormatJSON, FormatBinaryV0:
		w := newBufferedWriter(cfg, sessionID)
		bootstrap(w.core, cfg)
		return w, nil
	case FormatBinaryStreaming:
		if cfg.StreamOutput == nil {
			return nil, invariantError("New", "FormatBinaryStreaming requires Config.StreamOutput")
		}
		w, err := newStreamingWriter(cfg, sessionID)
		if err != nil {
			return nil, err
		}
		bootstrap(w.core, cfg)
		return w, nil
	default:
		return nil, invariantError("New", fmt.Sprintf("unknown format %v", cfg.Format))
	}
}

// bootstrap performs the fixed opening sequence shared by every Writer,
// factored out so BufferedWriter and StreamingWriter cannot drift.
func bootstrap(c *core, cfg Config) {
	fn := c.ensureFunctionID("", cfg.EntryPath, cfg.EntryLine)
	registerCallOn(c, fn, nil)
	none := c.ensureTypeID(TypeKindNone, "None")
	if fn != TopLevelFunctionID {
		panic("lltrace: internal error: top-level function did not get id 0")
	}
	if none != NoneTypeID {
		panic("lltrace: internal error: None type did not get id 0")
	}
}

// The following free functions implement the Writer operations against
// a *core, shared verbatim by BufferedWriter and StreamingWriter.

func registerCallOn(c *core, functionID FunctionID, args []FullValueRecord) {
	if functionID != TopLevelFunctionID {
		for _, a := range args {
			c.emit(newValueEvent(a))
		}
		fn := c.functions[functionID]
		c.emit(newStepEvent(StepRecord{PathID: fn.PathID, Line: fn.Line}))
	}
	c.emit(newCallEvent(CallRecord{FunctionID: functionID, Args: args}))
}
