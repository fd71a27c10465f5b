package lltrace

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// LoadedTrace is everything a replayer needs, read back from a trace
// directory: the event stream plus its two sidecars.
type LoadedTrace struct {
	Events   []LowLevelEvent
	Paths    []string
	Metadata TraceMetadata
	// Truncated is set when the events stream ended mid-block; Events
	// still holds every event recovered up to the last complete block,
	// per §7's streaming truncation policy.
	Truncated *TruncatedError
}

// DecodeEvents dispatches to the right codec for format and returns the
// decoded stream. For FormatBinaryStreaming, a truncated trailing block
// is not an error: the recovered prefix is returned alongside a
// *TruncatedError, which the caller can inspect with errors.As.
func DecodeEvents(data []byte, format Format) ([]LowLevelEvent, error) {
	switch format {
	case FormatJSON:
		return DecodeEventsJSON(data)
	case FormatBinaryV0:
		return DecodeEventsBinaryV0(data)
	case FormatBinaryStreaming:
		events, err := readBlockContainer(bytes.NewReader(data))
		var trunc *TruncatedError
		if errors.As(err, &trunc) {
			return events, trunc
		}
		return events, err
	default:
		return nil, invariantError("DecodeEvents", "unknown format")
	}
}

// LoadTrace reads a whole trace directory written by FinalizeToDirectory.
// format selects which events file to expect; pass FormatAuto to
// auto-detect by checking for trace.json then trace.bin.
func LoadTrace(dir string, format Format) (*LoadedTrace, error) {
	eventsPath, resolved, err := resolveEventsFile(dir, format)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(eventsPath)
	if err != nil {
		return nil, ioError("LoadTrace", err)
	}

	out := &LoadedTrace{}
	events, err := DecodeEvents(data, resolved)
	var trunc *TruncatedError
	if errors.As(err, &trunc) {
		out.Truncated = trunc
	} else if err != nil {
		return nil, err
	}
	out.Events = events

	metaData, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, ioError("LoadTrace", err)
	}
	if err := json.Unmarshal(metaData, &out.Metadata); err != nil {
		return nil, formatError("LoadTrace", err)
	}

	pathsData, err := os.ReadFile(filepath.Join(dir, PathsFile))
	if err != nil {
		return nil, ioError("LoadTrace", err)
	}
	if err := json.Unmarshal(pathsData, &out.Paths); err != nil {
		return nil, formatError("LoadTrace", err)
	}

	return out, nil
}

func resolveEventsFile(dir string, format Format) (path string, resolved Format, err error) {
	switch format {
	case FormatJSON:
		return filepath.Join(dir, EventsFileJSON), FormatJSON, nil
	case FormatBinaryV0:
		return filepath.Join(dir, EventsFileBinary), FormatBinaryV0, nil
	case FormatBinaryStreaming:
		return filepath.Join(dir, EventsFileBinary), FormatBinaryStreaming, nil
	}
	if _, statErr := os.Stat(filepath.Join(dir, EventsFileJSON)); statErr == nil {
		return filepath.Join(dir, EventsFileJSON), FormatJSON, nil
	}
	if _, statErr := os.Stat(filepath.Join(dir, EventsFileBinary)); statErr == nil {
		// trace.bin is ambiguous between the legacy BinaryV0 and the
		// current streaming Binary framing; auto-detection assumes
		// streaming. A BinaryV0 trace.bin, such as FinalizeToDirectory
		// writes for FormatBinaryV0, is only read correctly when
		// FormatBinaryV0 is passed explicitly.
		return filepath.Join(dir, EventsFileBinary), FormatBinaryStreaming, nil
	}
	return "", 0, ioError("LoadTrace", os.ErrNotExist)
}
