package lltrace

import (
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Directory layout constants for §6.1: a trace is a directory holding
// the event stream plus two small JSON sidecars and a files/ subtree
// populated by the instrumentation frontend, not by this package.
const (
	EventsFileJSON   = "trace.json"
	EventsFileBinary = "trace.bin"
	MetadataFile     = "trace_metadata.json"
	PathsFile        = "trace_paths.json"
	FilesDir         = "files"
)

// noopWriteCloser satisfies WriteCloser for FinishWritingTraceEvents
// calls that have nothing left to write: a streaming writer has already
// pushed every byte into Config.StreamOutput by the time finalize runs.
type noopWriteCloser struct{}

func (noopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (noopWriteCloser) Close() error                { return nil }

// FinalizeToDirectory opens the three trace-directory sinks and drives
// w's three Finish* calls concurrently via errgroup, mirroring §5's
// note that the sinks are independent and the base spec's own remark
// that the three files "may be written concurrently" — the same
// fan-out-then-Wait shape the teacher compiler uses for its concurrent
// module pipeline stages.
func FinalizeToDirectory(w Writer, format Format, dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, FilesDir), 0o755); err != nil {
		return ioError("FinalizeToDirectory", err)
	}

	var g errgroup.Group

	g.Go(func() error {
		switch format {
		case FormatBinaryStreaming:
			return w.FinishWritingTraceEvents(noopWriteCloser{})
		case FormatBinaryV0:
			f, err := os.Create(filepath.Join(dir, EventsFileBinary))
			if err != nil {
				return ioError("FinalizeToDirectory", err)
			}
			return w.FinishWritingTraceEvents(f)
		default:
			f, err := os.Create(filepath.Join(dir, EventsFileJSON))
			if err != nil {
				return ioError("FinalizeToDirectory", err)
			}
			return w.FinishWritingTraceEvents(f)
		}
	})

	g.Go(func() error {
		f, err := os.Create(filepath.Join(dir, MetadataFile))
		if err != nil {
			return ioError("FinalizeToDirectory", err)
		}
		return w.FinishWritingTraceMetadata(f)
	})

	g.Go(func() error {
		f, err := os.Create(filepath.Join(dir, PathsFile))
		if err != nil {
			return ioError("FinalizeToDirectory", err)
		}
		return w.FinishWritingTracePaths(f)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return w.Close()
}
