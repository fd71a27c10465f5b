// Package lltrace builds self-contained execution traces for an
// omniscient (time-travel) debugger.
//
// A trace is a linear, append-only stream of low-level events (line
// steps, calls, returns, variable lifecycle, value snapshots,
// assignments, log events, raw assembly) plus a sidecar of program
// metadata and the set of source paths the stream references.
// Downstream tooling replays the stream to reconstruct program state at
// any point.
//
// # Usage
//
// An instrumentation frontend drives a Writer:
//
//	w, err := lltrace.New(lltrace.Config{
//		Format:  lltrace.FormatJSON,
//		Program: "myprogram",
//		Args:    os.Args[1:],
//	})
//	w.RegisterStep("main.go", 1)
//	...
//	w.FinishWritingTraceEvents(eventsSink)
//
// # Formats
//
//   - FormatJSON: a pretty-printed array of externally-tagged event
//     objects, held fully in memory until FinishWritingTraceEvents.
//   - FormatBinaryV0: the same event sequence in a legacy msgpack-based
//     framing, also buffered.
//   - FormatBinaryStreaming: the current binary format. Each event is
//     framed as soon as it is registered and appended to the pending
//     block of a zstd-compressed, chunk-flushable container; Flush (or
//     finalize) compresses and writes that block, so only the encoded
//     frames since the last flush are held in memory.
//
// # Architecture
//
// The interning core (ensurePathID, ensureFunctionID, ...) is
// shared between the buffered and streaming writers so that swapping
// the output sink can never desynchronize declaration ordering. See
// json_codec.go and wire_binary.go for the two codecs and
// streamcontainer.go for the chunked compressed container the
// streaming writer uses.
package lltrace
