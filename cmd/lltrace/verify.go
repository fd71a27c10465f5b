package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"lltrace"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <trace-dir>",
	Short: "Check a trace's declaration-before-use invariants and round-trip fidelity",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := args[0]
	format, err := formatFromFlag(cmd)
	if err != nil {
		return err
	}

	trace, err := lltrace.LoadTrace(dir, format)
	if err != nil {
		return fmt.Errorf("lltrace verify: %w", err)
	}
	if trace.Truncated != nil {
		fmt.Fprintf(os.Stderr, "trace is truncated: %v\n", trace.Truncated)
	}

	if err := lltrace.Validate(trace.Events); err != nil {
		return fmt.Errorf("lltrace verify: invariant violation: %w", err)
	}

	if err := checkRoundTrip(trace.Events); err != nil {
		return fmt.Errorf("lltrace verify: round-trip mismatch: %w", err)
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		fmt.Fprintf(os.Stdout, "ok: %d events, invariants hold, round-trip stable\n", len(trace.Events))
	}
	return nil
}

// checkRoundTrip re-encodes events through both wire formats and
// confirms decoding gets the original stream back, per §8's round-trip
// and cross-format equivalence properties.
func checkRoundTrip(events []lltrace.LowLevelEvent) error {
	jsonData, err := lltrace.EncodeEventsJSON(events)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fromJSON, err := lltrace.DecodeEventsJSON(jsonData)
	if err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if !reflect.DeepEqual(events, fromJSON) {
		return fmt.Errorf("decode_json(encode_json(S)) != S")
	}

	binData, err := lltrace.EncodeEventsBinaryV0(events)
	if err != nil {
		return fmt.Errorf("encode binary-v0: %w", err)
	}
	fromBinary, err := lltrace.DecodeEventsBinaryV0(binData)
	if err != nil {
		return fmt.Errorf("decode binary-v0: %w", err)
	}
	if !reflect.DeepEqual(events, fromBinary) {
		return fmt.Errorf("decode_binary(encode_binary(S)) != S")
	}
	if !reflect.DeepEqual(fromJSON, fromBinary) {
		return fmt.Errorf("decode_binary(encode_binary(S)) != decode_json(encode_json(S))")
	}
	return nil
}
