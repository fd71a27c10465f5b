package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"lltrace"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <trace-dir>",
	Short: "Print a trace's event stream as an aligned, colorized table",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

var dumpLimit int

func init() {
	dumpCmd.Flags().IntVar(&dumpLimit, "limit", 0, "stop after this many events (0 = no limit)")
}

func runDump(cmd *cobra.Command, args []string) error {
	dir := args[0]
	format, err := formatFromFlag(cmd)
	if err != nil {
		return err
	}

	trace, err := lltrace.LoadTrace(dir, format)
	if err != nil {
		return fmt.Errorf("lltrace dump: %w", err)
	}

	useColor := shouldColor(cmd)
	kindColor := color.New(color.FgCyan, color.Bold)
	indexColor := color.New(color.FgHiBlack)

	events := trace.Events
	if dumpLimit > 0 && dumpLimit < len(events) {
		events = events[:dumpLimit]
	}

	const kindColumn = 20
	for i, e := range events {
		idx := strconv.Itoa(i)
		kind := e.Kind.String()
		padded := kind + spaces(kindColumn-runewidth.StringWidth(kind))
		summary := summarizeEvent(e)

		if useColor {
			fmt.Fprintf(os.Stdout, "%s  %s %s\n", indexColor.Sprint(idx), kindColor.Sprint(padded), summary)
		} else {
			fmt.Fprintf(os.Stdout, "%s  %s %s\n", idx, padded, summary)
		}
	}

	if trace.Truncated != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", trace.Truncated)
	}
	return nil
}

func spaces(n int) string {
	if n <= 0 {
		return " "
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func summarizeEvent(e lltrace.LowLevelEvent) string {
	switch e.Kind {
	case lltrace.EventPath:
		return e.Path
	case lltrace.EventVariableName:
		return e.VariableName
	case lltrace.EventType:
		return fmt.Sprintf("kind=%v lang_type=%q", e.Type.Kind, e.Type.LangType)
	case lltrace.EventValue:
		return fmt.Sprintf("variable_id=%d value.kind=%v", e.Value.VariableID, e.Value.Value.Kind)
	case lltrace.EventFunction:
		return fmt.Sprintf("%s (path_id=%d:%d)", e.Function.Name, e.Function.PathID, e.Function.Line)
	case lltrace.EventStep:
		return fmt.Sprintf("path_id=%d line=%d", e.Step.PathID, e.Step.Line)
	case lltrace.EventCall:
		return fmt.Sprintf("function_id=%d args=%d", e.Call.FunctionID, len(e.Call.Args))
	case lltrace.EventReturn:
		return fmt.Sprintf("value.kind=%v", e.Return.ReturnValue.Kind)
	case lltrace.EventLog:
		return fmt.Sprintf("kind=%v content=%q", e.Log.Kind, e.Log.Content)
	case lltrace.EventAsm:
		return fmt.Sprintf("%d instructions", len(e.Asm))
	default:
		return ""
	}
}

func formatFromFlag(cmd *cobra.Command) (lltrace.Format, error) {
	s, err := cmd.Flags().GetString("format")
	if err != nil {
		return 0, err
	}
	if s == "" {
		return lltrace.FormatAuto, nil
	}
	return lltrace.ParseFormat(s)
}

func shouldColor(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
