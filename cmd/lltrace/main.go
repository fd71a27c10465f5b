package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "lltrace",
	Short: "Inspect and verify low-level omniscient debugger traces",
	Long:  `lltrace reads trace directories produced by the lltrace library and dumps, verifies, or interactively browses their event streams.`,
	// PersistentPreRunE resolves .lltracerc before any subcommand runs,
	// mirroring resolveProjectToml's walk-up-then-apply-as-default
	// pattern: an explicit flag always wins over the rc file.
	PersistentPreRunE: applyRCDefaults,
}

// main registers subcommands and persistent flags, then executes the
// root command; a non-nil error exits the process with status 1.
func main() {
	rootCmd.Version = "0.1.0-dev"

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(inspectCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("format", "", "trace format override (json|binary-v0|binary)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyRCDefaults loads .lltracerc from the working directory (walking
// up to the filesystem root) and, for any of --color/--format the user
// did not pass explicitly, overrides the flag's default with the rc
// value.
func applyRCDefaults(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	rc, err := loadRC(wd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("color") && rc.Color != "" {
		if err := flags.Set("color", rc.Color); err != nil {
			return err
		}
	}
	if !flags.Changed("format") && rc.DefaultFormat != "" {
		if err := flags.Set("format", rc.DefaultFormat); err != nil {
			return err
		}
	}
	return nil
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
