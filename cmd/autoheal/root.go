package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"autoheal/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	debug     bool
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "autoheal",
	Short: "Failure triage and guarded self-healing for scheduled workflows",
	Long: "Autoheal diagnoses failed runs of content-generation workflows and\n" +
		"applies safe remediations under cooldown and rate-limit guardrails.\n" +
		"Security-sensitive failures are never auto-fixed, only escalated.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := slog.LevelInfo
		if rootFlags.debug {
			level = slog.LevelDebug
		}
		logging.Init(level, rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&rootFlags.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log output format: text or json")

	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
