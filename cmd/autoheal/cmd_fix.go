package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoheal/internal/actions"
	"autoheal/internal/ledger"
	"autoheal/internal/orchestrate"
	"autoheal/internal/policy"
	"autoheal/internal/remedy"
	"autoheal/internal/triage"
)

var fixFlags struct {
	workflow    string
	failureType string
	runID       int64
	dryRun      bool
	ledgerPath  string
}

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply a guarded remediation for a diagnosed workflow failure",
	Long: `Apply the fixed remediation for a failure type under the safety
guardrails: a 60-minute cooldown per workflow, at most 3 attempts per
hour, and a durable audit trail of every attempt.

Security-sensitive failure types (permission_denied, missing_secret)
are never auto-fixed; they open an issue for manual action.

Usage:
  autoheal fix --workflow nba-news.yml --failure-type api_quota
  autoheal fix --workflow nba-news.yml --failure-type empty_response --run-id 12345 --dry-run`,
	RunE: runFix,
}

func init() {
	f := fixCmd.Flags()
	f.StringVar(&fixFlags.workflow, "workflow", "", "Workflow filename (e.g. nba-news.yml)")
	f.StringVar(&fixFlags.failureType, "failure-type", "", "Diagnosed failure type to remediate")
	f.Int64Var(&fixFlags.runID, "run-id", 0, "Failed run ID (optional, for ticket context)")
	f.BoolVar(&fixFlags.dryRun, "dry-run", false, "Show what would be done without doing it")
	f.StringVar(&fixFlags.ledgerPath, "ledger", ledger.DefaultPath, "Attempt ledger path")

	_ = fixCmd.MarkFlagRequired("workflow")
	_ = fixCmd.MarkFlagRequired("failure-type")
}

func runFix(cmd *cobra.Command, _ []string) error {
	cat, err := triage.ParseCategory(fixFlags.failureType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if fixFlags.dryRun {
		fmt.Fprintln(out, "DRY RUN MODE - no changes will be made")
	}

	gh := actions.NewClient()
	pol := policy.Default()
	disp := remedy.NewDispatcher(gh, pol, out)
	orch := orchestrate.New(ledger.Open(fixFlags.ledgerPath), pol, gh, disp)

	if !orch.RunRemediation(cmd.Context(), fixFlags.workflow, cat, fixFlags.runID, fixFlags.dryRun) {
		return fmt.Errorf("remediation for %q was not applied", fixFlags.workflow)
	}
	return nil
}
