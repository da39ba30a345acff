package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"autoheal/internal/actions"
	"autoheal/internal/discover"
	"autoheal/internal/format"
	"autoheal/internal/ledger"
	"autoheal/internal/orchestrate"
	"autoheal/internal/policy"
	"autoheal/internal/triage"
)

var diagnoseFlags struct {
	workflow     string
	limit        int
	jsonOut      bool
	workflowsDir string
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Inspect recent runs of content workflows and classify failures",
	Long: `Inspect the recent runs of each content-generation workflow,
classify any failures against the known taxonomy, and report which
can be auto-fixed and which need a human.

Diagnosis is read-only: it never triggers runs, opens issues, or
touches the attempt ledger.

Usage:
  autoheal diagnose
  autoheal diagnose --workflow nba-news.yml --limit 10
  autoheal diagnose --json`,
	RunE: runDiagnose,
}

func init() {
	f := diagnoseCmd.Flags()
	f.StringVar(&diagnoseFlags.workflow, "workflow", "", "Inspect a single workflow instead of discovering all")
	f.IntVar(&diagnoseFlags.limit, "limit", 5, "Recent runs to inspect per workflow")
	f.BoolVar(&diagnoseFlags.jsonOut, "json", false, "Emit machine-readable JSON reports")
	f.StringVar(&diagnoseFlags.workflowsDir, "workflows-dir", discover.DefaultDir, "Workflow definitions directory")
}

func runDiagnose(cmd *cobra.Command, _ []string) error {
	workflows := []string{diagnoseFlags.workflow}
	if diagnoseFlags.workflow == "" {
		var err error
		workflows, err = discover.ContentWorkflows(diagnoseFlags.workflowsDir, discover.DefaultMarkers)
		if err != nil {
			return err
		}
		if len(workflows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No content workflows found.")
			return nil
		}
	}

	orch := orchestrate.New(ledger.Open(ledger.DefaultPath), policy.Default(), actions.NewClient(), nil)
	reports := orch.Sweep(cmd.Context(), workflows, diagnoseFlags.limit)

	out := cmd.OutOrStdout()
	if diagnoseFlags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		printReports(out, reports)
	}

	for _, r := range reports {
		if r.Failing() {
			return fmt.Errorf("%d of %d workflows are failing", countFailing(reports), len(reports))
		}
	}
	return nil
}

func countFailing(reports []*orchestrate.Report) int {
	n := 0
	for _, r := range reports {
		if r.Failing() {
			n++
		}
	}
	return n
}

func printReports(out io.Writer, reports []*orchestrate.Report) {
	tbl := format.NewTable(format.ASCII)
	tbl.Header("Workflow", "Status", "Failures", "Fixable", "Needs Human")
	tbl.Columns(
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
	)
	for _, r := range reports {
		tbl.Row(r.Workflow, r.Status, r.RecentFailures, r.FixableFailures, r.RequiresHuman)
	}
	fmt.Fprintln(out, tbl.String())

	for _, r := range reports {
		if !r.Failing() {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", r.Workflow)
		breakdown := r.FailureBreakdown()
		for _, cat := range triage.Categories() {
			count, ok := breakdown[cat]
			if !ok {
				continue
			}
			meta := triage.Lookup(cat)
			fmt.Fprintf(out, "  %s %s: %d (%s)\n",
				format.BoolMark(meta.AutoFixable), triage.CategoryName(cat), count, meta.Severity)
		}
		for _, f := range r.Failures {
			fmt.Fprintf(out, "  run %d  %s  %s\n", f.RunID, f.CreatedAt, format.Truncate(f.DisplayTitle, 60))
		}
	}
}
