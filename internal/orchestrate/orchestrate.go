// Package orchestrate wires the triage, guard, dispatch, and ledger
// stages into the two top-level operations: a guarded remediation for
// one workflow, and a read-only diagnosis sweep across many.
package orchestrate

import (
	"context"
	"log/slog"
	"time"

	"autoheal/internal/actions"
	"autoheal/internal/guard"
	"autoheal/internal/ledger"
	"autoheal/internal/logging"
	"autoheal/internal/policy"
	"autoheal/internal/remedy"
	"autoheal/internal/triage"
)

// failingConclusions are the run conclusions a sweep diagnoses.
var failingConclusions = map[string]bool{
	"failure":   true,
	"cancelled": true,
	"timed_out": true,
}

// RunSource lists recent run outcomes and fetches run logs.
// Satisfied by *actions.Client.
type RunSource interface {
	ListRuns(ctx context.Context, workflow string, limit int) ([]actions.Run, error)
	RunLog(ctx context.Context, runID int64) (string, error)
}

// Dispatcher executes a remediation. Satisfied by *remedy.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, cat triage.Category, workflow string, runID int64, dryRun bool) remedy.Result
}

// Orchestrator runs one diagnose-or-remediate cycle at a time. The
// ledger is load-entire/mutate/save-entire, so concurrent invocations
// for the same workflow need external serialization.
type Orchestrator struct {
	store *ledger.Store
	pol   policy.Policy
	runs  RunSource
	disp  Dispatcher
	log   *slog.Logger
	now   func() time.Time
}

// New wires an Orchestrator. runs may be nil when only RunRemediation
// is used; disp may be nil when only Sweep is used.
func New(store *ledger.Store, pol policy.Policy, runs RunSource, disp Dispatcher) *Orchestrator {
	return &Orchestrator{
		store: store,
		pol:   pol,
		runs:  runs,
		disp:  disp,
		log:   logging.New("orchestrate"),
		now:   time.Now,
	}
}

// RunRemediation applies the guarded remediation cycle for one workflow
// failure: guard check, dispatch, and (unless dryRun) an appended ledger
// record. The attempt is recorded whether or not the dispatch succeeded,
// so repeated failures still consume rate-limit slots. Returns whether
// the remediation was applied successfully.
func (o *Orchestrator) RunRemediation(ctx context.Context, workflow string, cat triage.Category, runID int64, dryRun bool) bool {
	histories := o.store.Load()

	dec := guard.Admit(histories[workflow], o.pol, o.now().UTC())
	if !dec.Admitted {
		o.log.Warn("remediation denied", "workflow", workflow, "reason", dec.Reason)
		return false
	}

	o.log.Info("applying remediation",
		"workflow", workflow, "failure_type", cat, "action", remedy.ActionFor(cat), "dry_run", dryRun)
	res := o.disp.Dispatch(ctx, cat, workflow, runID, dryRun)

	if !dryRun {
		ledger.Append(histories, workflow, cat, string(res.Action), res.Success, o.now().UTC())
		if err := o.store.Save(histories); err != nil {
			// Durability of this cycle's record is lost, the cycle is not.
			o.log.Warn("could not save attempt ledger", "path", o.store.Path(), "err", err)
		}
	}

	return res.Success
}

// Sweep diagnoses the recent runs of each workflow and returns one
// report per workflow, in input order. It performs no remediation and
// never writes the ledger.
func (o *Orchestrator) Sweep(ctx context.Context, workflows []string, limit int) []*Report {
	reports := make([]*Report, 0, len(workflows))
	for _, wf := range workflows {
		reports = append(reports, o.diagnose(ctx, wf, limit))
	}
	return reports
}

// diagnose builds the health report for one workflow. A failure to list
// runs, or to fetch one run's logs, degrades rather than aborts: no runs
// means healthy-as-far-as-known, no logs means an unknown diagnosis.
func (o *Orchestrator) diagnose(ctx context.Context, workflow string, limit int) *Report {
	o.log.Debug("diagnosing workflow", "workflow", workflow, "limit", limit)

	report := &Report{Workflow: workflow, Status: StatusHealthy, Failures: []RunFailure{}}

	runs, err := o.runs.ListRuns(ctx, workflow, limit)
	if err != nil {
		o.log.Warn("could not list runs", "workflow", workflow, "err", err)
		return report
	}

	for _, run := range runs {
		if !failingConclusions[run.Conclusion] {
			continue
		}
		logText, err := o.runs.RunLog(ctx, run.ID)
		if err != nil {
			o.log.Warn("could not fetch run logs", "run_id", run.ID, "err", err)
			logText = ""
		}
		diag := triage.Classify(logText)
		o.log.Debug("classified run",
			"workflow", workflow, "run_id", run.ID, "type", diag.Category, "severity", diag.Severity)

		report.Failures = append(report.Failures, RunFailure{
			RunID:        run.ID,
			CreatedAt:    run.CreatedAt.UTC().Format(time.RFC3339),
			URL:          run.URL,
			DisplayTitle: run.DisplayTitle,
			Diagnosis:    diag,
		})
		if diag.AutoFixable {
			report.FixableFailures++
		} else {
			report.RequiresHuman++
		}
	}

	report.RecentFailures = len(report.Failures)
	if report.RecentFailures > 0 {
		report.Status = StatusFailing
	}
	return report
}
