// Package remedy maps a diagnosed failure category to its remediation
// and executes it through the GitHub collaborator.
//
// The category→action mapping is an exhaustive switch over the closed
// enum: adding a category without an action is a compile-visible hole,
// not a silent map miss. Security-sensitive categories (permission_denied,
// missing_secret) have no code path that touches credentials — their only
// remediation is a ticket for a human.
package remedy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"autoheal/internal/format"
	"autoheal/internal/logging"
	"autoheal/internal/policy"
	"autoheal/internal/triage"
)

// Action identifies the remediation applied for a category. The string
// value is what the attempt ledger records.
type Action string

const (
	ActionOpenTicket Action = "open_ticket"
	ActionDefer      Action = "defer"
	ActionRetry      Action = "retry_now"
)

// ActionFor returns the fixed remediation for a category.
func ActionFor(cat triage.Category) Action {
	switch cat {
	case triage.PermissionDenied, triage.MissingSecret, triage.WorkflowConfig, triage.Unknown:
		return ActionOpenTicket
	case triage.APIQuota:
		return ActionDefer
	case triage.EmptyResponse, triage.EncodingError, triage.GitConflict:
		return ActionRetry
	default:
		// Unrecognized categories escalate to a human.
		return ActionOpenTicket
	}
}

// Collaborator is the external surface a dispatch may touch.
type Collaborator interface {
	TriggerRun(ctx context.Context, workflow string) error
	CreateIssue(ctx context.Context, title, body string, labels []string) (url string, err error)
}

// Result reports what a dispatch did.
type Result struct {
	Action   Action
	Success  bool
	IssueURL string // set when a ticket was created
}

// Dispatcher executes remediations under a fixed policy.
type Dispatcher struct {
	gh  Collaborator
	pol policy.Policy
	out io.Writer // operator-facing text: dry-run previews, advisories
	log *slog.Logger
}

// NewDispatcher returns a Dispatcher writing operator text to out.
func NewDispatcher(gh Collaborator, pol policy.Policy, out io.Writer) *Dispatcher {
	return &Dispatcher{gh: gh, pol: pol, out: out, log: logging.New("remedy")}
}

// Dispatch applies the category's remediation for workflow. runID is 0
// when unknown. With dryRun set, no external mutation happens: the
// would-be ticket body or trigger call is written to out instead, and
// the would-be result returned.
func (d *Dispatcher) Dispatch(ctx context.Context, cat triage.Category, workflow string, runID int64, dryRun bool) Result {
	action := ActionFor(cat)

	switch action {
	case ActionOpenTicket:
		return d.openTicket(ctx, cat, workflow, runID, dryRun)

	case ActionDefer:
		// The wait is realized by the external scheduler's cadence;
		// never slept here.
		d.log.Info("api quota exhausted, deferring retry",
			"workflow", workflow, "wait", format.FmtDuration(d.pol.APIQuotaWait))
		if dryRun {
			fmt.Fprintf(d.out, "[dry-run] would defer %s for %s, then retry on the next cycle\n",
				workflow, format.FmtDuration(d.pol.APIQuotaWait))
			return Result{Action: action, Success: true}
		}
		fmt.Fprintf(d.out, "will retry %s on the next scheduled cycle (after %s backoff)\n",
			workflow, format.FmtDuration(d.pol.APIQuotaWait))
		return Result{Action: action, Success: true}

	default: // ActionRetry
		if cat == triage.EmptyResponse {
			// Advisory delay only; the trigger fires now.
			d.log.Info("transient empty response, re-running",
				"workflow", workflow, "advisory_delay", format.FmtDuration(d.pol.RetryDelay))
		}
		return Result{Action: action, Success: d.trigger(ctx, workflow, dryRun)}
	}
}

func (d *Dispatcher) openTicket(ctx context.Context, cat triage.Category, workflow string, runID int64, dryRun bool) Result {
	t := buildTicket(cat, workflow, runID, time.Now().UTC())

	if dryRun {
		fmt.Fprintf(d.out, "[dry-run] would create issue: %s\n\n%s\n", t.Title, t.Body)
		return Result{Action: ActionOpenTicket, Success: true}
	}

	url, err := d.gh.CreateIssue(ctx, t.Title, t.Body, t.Labels)
	if err != nil {
		d.log.Error("could not create issue", "workflow", workflow, "err", err)
		return Result{Action: ActionOpenTicket, Success: false}
	}
	fmt.Fprintf(d.out, "created issue: %s\n", url)
	return Result{Action: ActionOpenTicket, Success: true, IssueURL: url}
}

func (d *Dispatcher) trigger(ctx context.Context, workflow string, dryRun bool) bool {
	if dryRun {
		fmt.Fprintf(d.out, "[dry-run] would trigger workflow: %s\n", workflow)
		return true
	}
	if err := d.gh.TriggerRun(ctx, workflow); err != nil {
		d.log.Error("could not trigger workflow", "workflow", workflow, "err", err)
		return false
	}
	fmt.Fprintf(d.out, "triggered workflow: %s\n", workflow)
	return true
}
