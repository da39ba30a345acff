package orchestrate

import "autoheal/internal/triage"

// Workflow health statuses for a sweep report.
const (
	StatusHealthy = "healthy"
	StatusFailing = "failing"
)

// RunFailure is one diagnosed failing run inside a report.
type RunFailure struct {
	RunID        int64            `json:"run_id"`
	CreatedAt    string           `json:"created_at"`
	URL          string           `json:"url"`
	DisplayTitle string           `json:"display_title"`
	Diagnosis    triage.Diagnosis `json:"diagnosis"`
}

// Report summarizes the recent health of one workflow. Sweep produces
// one per inspected workflow; it is read-only triage, no remediation.
type Report struct {
	Workflow        string       `json:"workflow"`
	Status          string       `json:"status"`
	RecentFailures  int          `json:"recent_failures"`
	FixableFailures int          `json:"fixable_failures"`
	RequiresHuman   int          `json:"requires_human"`
	Failures        []RunFailure `json:"failures"`
}

// Failing reports whether the workflow needs attention.
func (r *Report) Failing() bool { return r.Status == StatusFailing }

// FailureBreakdown counts failures per category.
func (r *Report) FailureBreakdown() map[triage.Category]int {
	counts := make(map[triage.Category]int)
	for _, f := range r.Failures {
		counts[f.Diagnosis.Category]++
	}
	return counts
}
