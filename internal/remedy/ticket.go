package remedy

import (
	"fmt"
	"strings"
	"time"

	"autoheal/internal/format"
	"autoheal/internal/triage"
)

// Ticket is the human-facing escalation payload for one failure.
type Ticket struct {
	Title  string
	Body   string
	Labels []string
}

// titlePrefix marks tickets created by this tool.
const titlePrefix = "[Auto-Monitor]"

// classLabel is the category-class label attached beside bug/auto-monitor.
func classLabel(cat triage.Category) string {
	switch cat {
	case triage.PermissionDenied:
		return "security"
	case triage.MissingSecret, triage.WorkflowConfig:
		return "configuration"
	default:
		return "needs-investigation"
	}
}

// checklist is the category-specific remediation steps for the assignee.
func checklist(cat triage.Category, workflow string) []string {
	switch cat {
	case triage.PermissionDenied:
		return []string{
			"Verify the access token has the required scopes (`repo`, `workflow`)",
			"Regenerate the token if needed and update the secret: `gh secret set PAT_TOKEN`",
			fmt.Sprintf("Verify the fix: `gh workflow run %s` and check the latest run", workflow),
		}
	case triage.MissingSecret:
		return []string{
			"Check the feed configuration to identify the required secret name",
			"Add the missing secret: `gh secret set YOUR_PROMPT_NAME`",
			fmt.Sprintf("Verify the fix: `gh workflow run %s` and check the latest run", workflow),
		}
	case triage.WorkflowConfig:
		return []string{
			fmt.Sprintf("Review the workflow file for YAML syntax errors: `.github/workflows/%s`", workflow),
			"Validate it locally before pushing (e.g. actionlint)",
			fmt.Sprintf("Verify the fix: `gh workflow run %s` and check the latest run", workflow),
		}
	default:
		return []string{
			"Review the run logs: `gh run view <run-id> --log`",
			"Check whether a new failure pattern should be added to the triage taxonomy",
			"Manual intervention required",
		}
	}
}

// buildTicket assembles the escalation ticket for a category. The body
// always carries the workflow, run id, category, detection time, a
// remediation checklist, and an explicit cannot-auto-fix marker.
func buildTicket(cat triage.Category, workflow string, runID int64, now time.Time) Ticket {
	runRef := "N/A"
	if runID != 0 {
		runRef = fmt.Sprintf("%d", runID)
	}

	details := format.NewTable(format.Markdown)
	details.Header("Field", "Value")
	details.Row("Workflow", fmt.Sprintf("`%s`", workflow))
	details.Row("Run ID", runRef)
	details.Row("Failure Type", string(cat))
	details.Row("Detected", now.Format("2006-01-02 15:04:05 UTC"))

	var b strings.Builder
	fmt.Fprintf(&b, "## Workflow Failure: %s\n\n", triage.CategoryName(cat))
	b.WriteString(details.String())
	b.WriteString("\n\n### Issue\n")
	b.WriteString(triage.Lookup(cat).Description)
	b.WriteString("\n\n### Required Actions\n\n")
	for i, step := range checklist(cat, workflow) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\n### Auto-Fix Status\n")
	b.WriteString("Cannot auto-fix - requires manual action\n")
	b.WriteString("\n---\n*Generated by autoheal*\n")

	return Ticket{
		Title:  fmt.Sprintf("%s %s - %s", titlePrefix, triage.CategoryName(cat), workflow),
		Body:   b.String(),
		Labels: []string{"bug", "auto-monitor", classLabel(cat)},
	}
}
