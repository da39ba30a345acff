// Package actions is the collaborator client for the GitHub CLI.
//
// Everything the core needs from GitHub — recent run outcomes, run logs,
// re-run triggers, issue creation — goes through `gh`, the same transport
// an operator uses by hand. The core consumes this package through small
// interfaces declared at the call sites; Client returns structs.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"autoheal/internal/logging"
)

// Run is one workflow run outcome as reported by `gh run list`.
type Run struct {
	ID           int64     `json:"databaseId"`
	Conclusion   string    `json:"conclusion"`
	CreatedAt    time.Time `json:"createdAt"`
	DisplayTitle string    `json:"displayTitle"`
	URL          string    `json:"url"`
}

// Client shells out to the GitHub CLI. Bin and Runner are exported for
// tests; NewClient wires the real command runner.
type Client struct {
	Bin    string
	Runner CommandRunner
	log    *slog.Logger
}

// NewClient returns a Client that invokes the `gh` binary.
func NewClient() *Client {
	return &Client{Bin: "gh", Runner: runCommand, log: logging.New("actions")}
}

// ListRuns fetches the most recent runs for a workflow, newest first.
func (c *Client) ListRuns(ctx context.Context, workflow string, limit int) ([]Run, error) {
	stdout, stderr, err := c.Runner(ctx, c.Bin,
		"run", "list",
		"--workflow", workflow,
		"--limit", strconv.Itoa(limit),
		"--json", "databaseId,conclusion,createdAt,displayTitle,url",
	)
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w (%s)", workflow, err, strings.TrimSpace(stderr))
	}
	var runs []Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		return nil, fmt.Errorf("parse run list for %s: %w", workflow, err)
	}
	return runs, nil
}

// RunLog downloads the combined log text for one run.
func (c *Client) RunLog(ctx context.Context, runID int64) (string, error) {
	stdout, stderr, err := c.Runner(ctx, c.Bin, "run", "view", strconv.FormatInt(runID, 10), "--log")
	if err != nil {
		return "", fmt.Errorf("fetch logs for run %d: %w (%s)", runID, err, strings.TrimSpace(stderr))
	}
	return stdout, nil
}

// TriggerRun dispatches a fresh run of the named workflow.
func (c *Client) TriggerRun(ctx context.Context, workflow string) error {
	_, stderr, err := c.Runner(ctx, c.Bin, "workflow", "run", workflow)
	if err != nil {
		return fmt.Errorf("trigger workflow %s: %w (%s)", workflow, err, strings.TrimSpace(stderr))
	}
	c.log.Info("triggered workflow", "workflow", workflow)
	return nil
}

// CreateIssue opens a human-facing issue and returns its URL.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (string, error) {
	args := []string{"issue", "create", "--title", title, "--body", body}
	if len(labels) > 0 {
		args = append(args, "--label", strings.Join(labels, ","))
	}
	stdout, stderr, err := c.Runner(ctx, c.Bin, args...)
	if err != nil {
		return "", fmt.Errorf("create issue: %w (%s)", err, strings.TrimSpace(stderr))
	}
	url := strings.TrimSpace(stdout)
	c.log.Info("created issue", "url", url)
	return url, nil
}
