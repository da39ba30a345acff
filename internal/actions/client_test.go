package actions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeRunner records invocations and plays back canned output.
type fakeRunner struct {
	calls  [][]string
	stdout string
	stderr string
	err    error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, f.stderr, f.err
}

func fakeClient(f *fakeRunner) *Client {
	c := NewClient()
	c.Runner = f.run
	return c
}

func TestListRuns(t *testing.T) {
	f := &fakeRunner{stdout: `[
  {"databaseId": 101, "conclusion": "failure", "createdAt": "2026-03-01T06:00:00Z", "displayTitle": "nightly", "url": "https://github.com/acme/site/actions/runs/101"},
  {"databaseId": 100, "conclusion": "success", "createdAt": "2026-02-28T06:00:00Z", "displayTitle": "nightly", "url": "https://github.com/acme/site/actions/runs/100"}
]`}
	c := fakeClient(f)

	runs, err := c.ListRuns(context.Background(), "nba-news.yml", 5)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != 101 || runs[0].Conclusion != "failure" {
		t.Errorf("unexpected runs: %+v", runs)
	}

	wantArgs := []string{"gh", "run", "list", "--workflow", "nba-news.yml", "--limit", "5",
		"--json", "databaseId,conclusion,createdAt,displayTitle,url"}
	if diff := cmp.Diff(wantArgs, f.calls[0]); diff != "" {
		t.Errorf("gh invocation mismatch (-want +got):\n%s", diff)
	}
}

func TestListRuns_CommandFails(t *testing.T) {
	f := &fakeRunner{stderr: "HTTP 404: workflow not found", err: errors.New("exit status 1")}
	c := fakeClient(f)

	_, err := c.ListRuns(context.Background(), "missing.yml", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "workflow not found") {
		t.Errorf("error should carry stderr, got: %v", err)
	}
}

func TestListRuns_BadJSON(t *testing.T) {
	f := &fakeRunner{stdout: "not json"}
	c := fakeClient(f)

	if _, err := c.ListRuns(context.Background(), "w.yml", 5); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRunLog(t *testing.T) {
	f := &fakeRunner{stdout: "step 1\nError: boom\n"}
	c := fakeClient(f)

	logText, err := c.RunLog(context.Background(), 12345)
	if err != nil {
		t.Fatalf("RunLog: %v", err)
	}
	if logText != "step 1\nError: boom\n" {
		t.Errorf("log text = %q", logText)
	}
	want := []string{"gh", "run", "view", "12345", "--log"}
	if diff := cmp.Diff(want, f.calls[0]); diff != "" {
		t.Errorf("gh invocation mismatch (-want +got):\n%s", diff)
	}
}

func TestTriggerRun(t *testing.T) {
	f := &fakeRunner{}
	c := fakeClient(f)

	if err := c.TriggerRun(context.Background(), "nba-news.yml"); err != nil {
		t.Fatalf("TriggerRun: %v", err)
	}
	want := []string{"gh", "workflow", "run", "nba-news.yml"}
	if diff := cmp.Diff(want, f.calls[0]); diff != "" {
		t.Errorf("gh invocation mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateIssue(t *testing.T) {
	f := &fakeRunner{stdout: "https://github.com/acme/site/issues/42\n"}
	c := fakeClient(f)

	url, err := c.CreateIssue(context.Background(), "title", "body", []string{"bug", "auto-monitor"})
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	if url != "https://github.com/acme/site/issues/42" {
		t.Errorf("url = %q", url)
	}
	want := []string{"gh", "issue", "create", "--title", "title", "--body", "body",
		"--label", "bug,auto-monitor"}
	if diff := cmp.Diff(want, f.calls[0]); diff != "" {
		t.Errorf("gh invocation mismatch (-want +got):\n%s", diff)
	}
}
