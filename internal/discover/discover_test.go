package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

const newsfeedWorkflow = `name: NBA News
on:
  schedule:
    - cron: "0 6 * * *"
jobs:
  generate:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - name: Generate feed
        run: python scripts/generate_newsfeed.py --topic nba
`

const tradesWorkflow = `name: Trade Watcher
on: [workflow_dispatch]
jobs:
  watch:
    runs-on: ubuntu-latest
    steps:
      - run: |
          pip install -r requirements.txt
          python scripts/generate_trades.py
`

const unrelatedWorkflow = `name: CI
on: [push]
jobs:
  test:
    runs-on: ubuntu-latest
    steps:
      - run: go test ./...
`

func TestContentWorkflows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "trade-watcher.yaml", tradesWorkflow)
	writeFile(t, dir, "nba-news.yml", newsfeedWorkflow)
	writeFile(t, dir, "ci.yml", unrelatedWorkflow)
	writeFile(t, dir, "notes.txt", "not a workflow")

	got, err := ContentWorkflows(dir, DefaultMarkers)
	if err != nil {
		t.Fatalf("ContentWorkflows: %v", err)
	}
	want := []string{"nba-news.yml", "trade-watcher.yaml"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("discovery mismatch (-want +got):\n%s", diff)
	}
}

func TestContentWorkflows_SkipsUnparsable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yml", "jobs: [unclosed")
	writeFile(t, dir, "nba-news.yml", newsfeedWorkflow)

	got, err := ContentWorkflows(dir, DefaultMarkers)
	if err != nil {
		t.Fatalf("ContentWorkflows: %v", err)
	}
	want := []string{"nba-news.yml"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("discovery mismatch (-want +got):\n%s", diff)
	}
}

func TestContentWorkflows_MissingDir(t *testing.T) {
	if _, err := ContentWorkflows(filepath.Join(t.TempDir(), "nope"), DefaultMarkers); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestContentWorkflows_NoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ci.yml", unrelatedWorkflow)

	got, err := ContentWorkflows(dir, DefaultMarkers)
	if err != nil {
		t.Fatalf("ContentWorkflows: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}
