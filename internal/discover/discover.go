// Package discover finds the content-generation workflows in a repository.
//
// A workflow qualifies when any of its job steps runs a recognized
// content-generation entry point. Matching is by script name, so new
// topics (new workflow files calling the same scripts) are picked up
// without code changes.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"autoheal/internal/logging"
)

// DefaultDir is where GitHub Actions keeps workflow definitions.
const DefaultDir = ".github/workflows"

// DefaultMarkers are the entry-point scripts that mark a workflow as
// content-generating.
var DefaultMarkers = []string{
	"generate_newsfeed.py",
	"generate_trades.py",
}

// workflowFile is the minimal shape needed to walk job steps.
type workflowFile struct {
	Jobs map[string]struct {
		Steps []struct {
			Run string `yaml:"run"`
		} `yaml:"steps"`
	} `yaml:"jobs"`
}

// ContentWorkflows scans dir for workflow files whose steps reference one
// of the markers. Returns sorted basenames (e.g. "nba-news.yml").
// Unreadable or unparsable files are logged and skipped, never fatal.
func ContentWorkflows(dir string, markers []string) ([]string, error) {
	log := logging.New("discover")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read workflows dir %s: %w", dir, err)
	}

	var found []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isWorkflowFile(name) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read workflow file, skipping", "file", name, "err", err)
			continue
		}
		var wf workflowFile
		if err := yaml.Unmarshal(data, &wf); err != nil {
			log.Warn("could not parse workflow file, skipping", "file", name, "err", err)
			continue
		}
		if usesMarker(&wf, markers) {
			found = append(found, name)
		}
	}

	sort.Strings(found)
	return found, nil
}

func isWorkflowFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

func usesMarker(wf *workflowFile, markers []string) bool {
	for _, job := range wf.Jobs {
		for _, step := range job.Steps {
			for _, marker := range markers {
				if strings.Contains(step.Run, marker) {
					return true
				}
			}
		}
	}
	return false
}
