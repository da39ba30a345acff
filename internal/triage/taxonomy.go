package triage

import (
	"fmt"
	"strings"
)

// Category is a closed enumeration of known workflow failure types.
type Category string

const (
	PermissionDenied Category = "permission_denied"
	APIQuota         Category = "api_quota"
	EmptyResponse    Category = "empty_response"
	MissingSecret    Category = "missing_secret"
	EncodingError    Category = "encoding_error"
	WorkflowConfig   Category = "workflow_config"
	GitConflict      Category = "git_conflict"
	Unknown          Category = "unknown"
)

// Severity grades how urgent a failure category is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Metadata is the static per-category lookup record. Never mutated at runtime.
type Metadata struct {
	Severity    Severity
	AutoFixable bool
	Description string
}

var metadata = map[Category]Metadata{
	PermissionDenied: {SeverityHigh, false, "Git push failed due to insufficient access token permissions"},
	APIQuota:         {SeverityMedium, true, "Upstream API quota exhausted or rate limited"},
	EmptyResponse:    {SeverityLow, true, "Upstream API returned an empty response (transient error)"},
	MissingSecret:    {SeverityHigh, false, "Required prompt secret environment variable not set"},
	EncodingError:    {SeverityLow, true, "UTF-8 encoding error (should be fixed in latest code)"},
	WorkflowConfig:   {SeverityHigh, false, "Workflow YAML configuration syntax error"},
	GitConflict:      {SeverityMedium, true, "Git merge conflict or rejected push"},
	Unknown:          {SeverityHigh, false, "Unknown failure - requires human review"},
}

// Lookup returns the static metadata for a category.
func Lookup(c Category) Metadata {
	return metadata[c]
}

// Categories returns all known categories, matching order first, unknown last.
func Categories() []Category {
	return []Category{
		PermissionDenied,
		APIQuota,
		EmptyResponse,
		MissingSecret,
		EncodingError,
		WorkflowConfig,
		GitConflict,
		Unknown,
	}
}

// ParseCategory converts a CLI flag value into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToLower(s)))
	if _, ok := metadata[c]; ok {
		return c, nil
	}
	names := make([]string, 0, len(metadata))
	for _, known := range Categories() {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("unknown failure type %q (valid: %s)", s, strings.Join(names, ", "))
}

// Code is for machines, words are for humans: CategoryName is for CLI
// output and ticket text, the raw Category for JSON fields and map keys.
var categoryNames = map[Category]string{
	PermissionDenied: "Permission Denied",
	APIQuota:         "API Quota Exhausted",
	EmptyResponse:    "Empty API Response",
	MissingSecret:    "Missing Prompt Secret",
	EncodingError:    "Encoding Error",
	WorkflowConfig:   "Workflow Configuration Error",
	GitConflict:      "Git Conflict",
	Unknown:          "Unknown Failure",
}

// CategoryName returns the human-readable name for a category.
// Unknown codes are returned as-is.
func CategoryName(c Category) string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}
