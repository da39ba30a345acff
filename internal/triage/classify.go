// Package triage maps raw workflow run logs to a failure taxonomy.
//
// Classification is a pure function over the log text: no state, no I/O,
// safe to call concurrently. The pattern table order is a contract —
// categories are not mutually exclusive, and the first match wins.
package triage

import "regexp"

// Diagnosis is the classification result for one failed run.
// Field tags mirror the diagnostic report wire format.
type Diagnosis struct {
	Category    Category `json:"type"`
	Severity    Severity `json:"severity"`
	AutoFixable bool     `json:"fixable"`
	Description string   `json:"description"`
	// MatchedText is the log evidence the category was inferred from,
	// or nil when logs were unavailable or nothing matched.
	MatchedText *string `json:"matched_text"`
}

// snippetLimit caps the extracted evidence for unmatched failures.
const snippetLimit = 200

// pattern table, in tie-break order. (?is): case-insensitive, and a
// pattern may span the log's logical lines.
var patterns = []struct {
	category Category
	re       *regexp.Regexp
}{
	{PermissionDenied, regexp.MustCompile(`(?is)Permission to .* denied|fatal: unable to access.*403|The requested URL returned error: 403`)},
	{APIQuota, regexp.MustCompile(`(?is)quota.*exceeded|rate limit|429|Resource has been exhausted`)},
	{EmptyResponse, regexp.MustCompile(`(?is)empty response|no content returned|response is None|Response: None`)},
	{MissingSecret, regexp.MustCompile(`(?is)[A-Z0-9_]*_PROMPT.*not set|environment variable.*_PROMPT.*not found`)},
	{EncodingError, regexp.MustCompile(`(?is)UnicodeDecodeError|codec.*decode|'utf-8' codec can't decode`)},
	{WorkflowConfig, regexp.MustCompile(`(?is)Invalid workflow file|syntax error in workflow|yaml.*parse error`)},
	{GitConflict, regexp.MustCompile(`(?is)CONFLICT.*merge|failed to push.*rejected|Updates were rejected`)},
}

// errorIntroducers extract a displayable snippet when no category matched.
// Tried in declared order; the first pattern that matches anywhere wins.
var errorIntroducers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Error: (.+)`),
	regexp.MustCompile(`(?i)FATAL: (.+)`),
	regexp.MustCompile(`(?i)failed with (.+)`),
	regexp.MustCompile(`(?i)Exception: (.+)`),
}

// Classify analyzes run log text and returns the failure diagnosis.
// Empty input means the logs could not be retrieved.
func Classify(logText string) Diagnosis {
	if logText == "" {
		return Diagnosis{
			Category:    Unknown,
			Severity:    SeverityMedium,
			AutoFixable: false,
			Description: "logs unavailable",
		}
	}

	for _, p := range patterns {
		if m := p.re.FindString(logText); m != "" {
			meta := Lookup(p.category)
			return Diagnosis{
				Category:    p.category,
				Severity:    meta.Severity,
				AutoFixable: meta.AutoFixable,
				Description: meta.Description,
				MatchedText: &m,
			}
		}
	}

	meta := Lookup(Unknown)
	d := Diagnosis{
		Category:    Unknown,
		Severity:    meta.Severity,
		AutoFixable: meta.AutoFixable,
		Description: meta.Description,
	}
	for _, re := range errorIntroducers {
		if m := re.FindString(logText); m != "" {
			if len(m) > snippetLimit {
				m = m[:snippetLimit]
			}
			d.MatchedText = &m
			break
		}
	}
	return d
}
