// Package ledger is the durable audit trail of remediation attempts.
//
// The whole ledger is one JSON document keyed by workflow name. Access is
// load-entire / mutate / save-entire: a caller must treat it as a
// single-writer resource per workflow. Mutation happens on the in-memory
// mapping only; Save replaces the document atomically, so a crashed write
// never leaves a partial ledger behind.
package ledger

import (
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"autoheal/internal/logging"
	"autoheal/internal/triage"
)

// DefaultPath is the default relative location of the ledger document.
// Open() creates the parent dir (e.g. .autoheal) on first save.
const DefaultPath = ".autoheal/fix_attempts.json"

// maxAttempts bounds each workflow's history; oldest entries drop first.
const maxAttempts = 50

// Attempt is one recorded remediation attempt.
// Timestamps are stored as RFC 3339 strings; readers must tolerate
// unparsable values (the Guard fails open on them).
type Attempt struct {
	ID          string `json:"id,omitempty"`
	Timestamp   string `json:"timestamp"`
	FailureType string `json:"failure_type"`
	Action      string `json:"action"`
	Success     bool   `json:"success"`
}

// JobHistory is the per-workflow attempt record. Created lazily on the
// first append, never destroyed; truncates in place at maxAttempts.
type JobHistory struct {
	Attempts    []Attempt `json:"attempts"`
	LastAttempt string    `json:"last_attempt"`
}

// Store reads and writes the ledger document at a fixed path.
type Store struct {
	path string
	log  *slog.Logger
}

// Open returns a Store for the document at path. The file need not exist.
func Open(path string) *Store {
	return &Store{path: path, log: logging.New("ledger")}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load reads the full ledger mapping. A missing or corrupt document
// degrades to an empty mapping — history loss must never block a
// remediation cycle.
func (s *Store) Load() map[string]*JobHistory {
	histories := make(map[string]*JobHistory)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("could not read attempt ledger, starting empty", "path", s.path, "err", err)
		}
		return histories
	}
	if err := json.Unmarshal(data, &histories); err != nil {
		s.log.Warn("attempt ledger is corrupt, starting empty", "path", s.path, "err", err)
		return make(map[string]*JobHistory)
	}
	for name, h := range histories {
		if h == nil {
			histories[name] = &JobHistory{}
		}
	}
	return histories
}

// Save persists the full mapping, creating the parent directory if needed.
// The document is written to a temp file and renamed into place so a
// failure mid-write leaves the previous document intact.
func (s *Store) Save(histories map[string]*JobHistory) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(histories, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".fix_attempts-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Append records an attempt for workflow at time now, creating the
// JobHistory if absent and truncating to the last maxAttempts entries.
// Pure map mutation; the caller decides when to Save.
func Append(histories map[string]*JobHistory, workflow string, category triage.Category, action string, success bool, now time.Time) *Attempt {
	h := histories[workflow]
	if h == nil {
		h = &JobHistory{}
		histories[workflow] = h
	}
	ts := now.UTC().Format(time.RFC3339)
	h.Attempts = append(h.Attempts, Attempt{
		ID:          NewAttemptID(),
		Timestamp:   ts,
		FailureType: string(category),
		Action:      action,
		Success:     success,
	})
	if len(h.Attempts) > maxAttempts {
		h.Attempts = h.Attempts[len(h.Attempts)-maxAttempts:]
	}
	h.LastAttempt = ts
	return &h.Attempts[len(h.Attempts)-1]
}

// NewAttemptID generates a ULID-based attempt identifier.
func NewAttemptID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
