// Package guard decides whether a remediation attempt may proceed.
//
// Both checks are pure over a ledger snapshot and a caller-supplied clock:
// no I/O happens here. Cooldown is checked before the rate limit, so a
// workflow that just attempted always reports the cooldown reason; the
// rate-limit denial only surfaces for scattered prior attempts that now
// cluster inside the window.
//
// Stored timestamps that fail to parse are skipped rather than counted:
// the guard fails open on corrupt history, because denying forever on an
// unparsable ledger would wedge the workflow permanently.
package guard

import (
	"fmt"
	"time"

	"autoheal/internal/ledger"
	"autoheal/internal/policy"
)

// Decision is the admission result for one prospective attempt.
// A denial is a deliberate refusal, not an error.
type Decision struct {
	Admitted bool
	// Reason is the human-readable denial explanation; empty when admitted.
	Reason string
	// RetryAfter hints when the caller may try again (cooldown denials
	// only), rounded down to whole minutes.
	RetryAfter time.Duration
}

// Admit checks the cooldown and rate limit for one workflow's history.
// A nil history means no prior attempts and always admits.
func Admit(h *ledger.JobHistory, pol policy.Policy, now time.Time) Decision {
	if h == nil {
		return Decision{Admitted: true}
	}

	if h.LastAttempt != "" {
		last, err := time.Parse(time.RFC3339, h.LastAttempt)
		if err == nil {
			until := last.Add(pol.Cooldown)
			if now.Before(until) {
				remaining := until.Sub(now).Truncate(time.Minute)
				return Decision{
					Reason: fmt.Sprintf("cooldown active for %d more minutes (%.0f-min cooldown period)",
						int(remaining.Minutes()), pol.Cooldown.Minutes()),
					RetryAfter: remaining,
				}
			}
		}
	}

	cutoff := now.Add(-pol.RateWindow)
	recent := 0
	for _, a := range h.Attempts {
		ts, err := time.Parse(time.RFC3339, a.Timestamp)
		if err != nil {
			continue
		}
		if ts.After(cutoff) {
			recent++
		}
	}
	if recent >= pol.MaxAttemptsPerHour {
		return Decision{
			Reason: fmt.Sprintf("rate limit exceeded: %d/%d attempts in the last %.0f minutes",
				recent, pol.MaxAttemptsPerHour, pol.RateWindow.Minutes()),
		}
	}

	return Decision{Admitted: true}
}
