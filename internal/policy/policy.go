// Package policy holds the compiled-in remediation timing policy.
// Changing a value means redeploying the tool; there is no environment
// override.
package policy

import "time"

// Policy is the immutable set of timing guardrails for remediation.
// Thread a value into the Guard and Dispatcher at construction time;
// never mutate it afterwards.
type Policy struct {
	// Cooldown is the minimum wait between two remediation attempts
	// for the same workflow.
	Cooldown time.Duration
	// MaxAttemptsPerHour caps remediation attempts within RateWindow.
	MaxAttemptsPerHour int
	// RateWindow is the trailing window the attempt cap applies to.
	RateWindow time.Duration
	// APIQuotaWait is the advisory backoff before retrying a workflow
	// that failed on API quota exhaustion. Logged, never slept.
	APIQuotaWait time.Duration
	// RetryDelay is the advisory delay before re-running a workflow
	// that failed transiently. Logged, never slept.
	RetryDelay time.Duration
}

// Default returns the production policy.
func Default() Policy {
	return Policy{
		Cooldown:           60 * time.Minute,
		MaxAttemptsPerHour: 3,
		RateWindow:         time.Hour,
		APIQuotaWait:       120 * time.Minute,
		RetryDelay:         10 * time.Minute,
	}
}
