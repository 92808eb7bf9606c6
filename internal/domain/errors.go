package domain

import "errors"

// Error taxonomy for the firewall. NotFound is a normal outcome for lookups
// and must never abort the scoring path; the remaining errors mark genuine
// failures at their respective boundaries.
var (
	// ErrNotFound signals an absent merchant, transaction or policy.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signals a dataset row or request that fails invariants.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration signals a missing or unreadable reference dataset
	// at startup. Fatal to the process, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrScoring signals an internal invariant violation during decision
	// synthesis. Fails the single request only.
	ErrScoring = errors.New("scoring error")

	// ErrLLM signals that the reasoning service is unavailable or returned
	// unusable output.
	ErrLLM = errors.New("llm error")

	// ErrDatabase signals that the ledger store is unreachable. Scoring
	// results are still returned; persistence is best-effort.
	ErrDatabase = errors.New("database error")
)
