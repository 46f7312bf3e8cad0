package domain

import "errors"

var (
	// ErrInvalidInput marks caller mistakes: an empty query or mismatched
	// parallel arrays. Not retryable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProvider marks embedding provider failures (transport, auth, rate
	// limits) after retries are exhausted. Safe to retry with backoff.
	ErrProvider = errors.New("embedding provider error")

	// ErrIndexNotFound is returned when querying a collection that has never
	// been ingested into. Distinct from a valid query with zero matches.
	ErrIndexNotFound = errors.New("index not found")
)
