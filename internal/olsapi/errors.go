package olsapi

import "errors"

// Sentinel errors classifying every failure surfaced by this package.
// Callers match with errors.Is; messages wrap these with %w.
var (
	// ErrNotFound: the ontology or term does not exist upstream (404).
	ErrNotFound = errors.New("ols: not found")
	// ErrNetwork: transport-level failure after retries were exhausted.
	ErrNetwork = errors.New("ols: network failure")
	// ErrUpstream: the OLS API returned an unexpected status or failed
	// mid-traversal.
	ErrUpstream = errors.New("ols: upstream failure")
	// ErrMalformed: a response decoded but lacked required identity
	// fields (IRI, ontology code) or was not valid JSON.
	ErrMalformed = errors.New("ols: malformed response")
	// ErrValidation: the caller supplied invalid parameters.
	ErrValidation = errors.New("ols: invalid argument")
)
