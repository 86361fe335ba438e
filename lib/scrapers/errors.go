// Package scrapers holds the error kinds shared by the external-source
// clients. Callers classify failures with errors.Is and decide whether
// to degrade (keep serving stale data) or surface the failure.
package scrapers

import "errors"

var (
	// ErrSourceUnavailable marks network failures, timeouts, and
	// non-success statuses from an upstream source.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedSource marks a response that arrived but could not
	// be understood. These degrade to an empty result for that
	// source, never a crash.
	ErrMalformedSource = errors.New("malformed source response")
)
