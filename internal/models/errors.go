package models

import "errors"

// Sentinel errors shared across the repositories and services. Callers
// match them with errors.Is; layers add context with fmt.Errorf("...: %w").
var (
	// ErrInvalidValue means caller-supplied data failed validation.
	// Nothing is written when it is returned.
	ErrInvalidValue = errors.New("invalid value")

	// ErrDuplicateSymbol means an asset with that symbol already exists.
	ErrDuplicateSymbol = errors.New("duplicate symbol")

	// ErrNotFound means the referenced symbol or record id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable means the market-data or FX source failed or
	// returned an empty result. Never fatal: consumers skip and log.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
