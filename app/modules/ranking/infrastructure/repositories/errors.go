package rankingdb

import "errors"

// Sentinel errors for the repository layer.
// These are infrastructure-level errors; the service layer maps them to
// domain errors.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
)
