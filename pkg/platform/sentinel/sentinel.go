package sentinel

import "errors"

// Storage facts. Stores return these (optionally wrapped) and services
// translate them into coded domain errors:
//   - ErrNotFound: no row for the key
//   - ErrAlreadyUsed: an issued credential already exists for (subject, tier)
//   - ErrConflict: a unique identifier (verification code, credential number) collided
//   - ErrUnavailable: backing store temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
