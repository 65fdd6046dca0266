package logic

import "errors"

// Failure taxonomy surfaced to controllers. dao.ErrInsufficientCredits and
// pkg.UpstreamError complete the set.
var (
	// ErrNoteNotFound covers both an absent note and a note owned by someone
	// else; the two cases are deliberately indistinguishable.
	ErrNoteNotFound = errors.New("note not found")

	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken = errors.New("user already exists")
)
