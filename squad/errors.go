package squad

import "errors"

// Recoverable errors returned by roster, ledger and lifecycle operations.
// Callers surface them to the user and let the action be retried.
var (
	ErrTeamFull        = errors.New("team is full")
	ErrAlreadyJoined   = errors.New("player already joined this match")
	ErrAlreadyInMatch  = errors.New("player is already in this match")
	ErrAlreadyInvited  = errors.New("player is already invited to this match")
	ErrNotInMatch      = errors.New("player is not in this match")
	ErrProfileNotFound = errors.New("profile not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrConflict        = errors.New("match was modified concurrently")

	ErrMatchCancelled = errors.New("match is cancelled")
	ErrNotCancellable = errors.New("only open matches can be cancelled")
	ErrNoInvitation   = errors.New("no pending invitation for this match")
	ErrForbidden      = errors.New("operation not allowed for this player")
)
