// Package store persists match and profile documents and fans out match
// changes to subscribers.
package store

import (
	"context"

	"matchmate/models"
)

// MatchQuery narrows ListMatches. Empty fields match everything; city and
// district compare case-insensitively.
type MatchQuery struct {
	City     string
	District string
	OpenOnly bool
	Limit    int
}

// Repository is the persistence boundary for matches and profiles.
//
// SaveMatch and SaveUser are conditional writes: they succeed only if the
// stored version still equals the version of the document passed in, and
// return squad.ErrConflict otherwise. On success the document's Version is
// advanced to the stored value.
type Repository interface {
	GetMatch(ctx context.Context, id string) (*models.Match, error)
	CreateMatch(ctx context.Context, m *models.Match) error
	SaveMatch(ctx context.Context, m *models.Match) error
	ListMatches(ctx context.Context, q MatchQuery) ([]models.Match, error)
	ListMatchesByID(ctx context.Context, ids []string) ([]models.Match, error)
	ListReadyUnnotified(ctx context.Context, limit int) ([]models.Match, error)
	MarkReadyNotified(ctx context.Context, id string, version int) error

	// Subscribe calls onChange with the current match and again after
	// every write until the returned function is called or ctx ends.
	Subscribe(ctx context.Context, id string, onChange func(*models.Match)) (func(), error)

	GetUser(ctx context.Context, playerID uint) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
	ListAvailablePlayers(ctx context.Context) ([]models.User, error)
}
