package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"matchmate/models"
	"matchmate/squad"
	"matchmate/store"
	"matchmate/utils"
)

// conflictBackoff spaces out re-reads after a lost version race.
func conflictBackoff(ctx context.Context, attempts int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 3 * time.Second
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// withRetry runs a read-modify-write until it stops losing version races.
// Any error other than squad.ErrConflict ends the loop immediately.
func withRetry(ctx context.Context, attempts int, document string, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		switch {
		case err == nil:
			return nil
		case errors.Is(err, squad.ErrConflict):
			utils.OptimisticConflicts.WithLabelValues(document).Inc()
			return err
		default:
			return backoff.Permanent(err)
		}
	}, conflictBackoff(ctx, attempts))
}

// updateUser re-reads the profile on every attempt and applies mutate to
// the fresh copy before the conditional write.
func updateUser(ctx context.Context, repo store.Repository, attempts int, playerID uint, mutate func(*models.User) error) (*models.User, error) {
	var saved *models.User
	err := withRetry(ctx, attempts, "user", func() error {
		u, err := repo.GetUser(ctx, playerID)
		if err != nil {
			return err
		}
		if err := mutate(u); err != nil {
			return err
		}
		if err := repo.SaveUser(ctx, u); err != nil {
			return err
		}
		saved = u
		return nil
	})
	return saved, err
}

// updateMatch is updateUser for match documents.
func updateMatch(ctx context.Context, repo store.Repository, attempts int, matchID string, mutate func(*models.Match) error) (*models.Match, error) {
	var saved *models.Match
	err := withRetry(ctx, attempts, "match", func() error {
		m, err := repo.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if err := mutate(m); err != nil {
			return err
		}
		if err := repo.SaveMatch(ctx, m); err != nil {
			return err
		}
		saved = m
		return nil
	})
	return saved, err
}
