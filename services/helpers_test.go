package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"matchmate/catalog"
	"matchmate/models"
	"matchmate/services"
	"matchmate/squad"
	"matchmate/store"
	"matchmate/store/storetest"
)

type sentInvitation struct {
	PlayerID  string
	MatchName string
}

// recordingNotifier keeps every notification it was asked to send.
type recordingNotifier struct {
	mu          sync.Mutex
	invitations []sentInvitation
	ready       []string
	err         error
}

func (n *recordingNotifier) NotifyInvitation(_ context.Context, playerID, matchName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invitations = append(n.invitations, sentInvitation{playerID, matchName})
	return n.err
}

func (n *recordingNotifier) NotifyMatchReady(_ context.Context, matchID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ready = append(n.ready, matchID)
	return n.err
}

func (n *recordingNotifier) Close() error { return nil }

// racingRepo runs race right before the first SaveMatch, simulating another
// client that read the same version and wrote first.
type racingRepo struct {
	store.Repository
	once sync.Once
	race func()
}

func (r *racingRepo) SaveMatch(ctx context.Context, m *models.Match) error {
	r.once.Do(r.race)
	return r.Repository.SaveMatch(ctx, m)
}

// contendedRepo loses every match write.
type contendedRepo struct {
	store.Repository
	saves int
}

func (r *contendedRepo) SaveMatch(context.Context, *models.Match) error {
	r.saves++
	return squad.ErrConflict
}

// failingRepo fails profile reads with an infrastructure error.
type failingRepo struct {
	store.Repository
}

func (failingRepo) GetUser(context.Context, uint) (*models.User, error) {
	return nil, errors.New("connection reset")
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	repo     store.Repository
	notifier *recordingNotifier
	matches  *services.MatchService
	profiles *services.ProfileService
	full     []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, _ := storetest.NewRepository(t)
	return newFixtureWith(t, repo)
}

func newFixtureWith(t *testing.T, repo store.Repository) *fixture {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		repo:     repo,
		notifier: &recordingNotifier{},
	}
	f.matches = services.NewMatchService(repo, f.notifier, cat, services.Options{
		Attempts:     5,
		OnBecameFull: func(id string) { f.full = append(f.full, id) },
	})
	f.profiles = services.NewProfileService(repo, cat, 5)
	return f
}

func (f *fixture) profile(name string) *models.User {
	f.t.Helper()
	u, err := f.profiles.CreateProfile(f.ctx, services.CreateProfileInput{
		Name:        name,
		Surname:     "Yılmaz",
		City:        "Ankara",
		District:    "Çankaya",
		Position:    models.PositionMiddlefielder,
		IsAvailable: true,
	})
	require.NoError(f.t, err)
	return u
}

func (f *fixture) match(creator *models.User, name, kickoff string) *models.Match {
	f.t.Helper()
	m, err := f.matches.CreateMatch(f.ctx, creator.PlayerID, services.CreateMatchInput{
		Name:        name,
		Date:        "24/10/2026",
		Time:        kickoff,
		City:        "Ankara",
		District:    "Çankaya",
		Description: "7v7 on turf",
	})
	require.NoError(f.t, err)
	return m
}

// fillExceptOne joins players until only the last team 2 slot is open.
func (f *fixture) fillExceptOne(matchID string) {
	f.t.Helper()
	for i := 1; i < squad.RosterSize-1; i++ {
		team := 1
		if i >= squad.TeamSize {
			team = 2
		}
		p := f.profile(fmt.Sprintf("Filler%02d", i))
		_, err := f.matches.JoinTeam(f.ctx, matchID, p.PlayerID, team)
		require.NoError(f.t, err)
	}
}

func (f *fixture) user(id uint) *models.User {
	f.t.Helper()
	u, err := f.repo.GetUser(f.ctx, id)
	require.NoError(f.t, err)
	return u
}
