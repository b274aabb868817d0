package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"matchmate/catalog"
	"matchmate/models"
	"matchmate/notify"
	"matchmate/squad"
	"matchmate/store"
	"matchmate/utils"
)

// Input errors raised before the core is reached.
var (
	ErrInvalidTeam     = errors.New("team must be 1 or 2")
	ErrInvalidLocation = errors.New("unknown city or district")
	ErrInvalidPosition = errors.New("unknown position")
	ErrBlankName       = errors.New("name and surname must not be blank")
)

// Options tunes a MatchService.
type Options struct {
	// Attempts bounds the optimistic read-modify-write loop.
	Attempts int
	// OnBecameFull is called after a write moved a match from open to full.
	OnBecameFull func(matchID string)
}

// MatchService runs match use cases against the repository. Roster and
// ledger rules come from package squad; this layer only loads, retries and
// persists.
type MatchService struct {
	repo     store.Repository
	notifier notify.Notifier
	catalog  *catalog.Catalog
	opts     Options
	log      *logrus.Entry
}

func NewMatchService(repo store.Repository, notifier notify.Notifier, cat *catalog.Catalog, opts Options) *MatchService {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	return &MatchService{
		repo:     repo,
		notifier: notifier,
		catalog:  cat,
		opts:     opts,
		log:      logrus.WithField("component", "match_service"),
	}
}

// CreateMatchInput carries the fields of a new match.
type CreateMatchInput struct {
	Name        string   `json:"matchName" validate:"required,max=80"`
	Date        string   `json:"matchDate" validate:"required,ddmmyyyy"`
	Time        string   `json:"matchTime" validate:"required,hhmm"`
	City        string   `json:"city" validate:"required"`
	District    string   `json:"district" validate:"required"`
	Description string   `json:"matchDescription" validate:"required,max=500"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// CreateMatch stores a new match with the creator in slot 0 and records
// the membership on the creator's profile.
func (s *MatchService) CreateMatch(ctx context.Context, creatorID uint, in CreateMatchInput) (*models.Match, error) {
	if s.catalog != nil && !s.catalog.HasLocation(in.City, in.District) {
		return nil, ErrInvalidLocation
	}

	creator, err := s.repo.GetUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.DisplayName() == "" {
		return nil, ErrBlankName
	}

	m := &models.Match{
		ID:   uuid.NewString(),
		Name: in.Name,
		Date: in.Date,
		Time: in.Time,
		Location: models.Location{
			City:      in.City,
			District:  in.District,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
		},
		Description: in.Description,
		CreatedBy:   creator.ID(),
	}
	m.ApplyRoster(squad.NewRoster(creator.AsPlayer()))

	if err := s.repo.CreateMatch(ctx, m); err != nil {
		return nil, err
	}

	if _, err := updateUser(ctx, s.repo, s.opts.Attempts, creatorID, func(u *models.User) error {
		u.Membership = squad.ReconcileOnJoin(u.Membership, m.ID)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("record creator membership: %w", err)
	}

	utils.LogEvent("match_created", map[string]interface{}{
		"match_id":   m.ID,
		"creator_id": creatorID,
		"city":       m.City,
	})
	return m, nil
}

// GetMatch loads one match.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	return s.repo.GetMatch(ctx, matchID)
}

// JoinTeam puts the player in the first vacant slot of the team and
// consumes any pending invitation to the match.
func (s *MatchService) JoinTeam(ctx context.Context, matchID string, playerID uint, team int) (*models.Match, error) {
	m, err := s.join(ctx, matchID, playerID, team)
	utils.RosterOperations.WithLabelValues("join", outcome(err)).Inc()
	return m, err
}

func (s *MatchService) join(ctx context.Context, matchID string, playerID uint, team int) (*models.Match, error) {
	if !squad.ValidTeam(team) {
		return nil, ErrInvalidTeam
	}

	u, err := s.repo.GetUser(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if u.DisplayName() == "" {
		return nil, ErrBlankName
	}
	p := u.AsPlayer()

	var before squad.State
	m, err := updateMatch(ctx, s.repo, s.opts.Attempts, matchID, func(m *models.Match) error {
		before = m.State()
		if err := squad.EnsureActive(before); err != nil {
			return err
		}
		r, err := squad.AssignToTeam(m.Players, p, team)
		if err != nil {
			return err
		}
		m.ApplyRoster(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := updateUser(ctx, s.repo, s.opts.Attempts, playerID, func(u *models.User) error {
		u.Membership = squad.ReconcileOnJoin(u.Membership, matchID)
		return nil
	}); err != nil {
		utils.LogError("membership_update_failed", err, map[string]interface{}{
			"match_id":  matchID,
			"player_id": playerID,
			"operation": "join",
		})
		return nil, fmt.Errorf("record membership: %w", err)
	}

	s.afterRosterChange(m, before)
	return m, nil
}

// LeaveMatch vacates the player's slot. The match id leaves the joined
// set; invitations are not restored.
func (s *MatchService) LeaveMatch(ctx context.Context, matchID string, playerID uint) (*models.Match, error) {
	m, err := s.leave(ctx, matchID, playerID)
	utils.RosterOperations.WithLabelValues("leave", outcome(err)).Inc()
	return m, err
}

func (s *MatchService) leave(ctx context.Context, matchID string, playerID uint) (*models.Match, error) {
	id := utils.FormatID(playerID)

	var before squad.State
	m, err := updateMatch(ctx, s.repo, s.opts.Attempts, matchID, func(m *models.Match) error {
		before = m.State()
		if err := squad.EnsureActive(before); err != nil {
			return err
		}
		r, err := squad.Vacate(m.Players, id)
		if err != nil {
			return err
		}
		m.ApplyRoster(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := updateUser(ctx, s.repo, s.opts.Attempts, playerID, func(u *models.User) error {
		u.Membership = squad.ReconcileOnLeave(u.Membership, matchID)
		return nil
	}); err != nil && !errors.Is(err, squad.ErrProfileNotFound) {
		utils.LogError("membership_update_failed", err, map[string]interface{}{
			"match_id":  matchID,
			"player_id": playerID,
			"operation": "leave",
		})
		return nil, fmt.Errorf("record membership: %w", err)
	}

	s.afterRosterChange(m, before)
	return m, nil
}

// Invite records a pending invitation for the invitee and notifies them.
// A failed notification does not undo the invitation.
func (s *MatchService) Invite(ctx context.Context, matchID string, inviterID, inviteeID uint) error {
	err := s.invite(ctx, matchID, inviterID, inviteeID)
	utils.RosterOperations.WithLabelValues("invite", outcome(err)).Inc()
	return err
}

func (s *MatchService) invite(ctx context.Context, matchID string, inviterID, inviteeID uint) error {
	if _, err := s.repo.GetUser(ctx, inviterID); err != nil {
		return err
	}

	m, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if err := squad.EnsureActive(m.State()); err != nil {
		return err
	}

	invitee, err := updateUser(ctx, s.repo, s.opts.Attempts, inviteeID, func(u *models.User) error {
		next, err := squad.Invite(u.Membership, matchID, squad.Contains(m.Players, u.ID()))
		if err != nil {
			return err
		}
		u.Membership = next
		u.InvitedBy = utils.Pointer(inviterID)
		return nil
	})
	if err != nil {
		return err
	}

	utils.LogEvent("player_invited", map[string]interface{}{
		"match_id":   matchID,
		"inviter_id": inviterID,
		"invitee_id": inviteeID,
	})

	nerr := s.notifier.NotifyInvitation(ctx, invitee.ID(), m.Name)
	utils.NotificationsSent.WithLabelValues(notify.KindInvitation, utils.Result(nerr)).Inc()
	if nerr != nil {
		utils.LogError("invitation_notification_failed", nerr, map[string]interface{}{
			"match_id":   matchID,
			"invitee_id": inviteeID,
		})
	}
	return nil
}

// AcceptInvitation joins the team on behalf of an invited player.
func (s *MatchService) AcceptInvitation(ctx context.Context, matchID string, playerID uint, team int) (*models.Match, error) {
	u, err := s.repo.GetUser(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !u.WaitedMatch.Has(matchID) {
		return nil, squad.ErrNoInvitation
	}
	return s.JoinTeam(ctx, matchID, playerID, team)
}

// RejectInvitation drops a pending invitation; rejecting twice is fine.
func (s *MatchService) RejectInvitation(ctx context.Context, matchID string, playerID uint) error {
	_, err := updateUser(ctx, s.repo, s.opts.Attempts, playerID, func(u *models.User) error {
		u.Membership = squad.Reject(u.Membership, matchID)
		return nil
	})
	utils.RosterOperations.WithLabelValues("reject", outcome(err)).Inc()
	return err
}

// CancelMatch lets the creator call off an open match.
func (s *MatchService) CancelMatch(ctx context.Context, matchID string, playerID uint) (*models.Match, error) {
	id := utils.FormatID(playerID)
	m, err := updateMatch(ctx, s.repo, s.opts.Attempts, matchID, func(m *models.Match) error {
		if m.CreatedBy != id {
			return squad.ErrForbidden
		}
		if _, err := squad.Cancel(m.State()); err != nil {
			return err
		}
		m.Cancelled = true
		m.ApplyRoster(m.Players)
		return nil
	})
	utils.RosterOperations.WithLabelValues("cancel", outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	utils.LogEvent("match_cancelled", map[string]interface{}{
		"match_id":  matchID,
		"player_id": playerID,
	})
	return m, nil
}

// Candidate is an available player as seen from one match.
type Candidate struct {
	PlayerID uint   `json:"playerId"`
	Name     string `json:"name"`
	Position string `json:"position"`
	City     string `json:"city"`
	InMatch  bool   `json:"inMatch"`
	Invited  bool   `json:"invited"`
}

// Candidates lists players open to invites, marking those already in the
// roster or already invited.
func (s *MatchService) Candidates(ctx context.Context, matchID string) ([]Candidate, error) {
	m, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	players, err := s.repo.ListAvailablePlayers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(players))
	for i := range players {
		u := &players[i]
		out = append(out, Candidate{
			PlayerID: u.PlayerID,
			Name:     u.DisplayName(),
			Position: u.Position,
			City:     u.City,
			InMatch:  squad.Contains(m.Players, u.ID()),
			Invited:  u.WaitedMatch.Has(matchID),
		})
	}
	return out, nil
}

// RosterOf returns the ids of the players in a match. The notification hub
// uses it to address readiness notices.
func (s *MatchService) RosterOf(ctx context.Context, matchID string) ([]string, error) {
	m, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return squad.PlayerIDs(m.Players), nil
}

func (s *MatchService) afterRosterChange(m *models.Match, before squad.State) {
	switch squad.Compare(before, m.State()) {
	case squad.BecameFull:
		utils.LogEvent("match_full", map[string]interface{}{"match_id": m.ID})
		if s.opts.OnBecameFull != nil {
			s.opts.OnBecameFull(m.ID)
		}
	case squad.Reopened:
		utils.LogEvent("match_reopened", map[string]interface{}{"match_id": m.ID})
	}
}

// outcome labels domain failures separately from infrastructure errors.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, squad.ErrConflict):
		return "conflict"
	case isDomainError(err):
		return "rejected"
	default:
		return "error"
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		squad.ErrTeamFull, squad.ErrAlreadyJoined, squad.ErrAlreadyInMatch,
		squad.ErrAlreadyInvited, squad.ErrNotInMatch, squad.ErrProfileNotFound,
		squad.ErrMatchNotFound, squad.ErrMatchCancelled, squad.ErrNotCancellable,
		squad.ErrNoInvitation, squad.ErrForbidden, ErrInvalidTeam,
		ErrInvalidLocation, ErrInvalidPosition, ErrBlankName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
