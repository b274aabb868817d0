package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"matchmate/catalog"
	"matchmate/models"
	"matchmate/squad"
	"matchmate/store"
	"matchmate/utils"
)

// ProfileService manages player profiles.
type ProfileService struct {
	repo     store.Repository
	catalog  *catalog.Catalog
	attempts int
	log      *logrus.Entry
}

func NewProfileService(repo store.Repository, cat *catalog.Catalog, attempts int) *ProfileService {
	if attempts < 1 {
		attempts = 1
	}
	return &ProfileService{
		repo:     repo,
		catalog:  cat,
		attempts: attempts,
		log:      logrus.WithField("component", "profile_service"),
	}
}

// CreateProfileInput is the profile creation form.
type CreateProfileInput struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Surname     string  `json:"surname" validate:"required,max=50"`
	City        string  `json:"city" validate:"required"`
	District    string  `json:"district" validate:"required"`
	Position    string  `json:"position" validate:"required"`
	About       string  `json:"about" validate:"max=500"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	IsAvailable bool    `json:"isAvailable"`
}

// CreateProfile stores a profile under the next sequential player id.
func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	if in.Name == "" || in.Surname == "" {
		return nil, ErrBlankName
	}
	if s.catalog != nil {
		if !s.catalog.HasPosition(in.Position) {
			return nil, ErrInvalidPosition
		}
		if !s.catalog.HasLocation(in.City, in.District) {
			return nil, ErrInvalidLocation
		}
	}

	u := &models.User{
		Name:        in.Name,
		Surname:     in.Surname,
		City:        in.City,
		District:    in.District,
		Position:    in.Position,
		About:       in.About,
		Email:       in.Email,
		IsAvailable: in.IsAvailable,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	utils.LogEvent("profile_created", map[string]interface{}{
		"player_id": u.PlayerID,
		"city":      u.City,
		"position":  u.Position,
	})
	return u, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, playerID uint) (*models.User, error) {
	return s.repo.GetUser(ctx, playerID)
}

// SetAvailability sets the open-to-invite flag, or flips it when available
// is nil.
func (s *ProfileService) SetAvailability(ctx context.Context, playerID uint, available *bool) (*models.User, error) {
	return updateUser(ctx, s.repo, s.attempts, playerID, func(u *models.User) error {
		if available == nil {
			u.IsAvailable = !u.IsAvailable
		} else {
			u.IsAvailable = *available
		}
		return nil
	})
}

// AvailablePlayers lists players open to invitations.
func (s *ProfileService) AvailablePlayers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListAvailablePlayers(ctx)
}

// PlayerMatches is the "my matches" view of a profile.
type PlayerMatches struct {
	Joined  []models.Match `json:"joined"`
	Pending []models.Match `json:"pending"`
}

// MyMatches loads the matches a player is in and those they are invited to.
func (s *ProfileService) MyMatches(ctx context.Context, playerID uint) (*PlayerMatches, error) {
	u, err := s.repo.GetUser(ctx, playerID)
	if err != nil {
		return nil, err
	}

	joined, err := s.repo.ListMatchesByID(ctx, u.JoinedMatch)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.ListMatchesByID(ctx, squad.Pending(u.Membership))
	if err != nil {
		return nil, err
	}
	return &PlayerMatches{Joined: joined, Pending: pending}, nil
}
