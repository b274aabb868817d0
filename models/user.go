package models

import (
	"strconv"
	"strings"
	"time"

	"matchmate/squad"
)

// Player positions offered on profile creation.
const (
	PositionGoalKeeper    = "GoalKeeper"
	PositionDefance       = "Defance"
	PositionMiddlefielder = "Middlefielder"
	PositionStriker       = "Striker"
)

// User is a player profile document.
type User struct {
	// Sequential id allocated from the playerIdCounter
	PlayerID uint `gorm:"primaryKey;autoIncrement:false" json:"playerId"`

	// Profile information
	Name     string  `gorm:"not null" json:"name"`
	Surname  string  `gorm:"not null" json:"surname"`
	City     string  `gorm:"not null;index" json:"city"`
	District string  `gorm:"not null" json:"district"`
	Position string  `gorm:"not null" json:"position"`
	About    string  `json:"about"`
	Email    *string `json:"email,omitempty"`

	// Open-to-invite flag shown on the invite screen
	IsAvailable bool `gorm:"default:false;index" json:"isAvailable"`

	// Match membership and pending invitations
	squad.Membership `gorm:"embedded"`
	InvitedBy        *uint `json:"invitedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	// Bumped on every write; SaveUser only succeeds against the version it read
	Version int `gorm:"not null;default:1" json:"version"`
}

// ID returns the player id in the string form used by roster slots.
func (u *User) ID() string {
	return strconv.FormatUint(uint64(u.PlayerID), 10)
}

// DisplayName is the name written into roster slots.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// AsPlayer returns the roster slot value for this profile.
func (u *User) AsPlayer() squad.Player {
	return squad.Player{ID: u.ID(), Name: u.DisplayName()}
}
