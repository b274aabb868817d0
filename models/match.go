package models

import (
	"time"

	"matchmate/squad"
)

// Location is where a match is played. Coordinates are optional.
type Location struct {
	City      string   `gorm:"not null;index" json:"city"`
	District  string   `gorm:"not null;index" json:"district"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Match is a match document with its 14-slot roster.
type Match struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"not null" json:"matchName"`
	Date        string `gorm:"not null" json:"matchDate"` // DD/MM/YYYY
	Time        string `gorm:"not null" json:"matchTime"` // HH:MM
	Location    `gorm:"embedded"`
	Description string `json:"matchDescription"`

	// Roster is always 14 slots; vacant slots are {"id":"","name":""}
	Players     squad.Roster `gorm:"type:text;not null" json:"players"`
	PlayerCount int          `gorm:"not null;default:0" json:"playerCount"`
	Status      bool         `gorm:"not null;default:false;index" json:"status"`
	Cancelled   bool         `gorm:"not null;default:false" json:"cancelled"`

	CreatedBy string    `gorm:"not null" json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Version       int  `gorm:"not null;default:1" json:"version"`
	ReadyNotified bool `gorm:"not null;default:false" json:"-"`
}

// State derives the lifecycle state from the roster.
func (m *Match) State() squad.State {
	return squad.Derive(m.Players, m.Cancelled)
}

// ApplyRoster replaces the roster and recomputes the derived fields.
func (m *Match) ApplyRoster(r squad.Roster) {
	m.Players = r
	m.PlayerCount = squad.PlayerCount(r)
	m.Status = m.State().Status()
	if !m.Status {
		m.ReadyNotified = false
	}
}
