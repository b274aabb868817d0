package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// PlayerIDCounter names the counter row that hands out player ids.
	PlayerIDCounter = "playerIdCounter"
	// FirstPlayerID is the id given to the first profile.
	FirstPlayerID = 1000
)

// Counter is a named monotonically increasing sequence.
type Counter struct {
	Name      string `gorm:"primaryKey;size:64" json:"name"`
	CurrentID uint   `gorm:"not null" json:"currentId"`
}

// All lists every model that is migrated.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Match{},
		&Counter{},
	}
}

// CreateDefaultCounters seeds the counters used by the service.
func CreateDefaultCounters(db *gorm.DB) error {
	defaults := []Counter{
		{Name: PlayerIDCounter, CurrentID: FirstPlayerID},
	}
	for _, c := range defaults {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
			return err
		}
	}
	return nil
}
