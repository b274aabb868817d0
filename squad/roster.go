// Package squad holds the match roster, the invitation ledger and the
// match lifecycle. Every operation is a pure function over values: it
// returns an updated copy or a typed error and never touches storage.
package squad

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const (
	// TeamSize is the number of slots owned by each team.
	TeamSize = 7
	// RosterSize is the fixed length of every roster.
	RosterSize = 2 * TeamSize
)

// Player is a roster slot occupant. The zero value is the vacant placeholder.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Vacant reports whether the slot holds the placeholder. Only the name
// decides vacancy.
func (p Player) Vacant() bool {
	return p.Name == ""
}

// Roster is the 14-slot array of a match. Slots 0-6 belong to team 1 and
// slots 7-13 to team 2; a slot's position encodes team and display order.
type Roster []Player

// EmptyRoster returns a roster with all 14 slots vacant.
func EmptyRoster() Roster {
	return make(Roster, RosterSize)
}

// NewRoster returns a roster with the creator in slot 0.
func NewRoster(creator Player) Roster {
	r := EmptyRoster()
	r[0] = creator
	return r
}

func (r Roster) mustBeValid() {
	if len(r) != RosterSize {
		panic(fmt.Sprintf("squad: roster has %d slots, want %d", len(r), RosterSize))
	}
}

// teamRange returns the half-open slot range of a team.
func teamRange(team int) (int, int) {
	switch team {
	case 1:
		return 0, TeamSize
	case 2:
		return TeamSize, RosterSize
	default:
		panic(fmt.Sprintf("squad: invalid team number %d", team))
	}
}

// ValidTeam reports whether team names one of the two teams.
func ValidTeam(team int) bool {
	return team == 1 || team == 2
}

func (r Roster) clone() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

// AssignToTeam places the player in the first vacant slot of the team,
// scanning in ascending index order. The input roster is never modified.
func AssignToTeam(r Roster, p Player, team int) (Roster, error) {
	r.mustBeValid()
	start, end := teamRange(team)
	if p.ID == "" || p.Name == "" {
		panic("squad: cannot assign a player without id and name")
	}

	if Contains(r, p.ID) {
		return r, ErrAlreadyJoined
	}

	for i := start; i < end; i++ {
		if r[i].Vacant() {
			out := r.clone()
			out[i] = p
			return out, nil
		}
	}
	return r, ErrTeamFull
}

// Vacate replaces the slot held by playerID with the placeholder.
func Vacate(r Roster, playerID string) (Roster, error) {
	r.mustBeValid()
	idx := IndexOf(r, playerID)
	if idx < 0 {
		return r, ErrNotInMatch
	}
	out := r.clone()
	out[idx] = Player{}
	return out, nil
}

// IndexOf returns the slot index of playerID, or -1.
func IndexOf(r Roster, playerID string) int {
	if playerID == "" {
		return -1
	}
	for i, p := range r {
		if !p.Vacant() && p.ID == playerID {
			return i
		}
	}
	return -1
}

// Contains reports whether playerID occupies any slot in either team.
func Contains(r Roster, playerID string) bool {
	return IndexOf(r, playerID) >= 0
}

// PlayerCount counts the occupied slots.
func PlayerCount(r Roster) int {
	n := 0
	for _, p := range r {
		if !p.Vacant() {
			n++
		}
	}
	return n
}

// IsFull reports whether both teams have every slot occupied.
func IsFull(r Roster) bool {
	r.mustBeValid()
	return Vacancies(r, 1) == 0 && Vacancies(r, 2) == 0
}

// Vacancies counts the vacant slots of a team.
func Vacancies(r Roster, team int) int {
	r.mustBeValid()
	start, end := teamRange(team)
	n := 0
	for i := start; i < end; i++ {
		if r[i].Vacant() {
			n++
		}
	}
	return n
}

// Team returns a copy of the team's seven slots, placeholders included.
func Team(r Roster, team int) []Player {
	r.mustBeValid()
	start, end := teamRange(team)
	out := make([]Player, TeamSize)
	copy(out, r[start:end])
	return out
}

// PlayerIDs lists the ids of occupied slots in slot order.
func PlayerIDs(r Roster) []string {
	ids := make([]string, 0, len(r))
	for _, p := range r {
		if !p.Vacant() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Value stores the roster as a JSON array. Vacant slots are written as
// {"id":"","name":""} so slot positions survive the round trip.
func (r Roster) Value() (driver.Value, error) {
	if r == nil {
		r = EmptyRoster()
	}
	b, err := json.Marshal([]Player(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan loads a roster column. A short or missing array is padded with
// placeholders; documents written by older clients used null for vacant slots.
func (r *Roster) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*r = EmptyRoster()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("squad: cannot scan %T into Roster", src)
	}

	var slots []*Player
	if err := json.Unmarshal(raw, &slots); err != nil {
		return fmt.Errorf("squad: decode roster: %w", err)
	}
	if len(slots) > RosterSize {
		return fmt.Errorf("squad: roster has %d slots, want %d", len(slots), RosterSize)
	}

	out := EmptyRoster()
	for i, p := range slots {
		if p != nil {
			out[i] = *p
		}
	}
	*r = out
	return nil
}
