package squad

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDSet is an ordered set of match ids stored as a JSON array.
type IDSet []string

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

func (s IDSet) with(id string) IDSet {
	if s.Has(id) {
		return s.clone()
	}
	return append(s.clone(), id)
}

func (s IDSet) without(id string) IDSet {
	out := make(IDSet, 0, len(s))
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s IDSet) clone() IDSet {
	out := make(IDSet, len(s))
	copy(out, s)
	return out
}

// Value writes the set as a JSON array; an empty set is [] rather than null.
func (s IDSet) Value() (driver.Value, error) {
	if s == nil {
		s = IDSet{}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *IDSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = IDSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("squad: cannot scan %T into IDSet", src)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("squad: decode id set: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	*s = IDSet(ids)
	return nil
}

// Membership is a player's view of the matches they occupy a slot in and
// the matches they have a pending invitation to. The two sets are kept
// disjoint per match id by the ledger operations below.
type Membership struct {
	JoinedMatch IDSet `json:"joinedMatch" gorm:"column:joined_match;type:text"`
	WaitedMatch IDSet `json:"waitedMatch" gorm:"column:waited_match;type:text"`
}

// Invite records a pending invitation. inRoster is the caller's answer to
// whether the player already holds a slot in the match roster.
func Invite(m Membership, matchID string, inRoster bool) (Membership, error) {
	if inRoster || m.JoinedMatch.Has(matchID) {
		return m, ErrAlreadyInMatch
	}
	if m.WaitedMatch.Has(matchID) {
		return m, ErrAlreadyInvited
	}
	return Membership{
		JoinedMatch: m.JoinedMatch.clone(),
		WaitedMatch: m.WaitedMatch.with(matchID),
	}, nil
}

// Reject drops a pending invitation. Rejecting something that is not
// pending is a no-op.
func Reject(m Membership, matchID string) Membership {
	return Membership{
		JoinedMatch: m.JoinedMatch.clone(),
		WaitedMatch: m.WaitedMatch.without(matchID),
	}
}

// ReconcileOnJoin marks the match as joined and consumes any invitation
// to it, whether the player joined directly or accepted.
func ReconcileOnJoin(m Membership, matchID string) Membership {
	return Membership{
		JoinedMatch: m.JoinedMatch.with(matchID),
		WaitedMatch: m.WaitedMatch.without(matchID),
	}
}

// ReconcileOnLeave removes the match from the joined set only.
func ReconcileOnLeave(m Membership, matchID string) Membership {
	return Membership{
		JoinedMatch: m.JoinedMatch.without(matchID),
		WaitedMatch: m.WaitedMatch.clone(),
	}
}

// Pending lists invitations to matches the player has not joined.
func Pending(m Membership) []string {
	out := make([]string, 0, len(m.WaitedMatch))
	for _, id := range m.WaitedMatch {
		if !m.JoinedMatch.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
