package services

import (
	"context"
	"strings"
	"time"

	"matchmate/models"
	"matchmate/store"
)

// SearchQuery is the match search form. Empty fields match everything.
type SearchQuery struct {
	Name      string `query:"name"`
	StartTime string `query:"startTime"`
	EndTime   string `query:"endTime"`
	City      string `query:"city"`
	District  string `query:"district"`
	OpenOnly  bool   `query:"openOnly"`
	Limit     int    `query:"limit" validate:"gte=0,lte=500"`
}

// SearchMatches lists matches by location in the database, then narrows
// them by name substring and kick-off time. Limit counts matches that pass
// every filter.
func (s *MatchService) SearchMatches(ctx context.Context, q SearchQuery) ([]models.Match, error) {
	matches, err := s.repo.ListMatches(ctx, store.MatchQuery{
		City:     q.City,
		District: q.District,
		OpenOnly: q.OpenOnly,
	})
	if err != nil {
		return nil, err
	}

	out := matches[:0]
	for _, m := range matches {
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		if NameMatches(m.Name, q.Name) && TimeInRange(m.Time, q.StartTime, q.EndTime) {
			out = append(out, m)
		}
	}
	return out, nil
}

// NameMatches reports whether filter is a case-insensitive substring of name.
func NameMatches(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

// TimeInRange reports whether the HH:MM kick-off lies within [start, end].
// The range only applies when both bounds and the match time parse.
func TimeInRange(matchTime, start, end string) bool {
	t, ok := clockMinutes(matchTime)
	if !ok {
		return true
	}
	lo, okLo := clockMinutes(start)
	hi, okHi := clockMinutes(end)
	if !okLo || !okHi {
		return true
	}
	return t >= lo && t <= hi
}

func clockMinutes(s string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
