package squad

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(n int) Player {
	return Player{ID: fmt.Sprint(n), Name: fmt.Sprintf("Player %d", n)}
}

// fill occupies the given slot indexes with distinct players.
func fill(r Roster, slots ...int) Roster {
	out := r.clone()
	for _, i := range slots {
		out[i] = player(100 + i)
	}
	return out
}

func span(from, to int) []int {
	var out []int
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func TestAssignToTeamEmptyRoster(t *testing.T) {
	alice := Player{ID: "5", Name: "Alice"}

	r, err := AssignToTeam(EmptyRoster(), alice, 1)
	require.NoError(t, err)

	assert.Equal(t, alice, r[0])
	assert.Equal(t, 1, PlayerCount(r))
	assert.False(t, IsFull(r))
	assert.Len(t, r, RosterSize)
}

func TestAssignToTeamPicksFirstVacantSlot(t *testing.T) {
	tests := []struct {
		name     string
		occupied []int
		team     int
		wantSlot int
	}{
		{name: "team 1 empty", team: 1, wantSlot: 0},
		{name: "team 2 empty", team: 2, wantSlot: 7},
		{name: "team 1 gap", occupied: []int{0, 1, 3}, team: 1, wantSlot: 2},
		{name: "team 2 gap after team 1 full", occupied: append(span(0, 7), 7, 9), team: 2, wantSlot: 8},
		{name: "team 1 last slot", occupied: span(0, 6), team: 1, wantSlot: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := fill(EmptyRoster(), tt.occupied...)
			p := Player{ID: "new", Name: "Newcomer"}

			after, err := AssignToTeam(before, p, tt.team)
			require.NoError(t, err)

			assert.Equal(t, p, after[tt.wantSlot])
			for i := range before {
				if i != tt.wantSlot {
					assert.Equal(t, before[i], after[i], "slot %d changed", i)
				}
			}
		})
	}
}

func TestAssignToTeamFull(t *testing.T) {
	before := fill(EmptyRoster(), span(0, 7)...)
	snapshot := before.clone()

	after, err := AssignToTeam(before, Player{ID: "x", Name: "X"}, 1)
	assert.ErrorIs(t, err, ErrTeamFull)
	assert.Equal(t, snapshot, after)
	assert.Equal(t, snapshot, before)
}

func TestAssignToTeamAlreadyJoinedSpansBothTeams(t *testing.T) {
	p := Player{ID: "42", Name: "Sam"}
	r, err := AssignToTeam(EmptyRoster(), p, 2)
	require.NoError(t, err)

	_, err = AssignToTeam(r, p, 1)
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	_, err = AssignToTeam(r, p, 2)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestAssignToTeamAlreadyJoinedBeatsTeamFull(t *testing.T) {
	r := fill(EmptyRoster(), span(0, 7)...)
	_, err := AssignToTeam(r, r[3], 1)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestAssignToTeamDoesNotMutateInput(t *testing.T) {
	before := EmptyRoster()
	_, err := AssignToTeam(before, player(1), 1)
	require.NoError(t, err)
	assert.True(t, before[0].Vacant())
}

func TestInvalidInputsPanic(t *testing.T) {
	assert.Panics(t, func() { _, _ = AssignToTeam(EmptyRoster(), player(1), 3) })
	assert.Panics(t, func() { _, _ = AssignToTeam(EmptyRoster(), player(1), 0) })
	assert.Panics(t, func() { _, _ = AssignToTeam(make(Roster, 13), player(1), 1) })
	assert.Panics(t, func() { _, _ = AssignToTeam(EmptyRoster(), Player{ID: "1"}, 1) })
	assert.Panics(t, func() { IsFull(make(Roster, 15)) })
	assert.Panics(t, func() { _, _ = Vacate(nil, "1") })
}

func TestVacate(t *testing.T) {
	r := fill(EmptyRoster(), 0, 8)

	after, err := Vacate(r, r[8].ID)
	require.NoError(t, err)
	assert.True(t, after[8].Vacant())
	assert.Equal(t, Player{}, after[8])
	assert.Equal(t, 1, PlayerCount(after))

	_, err = Vacate(r, "missing")
	assert.ErrorIs(t, err, ErrNotInMatch)

	_, err = Vacate(r, "")
	assert.ErrorIs(t, err, ErrNotInMatch)
}

func TestRosterProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		r := EmptyRoster()
		for i := range r {
			if rng.Intn(2) == 0 {
				r[i] = player(i)
			}
		}
		team := 1 + rng.Intn(2)
		p := Player{ID: fmt.Sprintf("p-%d", round), Name: "Probe"}

		after, err := AssignToTeam(r, p, team)
		if err != nil {
			require.ErrorIs(t, err, ErrTeamFull)
			assert.Equal(t, r, after)
			continue
		}

		assert.Len(t, after, RosterSize)
		assert.Equal(t, PlayerCount(r)+1, PlayerCount(after))
		for i := range r {
			if !r[i].Vacant() {
				assert.Equal(t, r[i], after[i], "occupied slot %d overwritten", i)
			}
		}

		restored, err := Vacate(after, p.ID)
		require.NoError(t, err)
		assert.Equal(t, r, restored)

		assert.Equal(t, PlayerCount(after) == RosterSize, IsFull(after))
	}
}

func TestLastSlotFillsMatch(t *testing.T) {
	r := fill(EmptyRoster(), append(span(0, 7), 7, 8, 9, 10, 11, 12)...)
	require.Equal(t, 13, PlayerCount(r))
	before := Derive(r, false)
	require.Equal(t, StateOpen, before)

	after, err := AssignToTeam(r, Player{ID: "last", Name: "Last"}, 2)
	require.NoError(t, err)

	assert.True(t, IsFull(after))
	assert.Equal(t, "last", after[13].ID)
	assert.Equal(t, BecameFull, Compare(before, Derive(after, false)))
}

func TestTeamAndVacancies(t *testing.T) {
	r := fill(EmptyRoster(), 0, 1, 7)

	assert.Equal(t, 5, Vacancies(r, 1))
	assert.Equal(t, 6, Vacancies(r, 2))

	team2 := Team(r, 2)
	assert.Len(t, team2, TeamSize)
	assert.Equal(t, r[7], team2[0])
	assert.True(t, team2[1].Vacant())

	assert.Equal(t, []string{r[0].ID, r[1].ID, r[7].ID}, PlayerIDs(r))
}

func TestRosterColumnKeepsPlaceholders(t *testing.T) {
	r := NewRoster(Player{ID: "1000", Name: "Creator"})

	v, err := r.Value()
	require.NoError(t, err)
	assert.Contains(t, v, `{"id":"","name":""}`)

	var loaded Roster
	require.NoError(t, loaded.Scan(v))
	assert.Equal(t, r, loaded)
}

func TestRosterScanPadsLegacyDocuments(t *testing.T) {
	var r Roster
	require.NoError(t, r.Scan([]byte(`[{"id":"1","name":"A"},null]`)))
	assert.Len(t, r, RosterSize)
	assert.Equal(t, "A", r[0].Name)
	assert.True(t, r[1].Vacant())

	err := r.Scan(`[` + repeat(`{"id":"","name":""}`, 15) + `]`)
	assert.Error(t, err)
}

func repeat(s string, n int) string {
	out := s
	for i := 1; i < n; i++ {
		out += "," + s
	}
	return out
}
