package squad

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvite(t *testing.T) {
	tests := []struct {
		name     string
		in       Membership
		inRoster bool
		wantErr  error
		wantWait IDSet
	}{
		{name: "fresh invite", in: Membership{}, wantWait: IDSet{"m1"}},
		{name: "appends", in: Membership{WaitedMatch: IDSet{"m0"}}, wantWait: IDSet{"m0", "m1"}},
		{name: "already in roster", in: Membership{}, inRoster: true, wantErr: ErrAlreadyInMatch},
		{name: "already joined", in: Membership{JoinedMatch: IDSet{"m1"}}, wantErr: ErrAlreadyInMatch},
		{name: "already invited", in: Membership{WaitedMatch: IDSet{"m1"}}, wantErr: ErrAlreadyInvited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Invite(tt.in, "m1", tt.inRoster)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.in, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWait, got.WaitedMatch)
		})
	}
}

func TestRejectIsIdempotent(t *testing.T) {
	m := Membership{WaitedMatch: IDSet{"m1", "m2"}}

	once := Reject(m, "m1")
	assert.Equal(t, IDSet{"m2"}, once.WaitedMatch)

	twice := Reject(once, "m1")
	assert.Equal(t, once, twice)

	assert.Equal(t, IDSet{"m1", "m2"}, m.WaitedMatch, "input must not change")
}

func TestReconcileOnJoinConsumesInvitation(t *testing.T) {
	got := ReconcileOnJoin(Membership{WaitedMatch: IDSet{"m1"}}, "m1")
	assert.Equal(t, IDSet{"m1"}, got.JoinedMatch)
	assert.Empty(t, got.WaitedMatch)

	again := ReconcileOnJoin(got, "m1")
	assert.Equal(t, IDSet{"m1"}, again.JoinedMatch)
}

func TestReconcileOnLeaveKeepsInvitationsDead(t *testing.T) {
	m := ReconcileOnJoin(Membership{WaitedMatch: IDSet{"m1", "m2"}}, "m1")

	got := ReconcileOnLeave(m, "m1")
	assert.Empty(t, got.JoinedMatch)
	assert.Equal(t, IDSet{"m2"}, got.WaitedMatch)
}

func TestPendingSkipsJoined(t *testing.T) {
	m := Membership{JoinedMatch: IDSet{"a"}, WaitedMatch: IDSet{"a", "b"}}
	assert.Equal(t, []string{"b"}, Pending(m))
}

func TestLedgerSetsStayDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	matches := []string{"m1", "m2", "m3"}
	m := Membership{}

	for step := 0; step < 1000; step++ {
		id := matches[rng.Intn(len(matches))]
		switch rng.Intn(4) {
		case 0:
			if next, err := Invite(m, id, false); err == nil {
				m = next
			}
		case 1:
			m = Reject(m, id)
		case 2:
			m = ReconcileOnJoin(m, id)
		case 3:
			m = ReconcileOnLeave(m, id)
		}

		for _, w := range m.WaitedMatch {
			require.False(t, m.JoinedMatch.Has(w), "step %d: %s both joined and waited", step, w)
		}
	}
}

func TestIDSetColumn(t *testing.T) {
	v, err := IDSet(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var s IDSet
	require.NoError(t, s.Scan([]byte("null")))
	assert.NotNil(t, s)
	assert.Empty(t, s)
}
