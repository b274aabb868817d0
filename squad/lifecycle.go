package squad

// State is the lifecycle state of a match.
type State string

const (
	StateOpen      State = "open"
	StateFull      State = "full"
	StateCancelled State = "cancelled"
)

// Derive computes the state from the roster. Cancelled wins over fullness.
func Derive(r Roster, cancelled bool) State {
	if cancelled {
		return StateCancelled
	}
	if IsFull(r) {
		return StateFull
	}
	return StateOpen
}

// Status is the persisted boolean: true only when both teams are staffed.
func (s State) Status() bool {
	return s == StateFull
}

// Transition describes what changed between two derived states.
type Transition int

const (
	NoChange Transition = iota
	BecameFull
	Reopened
)

// Compare reports the automatic transition between before and after.
func Compare(before, after State) Transition {
	switch {
	case before == StateOpen && after == StateFull:
		return BecameFull
	case before == StateFull && after == StateOpen:
		return Reopened
	default:
		return NoChange
	}
}

// Cancel moves an open match to Cancelled. Full and already cancelled
// matches cannot be cancelled.
func Cancel(s State) (State, error) {
	if s != StateOpen {
		return s, ErrNotCancellable
	}
	return StateCancelled, nil
}

// EnsureActive rejects roster and invitation changes on cancelled matches.
func EnsureActive(s State) error {
	if s == StateCancelled {
		return ErrMatchCancelled
	}
	return nil
}
