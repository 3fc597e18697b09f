package appointment

// Forward transitions. Cancellation and no-show are handled separately: they
// are reachable from every non-terminal state.
var nextStatus = map[Status]Status{
	StatusPending:    StatusConfirmed,
	StatusConfirmed:  StatusWaiting,
	StatusWaiting:    StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusWaiting, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransition reports whether from may move to to. The happy path is the
// chain pending → confirmed → waiting → in-progress; completed, cancelled
// and no-show are reachable from any non-terminal state, so a visit can be
// closed out no matter how far along the chain it got.
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if to.Terminal() {
		return true
	}
	return nextStatus[from] == to
}
