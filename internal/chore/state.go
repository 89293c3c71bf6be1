package chore

// Assignment lifecycle states. An assignment starts Active, a child marks it
// Complete, and a parent either approves (row deleted) or rejects it.
// Rejected re-enters the workflow: the child acknowledging the rejection
// resets the assignment to Active.
const (
	StateActive   = "Active"
	StateComplete = "Complete"
	StateRejected = "Rejected"
)

// ValidState reports whether s is a known assignment state.
func ValidState(s string) bool {
	switch s {
	case StateActive, StateComplete, StateRejected:
		return true
	}
	return false
}

// CanComplete reports whether a child may mark an assignment done.
// Only Active assignments can be completed; a Rejected one must be
// acknowledged (reset to Active) first.
func CanComplete(state string) bool {
	return state == StateActive
}

// CanReview reports whether a parent may approve or reject an assignment.
func CanReview(state string) bool {
	return state == StateComplete
}

// CanReactivate reports whether an assignment may be sent back into the
// Active state. This is the only backwards transition in the lifecycle.
func CanReactivate(state string) bool {
	return state == StateRejected
}
