package model

import "time"

// Chore is a reusable task template with a point value, owned by one parent.
type Chore struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Value     int       `json:"value"`
	ParentID  int64     `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignedChore is one instance of a chore given to one child. State is one
// of chore.StateActive, chore.StateComplete, chore.StateRejected.
type AssignedChore struct {
	ID        int64     `json:"id"`
	State     string    `json:"state"`
	ChoreID   int64     `json:"chore_id"`
	ChildID   int64     `json:"child_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignedChoreDetail joins an assignment with its chore's name and value
// for list views.
type AssignedChoreDetail struct {
	AssignedChore
	ChoreName  string `json:"chore_name"`
	ChoreValue int    `json:"chore_value"`
}
