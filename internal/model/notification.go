package model

import "time"

// Notification kinds. A chore notification references an assignment, a reward
// notification references a reward; the schema enforces exactly one of the
// two.
const (
	NotificationChore  = "chore"
	NotificationReward = "reward"
)

// ParentNotification is an entry on a parent's review feed: a chore waiting
// for approval or a reward purchase waiting to be handed over.
type ParentNotification struct {
	ID              int64     `json:"id"`
	ParentID        int64     `json:"parent_id"`
	Kind            string    `json:"kind"`
	Message         string    `json:"message"`
	AssignedChoreID *int64    `json:"assigned_chore_id,omitempty"`
	RewardID        *int64    `json:"reward_id,omitempty"`
	ChildID         *int64    `json:"child_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ChildNotification is an entry on a child's feed: a rejected chore to retry
// or a delivered reward. Acknowledging removes it.
type ChildNotification struct {
	ID              int64     `json:"id"`
	ChildID         int64     `json:"child_id"`
	Kind            string    `json:"kind"`
	Message         string    `json:"message"`
	AssignedChoreID *int64    `json:"assigned_chore_id,omitempty"`
	RewardID        *int64    `json:"reward_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
