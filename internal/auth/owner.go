package auth

import (
	"github.com/chornado/internal/model"
)

// Ownership predicates walk the owning foreign key of each entity. An
// assignment has no parent_id of its own; it is owned through its child.
// Assign guarantees the chore's parent matches, so either path agrees.

func OwnsChild(parentID int64, child *model.Child) bool {
	return child != nil && child.ParentID == parentID
}

func OwnsChore(parentID int64, chore *model.Chore) bool {
	return chore != nil && chore.ParentID == parentID
}

func OwnsReward(parentID int64, reward *model.Reward) bool {
	return reward != nil && reward.ParentID == parentID
}

// OwnsAssignment checks an assignment through the child it is assigned to.
func OwnsAssignment(parentID int64, assignment *model.AssignedChore, child *model.Child) bool {
	if assignment == nil || child == nil {
		return false
	}
	return assignment.ChildID == child.ID && child.ParentID == parentID
}

// IsAssignee reports whether the acting child holds the assignment.
func IsAssignee(childID int64, assignment *model.AssignedChore) bool {
	return assignment != nil && assignment.ChildID == childID
}

// OwnsParentNotification reports whether a parent notification is addressed
// to the acting parent.
func OwnsParentNotification(parentID int64, n *model.ParentNotification) bool {
	return n != nil && n.ParentID == parentID
}

// OwnsChildNotification reports whether a child notification is addressed to
// the acting child.
func OwnsChildNotification(childID int64, n *model.ChildNotification) bool {
	return n != nil && n.ChildID == childID
}
