package auth

import (
	"testing"

	"github.com/chornado/internal/model"
)

func TestOwnsChild(t *testing.T) {
	child := &model.Child{ID: 10, ParentID: 1}

	if !OwnsChild(1, child) {
		t.Error("expected parent 1 to own their child")
	}
	if OwnsChild(2, child) {
		t.Error("parent 2 should not own parent 1's child")
	}
	if OwnsChild(1, nil) {
		t.Error("nil child should not be owned")
	}
}

func TestOwnsChore(t *testing.T) {
	c := &model.Chore{ID: 5, ParentID: 3}

	if !OwnsChore(3, c) {
		t.Error("expected parent 3 to own their chore")
	}
	if OwnsChore(4, c) {
		t.Error("parent 4 should not own parent 3's chore")
	}
	if OwnsChore(3, nil) {
		t.Error("nil chore should not be owned")
	}
}

func TestOwnsReward(t *testing.T) {
	r := &model.Reward{ID: 5, ParentID: 3}

	if !OwnsReward(3, r) {
		t.Error("expected parent 3 to own their reward")
	}
	if OwnsReward(4, r) {
		t.Error("parent 4 should not own parent 3's reward")
	}
}

func TestOwnsAssignment(t *testing.T) {
	child := &model.Child{ID: 10, ParentID: 1}
	a := &model.AssignedChore{ID: 20, ChildID: 10}

	if !OwnsAssignment(1, a, child) {
		t.Error("expected parent 1 to own the assignment via their child")
	}
	if OwnsAssignment(2, a, child) {
		t.Error("parent 2 should not own the assignment")
	}

	otherChild := &model.Child{ID: 11, ParentID: 1}
	if OwnsAssignment(1, a, otherChild) {
		t.Error("assignment checked against the wrong child should fail")
	}
	if OwnsAssignment(1, nil, child) || OwnsAssignment(1, a, nil) {
		t.Error("nil arguments should not be owned")
	}
}

func TestIsAssignee(t *testing.T) {
	a := &model.AssignedChore{ID: 20, ChildID: 10}

	if !IsAssignee(10, a) {
		t.Error("expected child 10 to hold the assignment")
	}
	if IsAssignee(11, a) {
		t.Error("child 11 should not hold the assignment")
	}
}

func TestOwnsNotifications(t *testing.T) {
	pn := &model.ParentNotification{ID: 1, ParentID: 2}
	if !OwnsParentNotification(2, pn) {
		t.Error("expected parent 2 to own their notification")
	}
	if OwnsParentNotification(3, pn) {
		t.Error("parent 3 should not own parent 2's notification")
	}

	cn := &model.ChildNotification{ID: 1, ChildID: 4}
	if !OwnsChildNotification(4, cn) {
		t.Error("expected child 4 to own their notification")
	}
	if OwnsChildNotification(5, cn) {
		t.Error("child 5 should not own child 4's notification")
	}
}
