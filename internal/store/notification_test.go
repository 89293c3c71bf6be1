package store

import (
	"testing"

	"github.com/chornado/internal/chore"
)

func TestAcknowledgeMissingIsNoOp(t *testing.T) {
	db := newTestDB(t)
	ns := NewNotificationStore(db)

	if err := ns.AcknowledgeChild(999); err != nil {
		t.Errorf("acknowledge missing: %v", err)
	}
}

func TestAcknowledgeRejectionReactivatesChore(t *testing.T) {
	db := newTestDB(t)
	ns := NewNotificationStore(db)
	p := seedParent(t, db)
	child := seedChild(t, db, p.ID)
	c := seedChore(t, db, p.ID, "Dishes", 10)

	as := NewAssignmentStore(db)
	a, err := as.Assign(c.ID, child.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := as.Complete(a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := as.Reject(a.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	notifications, _ := ns.ListForChild(child.ID)
	if len(notifications) != 1 {
		t.Fatalf("child notifications = %d, want 1", len(notifications))
	}

	if err := ns.AcknowledgeChild(notifications[0].ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	// The notice is gone and the chore is back on the active list.
	remaining, _ := ns.ListForChild(child.ID)
	if len(remaining) != 0 {
		t.Errorf("child notifications = %d, want 0", len(remaining))
	}
	got, _ := as.GetByID(a.ID)
	if got.State != chore.StateActive {
		t.Errorf("state = %q, want %q", got.State, chore.StateActive)
	}
}

func TestAcknowledgeRewardNoticeJustDeletes(t *testing.T) {
	db := newTestDB(t)
	ns := NewNotificationStore(db)
	rs := NewRewardStore(db)
	cs := NewChildStore(db)
	p := seedParent(t, db)
	child := seedChild(t, db, p.ID)
	r := seedReward(t, db, p.ID, "Ice cream", 5)

	if _, err := cs.AdjustPoints(child.ID, 10); err != nil {
		t.Fatalf("adjust points: %v", err)
	}
	if err := rs.Purchase(child.ID, r.ID); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	parentNotifs, _ := ns.ListForParent(p.ID)
	if err := rs.Deliver(parentNotifs[0].ID); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	childNotifs, _ := ns.ListForChild(child.ID)
	if len(childNotifs) != 1 {
		t.Fatalf("child notifications = %d, want 1", len(childNotifs))
	}
	if err := ns.AcknowledgeChild(childNotifs[0].ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	remaining, _ := ns.ListForChild(child.ID)
	if len(remaining) != 0 {
		t.Errorf("child notifications = %d, want 0", len(remaining))
	}
}

func TestListForParentScopedToParent(t *testing.T) {
	db := newTestDB(t)
	ns := NewNotificationStore(db)
	p := seedParent(t, db)
	child := seedChild(t, db, p.ID)
	c := seedChore(t, db, p.ID, "Dishes", 10)

	other, err := NewParentStore(db).Create("other@example.com", "Olu", "Ade", "hash")
	if err != nil {
		t.Fatalf("create second parent: %v", err)
	}

	as := NewAssignmentStore(db)
	a, _ := as.Assign(c.ID, child.ID)
	if err := as.Complete(a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	mine, _ := ns.ListForParent(p.ID)
	if len(mine) != 1 {
		t.Errorf("notifications for owner = %d, want 1", len(mine))
	}
	theirs, _ := ns.ListForParent(other.ID)
	if len(theirs) != 0 {
		t.Errorf("notifications for other parent = %d, want 0", len(theirs))
	}
}
