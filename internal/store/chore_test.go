package store

import "testing"

func TestChoreCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	chs := NewChoreStore(db)
	p := seedParent(t, db)

	c, err := chs.Create("Vacuum", 15, p.ID)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if c.Value != 15 {
		t.Errorf("value = %d, want 15", c.Value)
	}

	got, err := chs.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got == nil || got.Name != "Vacuum" {
		t.Fatalf("got %+v, want Vacuum", got)
	}

	missing, err := chs.GetByID(999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown chore")
	}
}

func TestChoreListByParentOrder(t *testing.T) {
	db := newTestDB(t)
	chs := NewChoreStore(db)
	p := seedParent(t, db)
	seedChore(t, db, p.ID, "Windows", 20)
	seedChore(t, db, p.ID, "Dishes", 10)

	chores, err := chs.ListByParent(p.ID)
	if err != nil {
		t.Fatalf("list chores: %v", err)
	}
	if len(chores) != 2 {
		t.Fatalf("len = %d, want 2", len(chores))
	}
	if chores[0].Name != "Dishes" || chores[1].Name != "Windows" {
		t.Errorf("order = %q, %q; want Dishes, Windows", chores[0].Name, chores[1].Name)
	}
}

func TestChoreUpdate(t *testing.T) {
	db := newTestDB(t)
	chs := NewChoreStore(db)
	p := seedParent(t, db)
	c := seedChore(t, db, p.ID, "Dishes", 10)

	got, err := chs.Update(c.ID, "Dishes and pans", 12)
	if err != nil {
		t.Fatalf("update chore: %v", err)
	}
	if got.Name != "Dishes and pans" || got.Value != 12 {
		t.Errorf("got %q/%d, want Dishes and pans/12", got.Name, got.Value)
	}
}

func TestChoreDeleteCascadesAssignments(t *testing.T) {
	db := newTestDB(t)
	chs := NewChoreStore(db)
	p := seedParent(t, db)
	child := seedChild(t, db, p.ID)
	c := seedChore(t, db, p.ID, "Dishes", 10)

	as := NewAssignmentStore(db)
	assignment, err := as.Assign(c.ID, child.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := as.Complete(assignment.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := chs.Delete(c.ID); err != nil {
		t.Fatalf("delete chore: %v", err)
	}

	if n := countRows(t, db, "assigned_chores"); n != 0 {
		t.Errorf("assigned_chores = %d, want 0", n)
	}
	if n := countRows(t, db, "parent_notifications"); n != 0 {
		t.Errorf("parent_notifications = %d, want 0", n)
	}
	if got, _ := NewChildStore(db).GetByID(child.ID); got == nil {
		t.Error("child should survive")
	}
}
