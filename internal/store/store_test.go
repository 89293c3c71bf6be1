package store

import (
	"database/sql"
	"testing"

	"github.com/chornado/internal/database"
	"github.com/chornado/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedParent(t *testing.T, db *sql.DB) *model.Parent {
	t.Helper()
	p, err := NewParentStore(db).Create("parent@example.com", "Pat", "Smith", "hash")
	if err != nil {
		t.Fatalf("seed parent: %v", err)
	}
	return p
}

func seedChild(t *testing.T, db *sql.DB, parentID int64) *model.Child {
	t.Helper()
	c, err := NewChildStore(db).Create("kiddo1", "Kim", "Smith", "hash", parentID)
	if err != nil {
		t.Fatalf("seed child: %v", err)
	}
	return c
}

func seedChore(t *testing.T, db *sql.DB, parentID int64, name string, value int) *model.Chore {
	t.Helper()
	c, err := NewChoreStore(db).Create(name, value, parentID)
	if err != nil {
		t.Fatalf("seed chore: %v", err)
	}
	return c
}

func seedReward(t *testing.T, db *sql.DB, parentID int64, name string, cost int) *model.Reward {
	t.Helper()
	r, err := NewRewardStore(db).Create(name, cost, parentID)
	if err != nil {
		t.Fatalf("seed reward: %v", err)
	}
	return r
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
