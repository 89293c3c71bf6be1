package store

import (
	"database/sql"
	"fmt"

	"github.com/chornado/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	err := scanner.Scan(&c.ID, &c.Name, &c.Value, &c.ParentID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const choreCols = `id, name, value, parent_id, created_at`

func (s *ChoreStore) Create(name string, value int, parentID int64) (*model.Chore, error) {
	result, err := s.db.Exec(
		`INSERT INTO chores (name, value, parent_id) VALUES (?, ?, ?)`,
		name, value, parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) ListByParent(parentID int64) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE parent_id = ? ORDER BY name ASC`,
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) Update(id int64, name string, value int) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET name = ?, value = ? WHERE id = ?`,
		name, value, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a chore template together with its open assignments and any
// notifications referencing those assignments, in one transaction.
func (s *ChoreStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		desc  string
		query string
	}{
		{"delete parent notifications", `DELETE FROM parent_notifications WHERE assigned_chore_id IN (SELECT id FROM assigned_chores WHERE chore_id = ?)`},
		{"delete child notifications", `DELETE FROM child_notifications WHERE assigned_chore_id IN (SELECT id FROM assigned_chores WHERE chore_id = ?)`},
		{"delete assignments", `DELETE FROM assigned_chores WHERE chore_id = ?`},
		{"delete chore", `DELETE FROM chores WHERE id = ?`},
	}
	for _, st := range steps {
		if _, err := tx.Exec(st.query, id); err != nil {
			return fmt.Errorf("%s: %w", st.desc, err)
		}
	}
	return tx.Commit()
}
