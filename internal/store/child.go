package store

import (
	"database/sql"
	"fmt"

	"github.com/chornado/internal/model"
)

type ChildStore struct {
	db *sql.DB
}

func NewChildStore(db *sql.DB) *ChildStore {
	return &ChildStore{db: db}
}

func scanChild(scanner interface{ Scan(...any) error }) (*model.Child, error) {
	var c model.Child
	err := scanner.Scan(&c.ID, &c.Username, &c.FirstName, &c.LastName, &c.PasswordHash, &c.Points, &c.ParentID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const childCols = `id, username, first_name, last_name, password_hash, points, parent_id, created_at`

func (s *ChildStore) Create(username, firstName, lastName, passwordHash string, parentID int64) (*model.Child, error) {
	result, err := s.db.Exec(
		`INSERT INTO children (username, first_name, last_name, password_hash, points, parent_id) VALUES (?, ?, ?, ?, 0, ?)`,
		username, firstName, lastName, passwordHash, parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert child: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChildStore) GetByID(id int64) (*model.Child, error) {
	row := s.db.QueryRow(`SELECT `+childCols+` FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	return c, nil
}

func (s *ChildStore) GetByUsername(username string) (*model.Child, error) {
	row := s.db.QueryRow(`SELECT `+childCols+` FROM children WHERE username = ?`, username)
	c, err := scanChild(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child by username: %w", err)
	}
	return c, nil
}

func (s *ChildStore) ListByParent(parentID int64) ([]model.Child, error) {
	rows, err := s.db.Query(
		`SELECT `+childCols+` FROM children WHERE parent_id = ? ORDER BY first_name ASC`,
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var children []model.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, *c)
	}
	return children, rows.Err()
}

func (s *ChildStore) UpdatePassword(id int64, passwordHash string) error {
	_, err := s.db.Exec(`UPDATE children SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update child password: %w", err)
	}
	return nil
}

// AdjustPoints adds delta to a child's balance. Negative deltas are allowed;
// the balance is deliberately not clamped at zero to match the manual
// adjustment workflow, where a parent may dock points below a pending
// purchase. Returns the updated child.
func (s *ChildStore) AdjustPoints(id int64, delta int) (*model.Child, error) {
	result, err := s.db.Exec(`UPDATE children SET points = points + ? WHERE id = ?`, delta, id)
	if err != nil {
		return nil, fmt.Errorf("adjust points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

// Delete removes a child and everything the child owns: notifications
// referencing the child's assignments, the child's own notifications, the
// assignments themselves, the child's sessions, and the child row. The
// parent and any siblings are untouched.
func (s *ChildStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := deleteChildRows(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}
