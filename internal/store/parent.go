package store

import (
	"database/sql"
	"fmt"

	"github.com/chornado/internal/model"
)

type ParentStore struct {
	db *sql.DB
}

func NewParentStore(db *sql.DB) *ParentStore {
	return &ParentStore{db: db}
}

func scanParent(scanner interface{ Scan(...any) error }) (*model.Parent, error) {
	var p model.Parent
	err := scanner.Scan(&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const parentCols = `id, username, first_name, last_name, password_hash, created_at`

func (s *ParentStore) Create(username, firstName, lastName, passwordHash string) (*model.Parent, error) {
	result, err := s.db.Exec(
		`INSERT INTO parents (username, first_name, last_name, password_hash) VALUES (?, ?, ?, ?)`,
		username, firstName, lastName, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert parent: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ParentStore) GetByID(id int64) (*model.Parent, error) {
	row := s.db.QueryRow(`SELECT `+parentCols+` FROM parents WHERE id = ?`, id)
	p, err := scanParent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get parent: %w", err)
	}
	return p, nil
}

func (s *ParentStore) GetByUsername(username string) (*model.Parent, error) {
	row := s.db.QueryRow(`SELECT `+parentCols+` FROM parents WHERE username = ?`, username)
	p, err := scanParent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get parent by username: %w", err)
	}
	return p, nil
}

func (s *ParentStore) UpdatePassword(id int64, passwordHash string) error {
	_, err := s.db.Exec(`UPDATE parents SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update parent password: %w", err)
	}
	return nil
}

// UsernameTaken reports whether a username exists in either account table.
// Registration forms require usernames to be unique across parents and
// children.
func (s *ParentStore) UsernameTaken(username string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT (SELECT COUNT(*) FROM parents WHERE username = ?)
		      + (SELECT COUNT(*) FROM children WHERE username = ?)`,
		username, username,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

// Delete removes a parent and every row that hangs off it: each child's
// notifications, assignments and their notifications, then chores, rewards,
// the parent's notifications, all related sessions, and finally the parent
// row. One transaction; a failed step rolls the whole cascade back.
func (s *ParentStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT id FROM children WHERE parent_id = ?`, id)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	var childIDs []int64
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return fmt.Errorf("scan child id: %w", err)
		}
		childIDs = append(childIDs, cid)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate children: %w", err)
	}
	rows.Close()

	for _, cid := range childIDs {
		if err := deleteChildRows(tx, cid); err != nil {
			return err
		}
	}

	steps := []struct {
		desc  string
		query string
	}{
		{"delete chores", `DELETE FROM chores WHERE parent_id = ?`},
		{"delete reward notifications", `DELETE FROM child_notifications WHERE reward_id IN (SELECT id FROM rewards WHERE parent_id = ?)`},
		{"delete rewards", `DELETE FROM rewards WHERE parent_id = ?`},
		{"delete parent notifications", `DELETE FROM parent_notifications WHERE parent_id = ?`},
		{"delete parent sessions", `DELETE FROM sessions WHERE role = 'parent' AND user_id = ?`},
		{"delete parent", `DELETE FROM parents WHERE id = ?`},
	}
	for _, st := range steps {
		if _, err := tx.Exec(st.query, id); err != nil {
			return fmt.Errorf("%s: %w", st.desc, err)
		}
	}

	return tx.Commit()
}

// deleteChildRows removes everything owned by one child inside an open
// transaction, in dependency order: notifications referencing the child's
// assignments, the child's own notifications, the assignments, the child's
// sessions, then the child row.
func deleteChildRows(tx *sql.Tx, childID int64) error {
	steps := []struct {
		desc  string
		query string
	}{
		{"delete assignment notifications", `DELETE FROM parent_notifications WHERE assigned_chore_id IN (SELECT id FROM assigned_chores WHERE child_id = ?)`},
		{"delete child notifications", `DELETE FROM child_notifications WHERE child_id = ?`},
		{"delete purchase notifications", `DELETE FROM parent_notifications WHERE child_id = ?`},
		{"delete assignments", `DELETE FROM assigned_chores WHERE child_id = ?`},
		{"delete child sessions", `DELETE FROM sessions WHERE role = 'child' AND user_id = ?`},
		{"delete child", `DELETE FROM children WHERE id = ?`},
	}
	for _, st := range steps {
		if _, err := tx.Exec(st.query, childID); err != nil {
			return fmt.Errorf("%s for child %d: %w", st.desc, childID, err)
		}
	}
	return nil
}
