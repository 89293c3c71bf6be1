package store

import (
	"database/sql"
	"fmt"

	"github.com/chornado/internal/chore"
	"github.com/chornado/internal/model"
)

// AssignmentStore owns the assignment lifecycle. Every transition is a
// check-then-act sequence, so each runs inside one transaction: the state is
// re-read under the transaction, the precondition checked, and the writes
// committed together or not at all.
type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.AssignedChore, error) {
	var a model.AssignedChore
	err := scanner.Scan(&a.ID, &a.State, &a.ChoreID, &a.ChildID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const assignmentCols = `id, state, chore_id, child_id, created_at`

func (s *AssignmentStore) GetByID(id int64) (*model.AssignedChore, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM assigned_chores WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// ListByChild returns a child's assignments joined with the chore name and
// point value, oldest first.
func (s *AssignmentStore) ListByChild(childID int64) ([]model.AssignedChoreDetail, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.state, a.chore_id, a.child_id, a.created_at, c.name, c.value
		 FROM assigned_chores a
		 JOIN chores c ON c.id = a.chore_id
		 WHERE a.child_id = ?
		 ORDER BY a.id ASC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var details []model.AssignedChoreDetail
	for rows.Next() {
		var d model.AssignedChoreDetail
		if err := rows.Scan(&d.ID, &d.State, &d.ChoreID, &d.ChildID, &d.CreatedAt, &d.ChoreName, &d.ChoreValue); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// CountByChild returns the number of open assignments a child has.
func (s *AssignmentStore) CountByChild(childID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM assigned_chores WHERE child_id = ?`, childID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return count, nil
}

// Assign creates an Active assignment of a chore to a child. The chore and
// the child must belong to the same parent, and the (chore, child) pair must
// not already have an assignment; a duplicate returns ErrDuplicateAssignment
// and leaves the existing row alone.
func (s *AssignmentStore) Assign(choreID, childID int64) (*model.AssignedChore, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var choreParent int64
	err = tx.QueryRow(`SELECT parent_id FROM chores WHERE id = ?`, choreID).Scan(&choreParent)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chore parent: %w", err)
	}

	var childParent int64
	err = tx.QueryRow(`SELECT parent_id FROM children WHERE id = ?`, childID).Scan(&childParent)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get child parent: %w", err)
	}

	if choreParent != childParent {
		return nil, fmt.Errorf("chore %d and child %d have different parents", choreID, childID)
	}

	var count int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM assigned_chores WHERE chore_id = ? AND child_id = ?`,
		choreID, childID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("check duplicate assignment: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateAssignment
	}

	result, err := tx.Exec(
		`INSERT INTO assigned_chores (state, chore_id, child_id) VALUES (?, ?, ?)`,
		chore.StateActive, choreID, childID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assign: %w", err)
	}
	return s.GetByID(id)
}

// Complete marks an Active assignment done and notifies the parent that
// "{child} has completed {chore}". Completing a non-Active assignment
// returns ErrWrongState.
func (s *AssignmentStore) Complete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	a, err := getAssignmentTx(tx, id)
	if err != nil {
		return err
	}
	if !chore.CanComplete(a.State) {
		return ErrWrongState
	}

	var choreName string
	var parentID int64
	err = tx.QueryRow(`SELECT name, parent_id FROM chores WHERE id = ?`, a.ChoreID).Scan(&choreName, &parentID)
	if err != nil {
		return fmt.Errorf("get chore: %w", err)
	}

	var childFirst string
	err = tx.QueryRow(`SELECT first_name FROM children WHERE id = ?`, a.ChildID).Scan(&childFirst)
	if err != nil {
		return fmt.Errorf("get child: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE assigned_chores SET state = ? WHERE id = ?`,
		chore.StateComplete, id,
	); err != nil {
		return fmt.Errorf("set state complete: %w", err)
	}

	msg := fmt.Sprintf("%s has completed %s", childFirst, choreName)
	if _, err := tx.Exec(
		`INSERT INTO parent_notifications (parent_id, kind, message, assigned_chore_id, child_id) VALUES (?, ?, ?, ?, ?)`,
		parentID, model.NotificationChore, msg, id, a.ChildID,
	); err != nil {
		return fmt.Errorf("insert parent notification: %w", err)
	}

	return tx.Commit()
}

// Approve accepts a Complete assignment: the child earns the chore's point
// value and the assignment row disappears along with its notifications.
// This is the only operation that increases a child's balance.
func (s *AssignmentStore) Approve(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	a, err := getAssignmentTx(tx, id)
	if err != nil {
		return err
	}
	if !chore.CanReview(a.State) {
		return ErrWrongState
	}

	var value int
	err = tx.QueryRow(`SELECT value FROM chores WHERE id = ?`, a.ChoreID).Scan(&value)
	if err != nil {
		return fmt.Errorf("get chore value: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE children SET points = points + ? WHERE id = ?`,
		value, a.ChildID,
	); err != nil {
		return fmt.Errorf("award points: %w", err)
	}

	if err := deleteAssignmentRows(tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

// Reject sends a Complete assignment back for another try. The parent
// notification for the completion is consumed and the child is told the
// chore "needs another try". The child acknowledging that notification
// reactivates the assignment (see NotificationStore.AcknowledgeChild).
func (s *AssignmentStore) Reject(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	a, err := getAssignmentTx(tx, id)
	if err != nil {
		return err
	}
	if !chore.CanReview(a.State) {
		return ErrWrongState
	}

	var choreName string
	err = tx.QueryRow(`SELECT name FROM chores WHERE id = ?`, a.ChoreID).Scan(&choreName)
	if err != nil {
		return fmt.Errorf("get chore name: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE assigned_chores SET state = ? WHERE id = ?`,
		chore.StateRejected, id,
	); err != nil {
		return fmt.Errorf("set state rejected: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM parent_notifications WHERE assigned_chore_id = ?`, id,
	); err != nil {
		return fmt.Errorf("delete parent notifications: %w", err)
	}

	msg := fmt.Sprintf("%s needs another try", choreName)
	if _, err := tx.Exec(
		`INSERT INTO child_notifications (child_id, kind, message, assigned_chore_id) VALUES (?, ?, ?, ?)`,
		a.ChildID, model.NotificationChore, msg, id,
	); err != nil {
		return fmt.Errorf("insert child notification: %w", err)
	}

	return tx.Commit()
}

// Delete removes an assignment in any state together with its notifications.
// No points change hands.
func (s *AssignmentStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := getAssignmentTx(tx, id); err != nil {
		return err
	}
	if err := deleteAssignmentRows(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func getAssignmentTx(tx *sql.Tx, id int64) (*model.AssignedChore, error) {
	row := tx.QueryRow(`SELECT `+assignmentCols+` FROM assigned_chores WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// deleteAssignmentRows removes an assignment and both audiences'
// notifications referencing it, inside an open transaction.
func deleteAssignmentRows(tx *sql.Tx, id int64) error {
	steps := []struct {
		desc  string
		query string
	}{
		{"delete parent notifications", `DELETE FROM parent_notifications WHERE assigned_chore_id = ?`},
		{"delete child notifications", `DELETE FROM child_notifications WHERE assigned_chore_id = ?`},
		{"delete assignment", `DELETE FROM assigned_chores WHERE id = ?`},
	}
	for _, st := range steps {
		if _, err := tx.Exec(st.query, id); err != nil {
			return fmt.Errorf("%s: %w", st.desc, err)
		}
	}
	return nil
}
