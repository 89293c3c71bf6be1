package store

import (
	"database/sql"
	"fmt"

	"github.com/chornado/internal/chore"
	"github.com/chornado/internal/model"
)

type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func scanParentNotification(scanner interface{ Scan(...any) error }) (*model.ParentNotification, error) {
	var n model.ParentNotification
	var assignedID, rewardID, childID sql.NullInt64

	err := scanner.Scan(&n.ID, &n.ParentID, &n.Kind, &n.Message, &assignedID, &rewardID, &childID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	if assignedID.Valid {
		n.AssignedChoreID = &assignedID.Int64
	}
	if rewardID.Valid {
		n.RewardID = &rewardID.Int64
	}
	if childID.Valid {
		n.ChildID = &childID.Int64
	}
	return &n, nil
}

const parentNotificationCols = `id, parent_id, kind, message, assigned_chore_id, reward_id, child_id, created_at`

func (s *NotificationStore) GetParentByID(id int64) (*model.ParentNotification, error) {
	row := s.db.QueryRow(`SELECT `+parentNotificationCols+` FROM parent_notifications WHERE id = ?`, id)
	n, err := scanParentNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get parent notification: %w", err)
	}
	return n, nil
}

func (s *NotificationStore) ListForParent(parentID int64) ([]model.ParentNotification, error) {
	rows, err := s.db.Query(
		`SELECT `+parentNotificationCols+` FROM parent_notifications WHERE parent_id = ? ORDER BY created_at ASC, id ASC`,
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list parent notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.ParentNotification
	for rows.Next() {
		n, err := scanParentNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan parent notification: %w", err)
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func scanChildNotification(scanner interface{ Scan(...any) error }) (*model.ChildNotification, error) {
	var n model.ChildNotification
	var assignedID, rewardID sql.NullInt64

	err := scanner.Scan(&n.ID, &n.ChildID, &n.Kind, &n.Message, &assignedID, &rewardID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	if assignedID.Valid {
		n.AssignedChoreID = &assignedID.Int64
	}
	if rewardID.Valid {
		n.RewardID = &rewardID.Int64
	}
	return &n, nil
}

const childNotificationCols = `id, child_id, kind, message, assigned_chore_id, reward_id, created_at`

func (s *NotificationStore) GetChildByID(id int64) (*model.ChildNotification, error) {
	row := s.db.QueryRow(`SELECT `+childNotificationCols+` FROM child_notifications WHERE id = ?`, id)
	n, err := scanChildNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child notification: %w", err)
	}
	return n, nil
}

func (s *NotificationStore) ListForChild(childID int64) ([]model.ChildNotification, error) {
	rows, err := s.db.Query(
		`SELECT `+childNotificationCols+` FROM child_notifications WHERE child_id = ? ORDER BY created_at ASC, id ASC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list child notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.ChildNotification
	for rows.Next() {
		n, err := scanChildNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child notification: %w", err)
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

// AcknowledgeChild removes a child notification. Acknowledging an id that no
// longer exists is a no-op, not an error: the child may have double-clicked
// or the row may have been cascaded away. If the notification marked a
// rejected chore, acknowledging it also sends the assignment back to Active
// so the child can try again.
func (s *NotificationStore) AcknowledgeChild(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var kind string
	var assignedID sql.NullInt64
	err = tx.QueryRow(
		`SELECT kind, assigned_chore_id FROM child_notifications WHERE id = ?`, id,
	).Scan(&kind, &assignedID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get child notification: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM child_notifications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete child notification: %w", err)
	}

	if kind == model.NotificationChore && assignedID.Valid {
		if _, err := tx.Exec(
			`UPDATE assigned_chores SET state = ? WHERE id = ? AND state = ?`,
			chore.StateActive, assignedID.Int64, chore.StateRejected,
		); err != nil {
			return fmt.Errorf("reactivate assignment: %w", err)
		}
	}

	return tx.Commit()
}
