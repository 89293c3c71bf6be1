package store

import (
	"database/sql"
	"fmt"

	"github.com/chornado/internal/model"
)

type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	err := scanner.Scan(&r.ID, &r.Name, &r.Cost, &r.ParentID, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const rewardCols = `id, name, cost, parent_id, created_at`

func (s *RewardStore) Create(name string, cost int, parentID int64) (*model.Reward, error) {
	result, err := s.db.Exec(
		`INSERT INTO rewards (name, cost, parent_id) VALUES (?, ?, ?)`,
		name, cost, parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) GetByID(id int64) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

func (s *RewardStore) ListByParent(parentID int64) ([]model.Reward, error) {
	rows, err := s.db.Query(
		`SELECT `+rewardCols+` FROM rewards WHERE parent_id = ? ORDER BY name ASC`,
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

func (s *RewardStore) Update(id int64, name string, cost int) (*model.Reward, error) {
	_, err := s.db.Exec(
		`UPDATE rewards SET name = ?, cost = ? WHERE id = ?`,
		name, cost, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a reward and any notifications referencing it, in one
// transaction.
func (s *RewardStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		desc  string
		query string
	}{
		{"delete parent notifications", `DELETE FROM parent_notifications WHERE reward_id = ?`},
		{"delete child notifications", `DELETE FROM child_notifications WHERE reward_id = ?`},
		{"delete reward", `DELETE FROM rewards WHERE id = ?`},
	}
	for _, st := range steps {
		if _, err := tx.Exec(st.query, id); err != nil {
			return fmt.Errorf("%s: %w", st.desc, err)
		}
	}
	return tx.Commit()
}

// Purchase deducts a reward's cost from a child's balance and notifies the
// parent that "{child} has purchased {reward}". The balance check and the
// deduction happen under one transaction; a child without enough points gets
// ErrInsufficientPoints and no rows change.
func (s *RewardStore) Purchase(childID, rewardID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var rewardName string
	var cost int
	var parentID int64
	err = tx.QueryRow(`SELECT name, cost, parent_id FROM rewards WHERE id = ?`, rewardID).Scan(&rewardName, &cost, &parentID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get reward: %w", err)
	}

	var childFirst string
	var points int
	err = tx.QueryRow(`SELECT first_name, points FROM children WHERE id = ?`, childID).Scan(&childFirst, &points)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get child: %w", err)
	}

	if points < cost {
		return ErrInsufficientPoints
	}

	if _, err := tx.Exec(
		`UPDATE children SET points = points - ? WHERE id = ?`,
		cost, childID,
	); err != nil {
		return fmt.Errorf("deduct points: %w", err)
	}

	msg := fmt.Sprintf("%s has purchased %s", childFirst, rewardName)
	if _, err := tx.Exec(
		`INSERT INTO parent_notifications (parent_id, kind, message, reward_id, child_id) VALUES (?, ?, ?, ?, ?)`,
		parentID, model.NotificationReward, msg, rewardID, childID,
	); err != nil {
		return fmt.Errorf("insert parent notification: %w", err)
	}

	return tx.Commit()
}

// Deliver consumes a reward purchase notification and tells the child
// "You have been given {reward}". The cost was already deducted at purchase
// time, so no balance changes here.
func (s *RewardStore) Deliver(notificationID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var kind string
	var rewardID, childID sql.NullInt64
	err = tx.QueryRow(
		`SELECT kind, reward_id, child_id FROM parent_notifications WHERE id = ?`,
		notificationID,
	).Scan(&kind, &rewardID, &childID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get notification: %w", err)
	}
	if kind != model.NotificationReward || !rewardID.Valid || !childID.Valid {
		return fmt.Errorf("notification %d is not a reward purchase", notificationID)
	}

	var rewardName string
	err = tx.QueryRow(`SELECT name FROM rewards WHERE id = ?`, rewardID.Int64).Scan(&rewardName)
	if err != nil {
		return fmt.Errorf("get reward name: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM parent_notifications WHERE id = ?`, notificationID); err != nil {
		return fmt.Errorf("delete purchase notification: %w", err)
	}

	msg := fmt.Sprintf("You have been given %s", rewardName)
	if _, err := tx.Exec(
		`INSERT INTO child_notifications (child_id, kind, message, reward_id) VALUES (?, ?, ?, ?)`,
		childID.Int64, model.NotificationReward, msg, rewardID.Int64,
	); err != nil {
		return fmt.Errorf("insert child notification: %w", err)
	}

	return tx.Commit()
}
