package model

import "time"

// Reward is a point-redeemable item owned by one parent.
type Reward struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Cost      int       `json:"cost"`
	ParentID  int64     `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}
