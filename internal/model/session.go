package model

import "time"

// Session roles.
const (
	RoleParent = "parent"
	RoleChild  = "child"
)

type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
