package model

import "time"

// Parent is an adult account. The username doubles as the login email.
type Parent struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Child is a kid account owned by one parent. Points accumulate from approved
// chores and are spent on rewards; manual corrections may take the balance
// below zero.
type Child struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Points       int       `json:"points"`
	ParentID     int64     `json:"parent_id"`
	CreatedAt    time.Time `json:"created_at"`
}
