package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role"`
	CFHandle       *string   `json:"cf_handle,omitempty"` // Linked Codeforces handle, set after verification
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Linked reports whether the user has completed Codeforces handle verification.
func (u *User) Linked() bool {
	return u.CFHandle != nil && *u.CFHandle != ""
}
