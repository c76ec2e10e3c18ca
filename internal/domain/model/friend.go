package model

import "time"

// Friend is a Codeforces handle a user follows. Friends are tracked by handle,
// not by local account: the original product lets you befriend any handle on
// the platform whether or not its owner has an account here.
type Friend struct {
	UserID    string    `json:"-"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}
