package model

import "time"

type Team struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	LeaderID  string       `json:"leader_id"`
	JoinCode  string       `json:"join_code"`
	CreatedAt time.Time    `json:"created_at"`
	Members   []TeamMember `json:"members,omitempty"`
}

type TeamMember struct {
	TeamID   string    `json:"-"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}
