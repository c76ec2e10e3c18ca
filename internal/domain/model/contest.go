package model

import "time"

// Contest is a user-created contest built from Codeforces problemset problems.
type Contest struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	CreatedByID     string           `json:"created_by_id"`
	StartTime       time.Time        `json:"start_time"`
	DurationMinutes int              `json:"duration_minutes"`
	CreatedAt       time.Time        `json:"created_at"`
	Problems        []ContestProblem `json:"problems,omitempty"`
}

// EndTime is the instant the contest stops accepting scored submissions.
func (c *Contest) EndTime() time.Time {
	return c.StartTime.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// ContestProblem pins one Codeforces problem into a custom contest.
type ContestProblem struct {
	ContestID   string `json:"-"`
	ProblemKey  string `json:"problem_key"` // e.g. "1800A"
	CFContestID int    `json:"cf_contest_id"`
	CFIndex     string `json:"cf_index"`
	Name        string `json:"name"`
	Rating      int    `json:"rating,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

// ContestParticipant is a registered user with a verified Codeforces handle.
type ContestParticipant struct {
	ContestID    string    `json:"contest_id"`
	UserID       string    `json:"user_id"`
	Handle       string    `json:"handle"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ContestSubmission is one judged attempt observed on Codeforces during the
// contest window, recorded by the sync worker. Immutable once stored.
type ContestSubmission struct {
	ID             string    `json:"id"`
	ContestID      string    `json:"contest_id"`
	UserID         string    `json:"user_id"`
	Handle         string    `json:"handle"`
	ProblemKey     string    `json:"problem_key"`
	Verdict        string    `json:"verdict"`
	SubmittedAt    time.Time `json:"submitted_at"`
	CFSubmissionID int64     `json:"cf_submission_id"`
}
