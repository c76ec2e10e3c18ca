package codeforces

import "fmt"

// Verdict strings as the Codeforces API reports them.
const (
	VerdictOK          = "OK"
	VerdictWrongAnswer = "WRONG_ANSWER"
)

// Contest phases as the Codeforces API reports them.
const (
	PhaseBefore   = "BEFORE"
	PhaseFinished = "FINISHED"
)

type User struct {
	Handle     string `json:"handle"`
	Rating     int    `json:"rating"`
	MaxRating  int    `json:"maxRating"`
	Rank       string `json:"rank"`
	MaxRank    string `json:"maxRank"`
	TitlePhoto string `json:"titlePhoto"`
}

type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
}

// ID returns the composite problem key used across the dashboard, e.g. "1800A".
func (p Problem) ID() string {
	return fmt.Sprintf("%d%s", p.ContestID, p.Index)
}

type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Problem             Problem `json:"problem"`
	Verdict             string  `json:"verdict"`
	TimeConsumedMillis  int     `json:"timeConsumedMillis"`
	MemoryConsumedBytes int64   `json:"memoryConsumedBytes"`
}

type RatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

type Contest struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	Phase               string `json:"phase"`
	DurationSeconds     int64  `json:"durationSeconds"`
	StartTimeSeconds    int64  `json:"startTimeSeconds"`
	RelativeTimeSeconds int64  `json:"relativeTimeSeconds"`
}

type problemsetResult struct {
	Problems []Problem `json:"problems"`
}
