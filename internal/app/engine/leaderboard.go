// Package engine holds the pure scoring and recommendation logic of the
// dashboard. Both engines operate on snapshots handed in by the caller,
// own no state and perform no I/O, so concurrent invocations need no locking.
package engine

import (
	"sort"
	"time"
)

type Verdict string

const (
	VerdictAccepted    Verdict = "Accepted"
	VerdictWrongAnswer Verdict = "WrongAnswer"
	VerdictOther       Verdict = "Other"
)

// SubmissionEvent is one judged attempt. Events for the same user/problem
// pair must arrive in non-decreasing submission-time order; that ordering is
// the caller's contract and is not re-validated here.
type SubmissionEvent struct {
	UserID      string
	UserName    string
	ProblemID   string
	Verdict     Verdict
	SubmittedAt time.Time
}

// ContestContext fixes the scoring epoch for one standings computation.
type ContestContext struct {
	StartTime time.Time
	Problems  []ProblemRef
}

type StandingsRow struct {
	UserID              string `json:"user_id"`
	DisplayName         string `json:"display_name"`
	SolvedCount         int    `json:"solved_count"`
	PenaltyMinutes      int    `json:"penalty_minutes"`
	LastAcceptedMinutes int    `json:"last_accepted_minutes"`
}

const wrongAttemptPenaltyMinutes = 20

type problemState struct {
	attempts int
	solved   bool
}

type userState struct {
	row      StandingsRow
	problems map[string]*problemState
}

// ComputeStandings derives a ranked standings table from the contest's raw
// submission events. Scoring: a problem counts once, on the first Accepted
// event for the (user, problem) pair; its penalty is the accepted event's
// elapsed minutes plus 20 per preceding failed attempt. Events after
// acceptance are ignored. Events with missing identifiers are skipped so one
// bad record never corrupts the rest of the table.
//
// The result is a fresh slice sorted by solved count descending, penalty
// ascending, then last accepted minutes ascending; remaining ties keep the
// order in which users first appeared in the event stream.
func ComputeStandings(events []SubmissionEvent, contest ContestContext) []StandingsRow {
	users := make(map[string]*userState)
	order := make([]string, 0)

	for _, ev := range events {
		if ev.UserID == "" || ev.ProblemID == "" {
			continue
		}

		us, ok := users[ev.UserID]
		if !ok {
			us = &userState{
				row:      StandingsRow{UserID: ev.UserID, DisplayName: ev.UserName},
				problems: make(map[string]*problemState),
			}
			users[ev.UserID] = us
			order = append(order, ev.UserID)
		}

		ps, ok := us.problems[ev.ProblemID]
		if !ok {
			ps = &problemState{}
			us.problems[ev.ProblemID] = ps
		}
		if ps.solved {
			continue
		}

		if ev.Verdict == VerdictAccepted {
			elapsed := elapsedMinutes(contest.StartTime, ev.SubmittedAt)
			ps.solved = true
			us.row.SolvedCount++
			us.row.PenaltyMinutes += elapsed + wrongAttemptPenaltyMinutes*ps.attempts
			if elapsed > us.row.LastAcceptedMinutes {
				us.row.LastAcceptedMinutes = elapsed
			}
		} else {
			ps.attempts++
		}
	}

	rows := make([]StandingsRow, 0, len(order))
	for _, userID := range order {
		rows = append(rows, users[userID].row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SolvedCount != rows[j].SolvedCount {
			return rows[i].SolvedCount > rows[j].SolvedCount
		}
		if rows[i].PenaltyMinutes != rows[j].PenaltyMinutes {
			return rows[i].PenaltyMinutes < rows[j].PenaltyMinutes
		}
		return rows[i].LastAcceptedMinutes < rows[j].LastAcceptedMinutes
	})

	return rows
}

// elapsedMinutes floors to whole minutes and clamps submissions timestamped
// before the declared contest start to zero (clock skew between the judge and
// the contest author is not a reason to reject the event).
func elapsedMinutes(start, submitted time.Time) int {
	if submitted.Before(start) {
		return 0
	}
	return int(submitted.Sub(start) / time.Minute)
}
