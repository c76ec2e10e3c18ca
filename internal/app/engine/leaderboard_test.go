package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contestStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func event(user, problem string, verdict Verdict, minutes int) SubmissionEvent {
	return SubmissionEvent{
		UserID:      user,
		UserName:    user,
		ProblemID:   problem,
		Verdict:     verdict,
		SubmittedAt: contestStart.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestComputeStandings_Empty(t *testing.T) {
	rows := ComputeStandings(nil, ContestContext{StartTime: contestStart})
	assert.Empty(t, rows)
}

func TestComputeStandings_PenaltyScenario(t *testing.T) {
	// u1 solves p1 at minute 5, fails p2 at 10, solves p2 at 15:
	// penalty = 5 + (15 + 20*1) = 40.
	events := []SubmissionEvent{
		event("u1", "p1", VerdictAccepted, 5),
		event("u1", "p2", VerdictWrongAnswer, 10),
		event("u1", "p2", VerdictAccepted, 15),
	}

	rows := ComputeStandings(events, ContestContext{StartTime: contestStart})
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].SolvedCount)
	assert.Equal(t, 40, rows[0].PenaltyMinutes)
	assert.Equal(t, 15, rows[0].LastAcceptedMinutes)
}

func TestComputeStandings_EventsAfterAcceptanceIgnored(t *testing.T) {
	events := []SubmissionEvent{
		event("u1", "p1", VerdictAccepted, 5),
		event("u1", "p1", VerdictWrongAnswer, 6),
		event("u1", "p1", VerdictAccepted, 7),
	}

	rows := ComputeStandings(events, ContestContext{StartTime: contestStart})
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].SolvedCount)
	assert.Equal(t, 5, rows[0].PenaltyMinutes)
	assert.Equal(t, 5, rows[0].LastAcceptedMinutes)
}

func TestComputeStandings_UnsolvedProblemsCarryNoPenalty(t *testing.T) {
	events := []SubmissionEvent{
		event("u1", "p1", VerdictWrongAnswer, 3),
		event("u1", "p1", VerdictWrongAnswer, 8),
		event("u1", "p2", VerdictAccepted, 10),
	}

	rows := ComputeStandings(events, ContestContext{StartTime: contestStart})
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].SolvedCount)
	assert.Equal(t, 10, rows[0].PenaltyMinutes)
}

func TestComputeStandings_ClockSkewClampedToZero(t *testing.T) {
	events := []SubmissionEvent{
		event("u1", "p1", VerdictAccepted, -7),
	}

	rows := ComputeStandings(events, ContestContext{StartTime: contestStart})
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].PenaltyMinutes)
	assert.Equal(t, 0, rows[0].LastAcceptedMinutes)
}

func TestComputeStandings_Ordering(t *testing.T) {
	events := []SubmissionEvent{
		// alice: 2 solved, penalty 30, last 20
		event("alice", "p1", VerdictAccepted, 10),
		event("alice", "p2", VerdictAccepted, 20),
		// bob: 2 solved, penalty 25, last 15
		event("bob", "p1", VerdictAccepted, 10),
		event("bob", "p2", VerdictAccepted, 15),
		// carol: 1 solved
		event("carol", "p1", VerdictAccepted, 1),
	}

	rows := ComputeStandings(events, ContestContext{StartTime: contestStart})
	require.Len(t, rows, 3)
	assert.Equal(t, "bob", rows[0].UserID)
	assert.Equal(t, "alice", rows[1].UserID)
	assert.Equal(t, "carol", rows[2].UserID)

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		better := prev.SolvedCount > cur.SolvedCount ||
			(prev.SolvedCount == cur.SolvedCount && prev.PenaltyMinutes < cur.PenaltyMinutes) ||
			(prev.SolvedCount == cur.SolvedCount && prev.PenaltyMinutes == cur.PenaltyMinutes &&
				prev.LastAcceptedMinutes <= cur.LastAcceptedMinutes)
		assert.True(t, better, "rows %d and %d out of order", i-1, i)
	}
}

func TestComputeStandings_FullTiesKeepFirstSeenOrder(t *testing.T) {
	events := []SubmissionEvent{
		event("zoe", "p1", VerdictAccepted, 10),
		event("amy", "p1", VerdictAccepted, 10),
	}

	rows := ComputeStandings(events, ContestContext{StartTime: contestStart})
	require.Len(t, rows, 2)
	assert.Equal(t, "zoe", rows[0].UserID)
	assert.Equal(t, "amy", rows[1].UserID)
}

func TestComputeStandings_MalformedEventsSkipped(t *testing.T) {
	events := []SubmissionEvent{
		{UserID: "", ProblemID: "p1", Verdict: VerdictAccepted, SubmittedAt: contestStart},
		{UserID: "u1", ProblemID: "", Verdict: VerdictAccepted, SubmittedAt: contestStart},
		event("u2", "p1", VerdictAccepted, 5),
	}

	rows := ComputeStandings(events, ContestContext{StartTime: contestStart})
	require.Len(t, rows, 1)
	assert.Equal(t, "u2", rows[0].UserID)
}

func TestComputeStandings_Idempotent(t *testing.T) {
	events := []SubmissionEvent{
		event("u1", "p1", VerdictWrongAnswer, 2),
		event("u1", "p1", VerdictAccepted, 9),
		event("u2", "p1", VerdictAccepted, 4),
	}
	ctx := ContestContext{StartTime: contestStart}

	first := ComputeStandings(events, ctx)
	second := ComputeStandings(events, ctx)
	assert.Equal(t, first, second)
}

func TestComputeStandings_SolvedBound(t *testing.T) {
	events := []SubmissionEvent{
		event("u1", "p1", VerdictAccepted, 1),
		event("u2", "p1", VerdictAccepted, 2),
		event("u2", "p2", VerdictAccepted, 3),
		event("u3", "p3", VerdictWrongAnswer, 4),
	}

	rows := ComputeStandings(events, ContestContext{StartTime: contestStart})

	totalSolved := 0
	for _, row := range rows {
		totalSolved += row.SolvedCount
	}
	// At most (distinct accepted problems) per user; 2 problems, 3 users.
	assert.LessOrEqual(t, totalSolved, 2*len(rows))
}
