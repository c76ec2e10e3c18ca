package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func problem(contestID int, index string, rating int, tags ...string) ProblemRef {
	return ProblemRef{ContestID: contestID, Index: index, Name: index, Rating: rating, Tags: tags}
}

func TestBuildWrongAnswerProfile(t *testing.T) {
	history := []HistoryEntry{
		{Problem: problem(1, "A", 800, "math"), Verdict: VerdictAccepted},
		{Problem: problem(2, "B", 1200, "dp", "graphs"), Verdict: VerdictWrongAnswer},
		{Problem: problem(3, "C", 1200, "dp"), Verdict: VerdictWrongAnswer},
		{Problem: problem(4, "D", RatingUnrated, "greedy"), Verdict: VerdictWrongAnswer},
		{Problem: problem(5, "E", 1500), Verdict: VerdictOther}, // TLE etc. not counted
	}

	profile := BuildWrongAnswerProfile(history)

	assert.True(t, profile.Solved["1A"])
	assert.Len(t, profile.Solved, 1)
	assert.Equal(t, 2, profile.CountByTag["dp"])
	assert.Equal(t, 1, profile.CountByTag["graphs"])
	assert.Equal(t, 1, profile.CountByTag["greedy"])
	assert.Equal(t, 2, profile.CountByRating[1200])
	assert.Equal(t, 1, profile.CountByRating[RatingUnrated])
	assert.Equal(t, 3, profile.TotalWrong())
}

func TestSuggestByTag_WeightedOrdering(t *testing.T) {
	// dp weight 3/4, greedy 1/4: a problem tagged both must outrank dp alone.
	profile := WrongAnswerProfile{
		CountByTag:    map[string]int{"dp": 3, "greedy": 1},
		CountByRating: map[int]int{1200: 4},
		Solved:        map[string]bool{},
	}
	catalog := []ProblemRef{
		problem(1, "A", 1200, "dp"),
		problem(2, "B", 1200, "greedy", "dp"),
	}

	suggested := SuggestByTag(profile, catalog, 100)
	require.Len(t, suggested, 2)
	assert.Equal(t, "2B", suggested[0].ID())
	assert.Equal(t, "1A", suggested[1].ID())
}

func TestSuggestByTag_ExcludesSolvedAndRespectsLimit(t *testing.T) {
	profile := WrongAnswerProfile{
		CountByTag:    map[string]int{"dp": 1},
		CountByRating: map[int]int{1200: 1},
		Solved:        map[string]bool{"1A": true},
	}
	catalog := []ProblemRef{
		problem(1, "A", 1200, "dp"),
		problem(2, "B", 1200, "dp"),
		problem(3, "C", 1200, "dp"),
	}

	suggested := SuggestByTag(profile, catalog, 1)
	require.Len(t, suggested, 1)
	assert.Equal(t, "2B", suggested[0].ID())
	for _, p := range suggested {
		assert.False(t, profile.Solved[p.ID()])
	}
}

func TestSuggestByTag_NoWrongAnswersFallsBackToCatalogOrder(t *testing.T) {
	profile := BuildWrongAnswerProfile(nil)
	catalog := []ProblemRef{
		problem(1, "A", 800, "math"),
		problem(2, "B", 900, "dp"),
		problem(3, "C", 1000, "greedy"),
	}

	suggested := SuggestByTag(profile, catalog, 2)
	require.Len(t, suggested, 2)
	assert.Equal(t, "1A", suggested[0].ID())
	assert.Equal(t, "2B", suggested[1].ID())
}

func TestSuggestByRating_ProportionalQuotas(t *testing.T) {
	// 3 of 4 wrong answers at 800 -> quota 3 of limit 4; 1 at 1200 -> quota 1.
	profile := WrongAnswerProfile{
		CountByTag:    map[string]int{"math": 4},
		CountByRating: map[int]int{800: 3, 1200: 1},
		Solved:        map[string]bool{"11A": true},
	}
	catalog := []ProblemRef{
		problem(11, "A", 800, "math"), // solved, skipped
		problem(12, "B", 800, "math"),
		problem(13, "C", 800, "math"),
		problem(14, "D", 800, "math"),
		problem(15, "E", 800, "math"),
		problem(21, "A", 1200, "math"),
		problem(22, "B", 1200, "math"),
	}

	suggested := SuggestByRating(profile, catalog, 4)
	require.Len(t, suggested, 4)
	assert.Equal(t, "12B", suggested[0].ID())
	assert.Equal(t, "13C", suggested[1].ID())
	assert.Equal(t, "14D", suggested[2].ID())
	assert.Equal(t, "21A", suggested[3].ID())
}

func TestSuggestByRating_ZeroWrongCount(t *testing.T) {
	profile := BuildWrongAnswerProfile(nil)
	catalog := []ProblemRef{problem(1, "A", 800, "math")}

	assert.NotPanics(t, func() {
		assert.Empty(t, SuggestByRating(profile, catalog, 100))
	})
}

func TestSuggest_EmptyCatalog(t *testing.T) {
	profile := WrongAnswerProfile{
		CountByTag:    map[string]int{"dp": 1},
		CountByRating: map[int]int{800: 1},
		Solved:        map[string]bool{},
	}

	assert.Empty(t, SuggestByRating(profile, nil, 100))
	assert.Empty(t, SuggestByTag(profile, nil, 100))
}

func TestSuggest_DoNotMutateInputs(t *testing.T) {
	profile := WrongAnswerProfile{
		CountByTag:    map[string]int{"dp": 2},
		CountByRating: map[int]int{800: 2},
		Solved:        map[string]bool{},
	}
	catalog := []ProblemRef{
		problem(2, "B", 800, "dp"),
		problem(1, "A", 800, "dp"),
	}

	SuggestByTag(profile, catalog, 10)
	SuggestByRating(profile, catalog, 10)

	assert.Equal(t, "2B", catalog[0].ID())
	assert.Equal(t, "1A", catalog[1].ID())
	assert.Equal(t, map[string]int{"dp": 2}, profile.CountByTag)
}
