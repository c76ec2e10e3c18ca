package engine

import (
	"fmt"
	"math"
	"sort"
)

// RatingUnrated is the sentinel bucket for problems the judge has not rated.
const RatingUnrated = 0

// ProblemRef is one catalog entry, keyed by contest id plus problem index.
type ProblemRef struct {
	ContestID int      `json:"contest_id"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
}

// ID returns the composite problem key, e.g. "1800A".
func (p ProblemRef) ID() string {
	return fmt.Sprintf("%d%s", p.ContestID, p.Index)
}

// HistoryEntry is one judged attempt from a user's full submission history,
// carrying the problem metadata the profile aggregation needs.
type HistoryEntry struct {
	Problem ProblemRef
	Verdict Verdict
}

// WrongAnswerProfile aggregates where a user's wrong answers cluster, and
// which problems they have already solved.
type WrongAnswerProfile struct {
	CountByTag    map[string]int
	CountByRating map[int]int
	Solved        map[string]bool
}

// TotalWrong is the number of wrong-answer events the profile was built from.
func (p WrongAnswerProfile) TotalWrong() int {
	total := 0
	for _, n := range p.CountByRating {
		total += n
	}
	return total
}

// BuildWrongAnswerProfile scans a submission history once. Accepted verdicts
// mark the problem solved; wrong answers increment every tag the problem
// carries and its rating bucket (RatingUnrated for unrated problems).
func BuildWrongAnswerProfile(history []HistoryEntry) WrongAnswerProfile {
	profile := WrongAnswerProfile{
		CountByTag:    make(map[string]int),
		CountByRating: make(map[int]int),
		Solved:        make(map[string]bool),
	}
	for _, entry := range history {
		switch entry.Verdict {
		case VerdictAccepted:
			profile.Solved[entry.Problem.ID()] = true
		case VerdictWrongAnswer:
			for _, tag := range entry.Problem.Tags {
				profile.CountByTag[tag]++
			}
			profile.CountByRating[entry.Problem.Rating]++
		}
	}
	return profile
}

// SuggestByRating allocates each rating bucket a quota proportional to its
// share of the user's wrong answers and fills it with unsolved catalog
// problems of that exact rating, in catalog order. Buckets whose quota rounds
// to zero contribute nothing. Buckets are walked in ascending rating order so
// the result is deterministic. The catalog is never mutated.
func SuggestByRating(profile WrongAnswerProfile, catalog []ProblemRef, limit int) []ProblemRef {
	totalWrong := profile.TotalWrong()
	if totalWrong == 0 || limit <= 0 || len(catalog) == 0 {
		return nil
	}

	ratings := make([]int, 0, len(profile.CountByRating))
	for rating := range profile.CountByRating {
		ratings = append(ratings, rating)
	}
	sort.Ints(ratings)

	suggested := make([]ProblemRef, 0, limit)
	for _, rating := range ratings {
		quota := int(math.Round(float64(profile.CountByRating[rating]) / float64(totalWrong) * float64(limit)))
		for _, p := range catalog {
			if quota == 0 {
				break
			}
			if p.Rating != rating || profile.Solved[p.ID()] {
				continue
			}
			suggested = append(suggested, p)
			quota--
		}
	}

	if len(suggested) > limit {
		suggested = suggested[:limit]
	}
	return suggested
}

// SuggestByTag scores every unsolved catalog problem by the summed wrong-answer
// weight of its tags and returns the top scorers. Ties keep catalog order, so
// with no wrong-answer data at all the result is simply the unsolved catalog
// truncated to limit.
func SuggestByTag(profile WrongAnswerProfile, catalog []ProblemRef, limit int) []ProblemRef {
	if limit <= 0 || len(catalog) == 0 {
		return nil
	}

	totalWrong := profile.TotalWrong()
	weights := make(map[string]float64, len(profile.CountByTag))
	if totalWrong > 0 {
		for tag, count := range profile.CountByTag {
			weights[tag] = float64(count) / float64(totalWrong)
		}
	}

	type scored struct {
		problem ProblemRef
		score   float64
	}
	candidates := make([]scored, 0, len(catalog))
	for _, p := range catalog {
		if profile.Solved[p.ID()] {
			continue
		}
		score := 0.0
		for _, tag := range p.Tags {
			score += weights[tag]
		}
		candidates = append(candidates, scored{problem: p, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	suggested := make([]ProblemRef, 0, len(candidates))
	for _, c := range candidates {
		suggested = append(suggested, c.problem)
	}
	return suggested
}
