package service

import (
	"testing"

	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func change(contestID int, name string, rank int) codeforces.RatingChange {
	return codeforces.RatingChange{ContestID: contestID, ContestName: name, Rank: rank}
}

func TestCommonContests(t *testing.T) {
	first := []codeforces.RatingChange{
		change(100, "Round 100", 42),
		change(101, "Round 101", 17),
		change(102, "Round 102", 5),
	}
	second := []codeforces.RatingChange{
		change(102, "Round 102", 9),
		change(100, "Round 100", 3),
		change(999, "Round 999", 1),
	}

	common := commonContests(first, second)
	require.Len(t, common, 2)

	// First history's order is preserved.
	assert.Equal(t, 100, common[0].ContestID)
	assert.Equal(t, 42, common[0].FirstRank)
	assert.Equal(t, 3, common[0].SecondRank)
	assert.Equal(t, 102, common[1].ContestID)
	assert.Equal(t, 5, common[1].FirstRank)
	assert.Equal(t, 9, common[1].SecondRank)
}

func TestCommonContests_NoOverlap(t *testing.T) {
	first := []codeforces.RatingChange{change(1, "A", 1)}
	second := []codeforces.RatingChange{change(2, "B", 2)}

	assert.Empty(t, commonContests(first, second))
	assert.Empty(t, commonContests(nil, nil))
}
