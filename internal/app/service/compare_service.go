package service

import (
	"context"
	"fmt"

	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
)

// CompareService builds the side-by-side view of two Codeforces profiles.
type CompareService struct {
	cf *codeforces.Client
}

func NewCompareService(cf *codeforces.Client) *CompareService {
	return &CompareService{cf: cf}
}

type ComparedProfile struct {
	Info          codeforces.User           `json:"info"`
	RatingHistory []codeforces.RatingChange `json:"rating_history"`
}

type CommonContest struct {
	ContestID   int    `json:"contest_id"`
	ContestName string `json:"contest_name"`
	FirstRank   int    `json:"first_rank"`
	SecondRank  int    `json:"second_rank"`
}

type CompareResponse struct {
	First          ComparedProfile `json:"first"`
	Second         ComparedProfile `json:"second"`
	CommonContests []CommonContest `json:"common_contests"`
}

func (s *CompareService) Compare(ctx context.Context, first, second string) (*CompareResponse, error) {
	if first == "" || second == "" {
		return nil, fmt.Errorf("two handles are required: %w", common.ErrBadRequest)
	}

	firstProfile, err := s.loadProfile(ctx, first)
	if err != nil {
		return nil, fmt.Errorf("handle %q: %w", first, err)
	}
	secondProfile, err := s.loadProfile(ctx, second)
	if err != nil {
		return nil, fmt.Errorf("handle %q: %w", second, err)
	}

	return &CompareResponse{
		First:          *firstProfile,
		Second:         *secondProfile,
		CommonContests: commonContests(firstProfile.RatingHistory, secondProfile.RatingHistory),
	}, nil
}

func (s *CompareService) loadProfile(ctx context.Context, handle string) (*ComparedProfile, error) {
	users, err := s.cf.UserInfo(ctx, handle)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, common.ErrNotFound
	}

	history, err := s.cf.UserRating(ctx, handle)
	if err != nil {
		return nil, err
	}
	return &ComparedProfile{Info: users[0], RatingHistory: history}, nil
}

// commonContests joins the two rating histories on contest id. Hashing the
// second history keeps this linear instead of comparing every pair; output
// preserves the first history's order.
func commonContests(first, second []codeforces.RatingChange) []CommonContest {
	secondRanks := make(map[int]codeforces.RatingChange, len(second))
	for _, change := range second {
		secondRanks[change.ContestID] = change
	}

	common := make([]CommonContest, 0)
	for _, change := range first {
		other, ok := secondRanks[change.ContestID]
		if !ok {
			continue
		}
		common = append(common, CommonContest{
			ContestID:   change.ContestID,
			ContestName: change.ContestName,
			FirstRank:   change.Rank,
			SecondRank:  other.Rank,
		})
	}
	return common
}
