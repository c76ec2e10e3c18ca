package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/TLEonTestCase37/devbits/internal/app/engine"
	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/domain/model"
	"github.com/TLEonTestCase37/devbits/internal/domain/repository"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
	"github.com/TLEonTestCase37/devbits/internal/platform/config"
)

// PracticeService feeds the practice page: the user's wrong-answer
// distribution and problem suggestions derived from it.
type PracticeService struct {
	userRepo repository.UserRepository
	cf       *codeforces.Client
}

func NewPracticeService(userRepo repository.UserRepository, cf *codeforces.Client) *PracticeService {
	return &PracticeService{userRepo: userRepo, cf: cf}
}

type WrongAnswerDistribution struct {
	ByTag    map[string]int `json:"by_tag"`
	ByRating map[int]int    `json:"by_rating"`
	Total    int            `json:"total"`
}

// Distribution returns the chart data for the practice page.
func (s *PracticeService) Distribution(ctx context.Context, userID string) (*WrongAnswerDistribution, error) {
	profile, err := s.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WrongAnswerDistribution{
		ByTag:    profile.CountByTag,
		ByRating: profile.CountByRating,
		Total:    profile.TotalWrong(),
	}, nil
}

// Suggest returns up to limit unsolved problems weighted by the caller's
// wrong-answer history, using the "tags" or "rating" strategy.
func (s *PracticeService) Suggest(ctx context.Context, userID, strategy string, limit int) ([]engine.ProblemRef, error) {
	maxLimit := config.AppConfig.SuggestionLimit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	profile, err := s.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	problems, err := s.cf.ProblemsetProblems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch problemset: %w", err)
	}
	catalog := catalogFromCF(problems)

	switch strings.ToLower(strategy) {
	case "", "tags":
		return engine.SuggestByTag(*profile, catalog, limit), nil
	case "rating":
		return engine.SuggestByRating(*profile, catalog, limit), nil
	default:
		return nil, fmt.Errorf("strategy must be 'tags' or 'rating': %w", common.ErrBadRequest)
	}
}

func (s *PracticeService) buildProfile(ctx context.Context, userID string) (*engine.WrongAnswerProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.Linked() {
		return nil, fmt.Errorf("link a Codeforces handle first: %w", common.ErrValidation)
	}
	return s.profileForHandle(ctx, user)
}

func (s *PracticeService) profileForHandle(ctx context.Context, user *model.User) (*engine.WrongAnswerProfile, error) {
	submissions, err := s.cf.UserStatus(ctx, *user.CFHandle, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submission history: %w", err)
	}
	profile := engine.BuildWrongAnswerProfile(historyFromCF(submissions))
	return &profile, nil
}
