package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/domain/repository"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
)

// ProblemsetService serves the browsable Codeforces catalog: the filtered
// problem list and the upcoming/past contest list.
type ProblemsetService struct {
	userRepo repository.UserRepository
	cf       *codeforces.Client
}

func NewProblemsetService(userRepo repository.UserRepository, cf *codeforces.Client) *ProblemsetService {
	return &ProblemsetService{userRepo: userRepo, cf: cf}
}

type ProblemFilter struct {
	Tags      []string
	MinRating int
	MaxRating int
	Page      int
	PageSize  int
}

// AnnotatedProblem is a catalog problem plus the caller's own status with it.
type AnnotatedProblem struct {
	codeforces.Problem
	Solved         bool `json:"solved,omitempty"`
	WrongAttempted bool `json:"wrong_attempted,omitempty"`
}

type ProblemPage struct {
	Problems []AnnotatedProblem `json:"problems"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// ListProblems filters the catalog to problems carrying every requested tag
// and a rating inside [MinRating, MaxRating], newest contest first. When
// userID belongs to a linked account, each problem is annotated with the
// caller's solved / wrong-attempted status.
func (s *ProblemsetService) ListProblems(ctx context.Context, userID string, filter ProblemFilter) (*ProblemPage, error) {
	catalog, err := s.cf.ProblemsetProblems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch problemset: %w", err)
	}

	solved, wrong := s.userProblemStatus(ctx, userID)

	filtered := make([]AnnotatedProblem, 0)
	for _, p := range catalog {
		if !hasAllTags(p.Tags, filter.Tags) {
			continue
		}
		if filter.MinRating > 0 && p.Rating < filter.MinRating {
			continue
		}
		if filter.MaxRating > 0 && p.Rating > filter.MaxRating {
			continue
		}
		filtered = append(filtered, AnnotatedProblem{
			Problem:        p,
			Solved:         solved[p.ID()],
			WrongAttempted: wrong[p.ID()],
		})
	}

	// Higher contest id first (newer), then index; matches the original UI.
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].ContestID != filtered[j].ContestID {
			return filtered[i].ContestID > filtered[j].ContestID
		}
		return filtered[i].Index < filtered[j].Index
	})

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &ProblemPage{
		Problems: filtered[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

type ContestPage struct {
	Contests []codeforces.Contest `json:"contests"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// ListContests returns Codeforces contests in the requested phase: upcoming
// contests soonest first, finished contests most recent first.
func (s *ProblemsetService) ListContests(ctx context.Context, phase string, page, pageSize int) (*ContestPage, error) {
	upcoming := true
	switch strings.ToLower(phase) {
	case "", "upcoming":
	case "past":
		upcoming = false
	default:
		return nil, fmt.Errorf("phase must be 'upcoming' or 'past': %w", common.ErrBadRequest)
	}

	all, err := s.cf.ContestList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contest list: %w", err)
	}

	want := codeforces.PhaseBefore
	if !upcoming {
		want = codeforces.PhaseFinished
	}
	filtered := make([]codeforces.Contest, 0)
	for _, c := range all {
		if c.Phase == want {
			filtered = append(filtered, c)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if upcoming {
			return filtered[i].StartTimeSeconds < filtered[j].StartTimeSeconds
		}
		return filtered[i].StartTimeSeconds > filtered[j].StartTimeSeconds
	})

	page, pageSize = normalizePage(page, pageSize)
	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &ContestPage{
		Contests: filtered[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// userProblemStatus returns the solved and wrong-attempted problem key sets
// for the user's linked handle. Anonymous callers, unlinked accounts and
// upstream failures all degrade to empty annotations rather than failing the
// whole listing.
func (s *ProblemsetService) userProblemStatus(ctx context.Context, userID string) (solved, wrong map[string]bool) {
	solved = map[string]bool{}
	wrong = map[string]bool{}
	if userID == "" {
		return solved, wrong
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || !user.Linked() {
		return solved, wrong
	}
	submissions, err := s.cf.UserStatus(ctx, *user.CFHandle, 0, 0)
	if err != nil {
		return solved, wrong
	}

	for _, sub := range submissions {
		switch sub.Verdict {
		case codeforces.VerdictOK:
			solved[sub.Problem.ID()] = true
		case codeforces.VerdictWrongAnswer:
			wrong[sub.Problem.ID()] = true
		}
	}
	return solved, wrong
}

func hasAllTags(problemTags, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	set := make(map[string]bool, len(problemTags))
	for _, tag := range problemTags {
		set[tag] = true
	}
	for _, tag := range wanted {
		if !set[tag] {
			return false
		}
	}
	return true
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
