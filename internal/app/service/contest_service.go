package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/app/engine"
	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/domain/model"
	"github.com/TLEonTestCase37/devbits/internal/domain/repository"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ContestService owns user-created contests: authoring, registration and the
// live leaderboard. Submissions are recorded by the sync worker; standings
// are a full recompute over that snapshot on every request.
type ContestService struct {
	contestRepo repository.ContestRepository
	userRepo    repository.UserRepository
	cf          *codeforces.Client
	db          *sql.DB // For transactions
}

func NewContestService(
	contestRepo repository.ContestRepository,
	userRepo repository.UserRepository,
	cf *codeforces.Client,
	db *sql.DB,
) *ContestService {
	return &ContestService{
		contestRepo: contestRepo,
		userRepo:    userRepo,
		cf:          cf,
		db:          db,
	}
}

type CreateContestRequest struct {
	Name            string              `json:"name"`
	StartTime       time.Time           `json:"start_time"`
	DurationMinutes int                 `json:"duration_minutes"`
	Problems        []ContestProblemRef `json:"problems"`
}

type ContestProblemRef struct {
	ContestID int    `json:"contest_id"`
	Index     string `json:"index"`
}

func (s *ContestService) CreateContest(ctx context.Context, userID string, req CreateContestRequest) (*model.Contest, error) {
	if req.Name == "" || req.StartTime.IsZero() || req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("name, start_time and duration_minutes are required: %w", common.ErrBadRequest)
	}
	if len(req.Problems) == 0 {
		return nil, fmt.Errorf("a contest needs at least one problem: %w", common.ErrBadRequest)
	}

	problems, err := s.resolveProblems(ctx, req.Problems)
	if err != nil {
		return nil, err
	}

	contest := &model.Contest{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Slug:            slug.Make(req.Name),
		CreatedByID:     userID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Problems:        problems,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.contestRepo.CreateContest(ctx, tx, contest); err != nil {
		return nil, common.Errorf("failed to create contest: %w", err)
	}
	if err := s.contestRepo.AddProblems(ctx, tx, contest.ID, contest.Problems); err != nil {
		return nil, common.Errorf("failed to attach problems: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return contest, nil
}

// resolveProblems validates each requested problem against the catalog and
// carries over its name/rating so contest pages render without re-fetching.
func (s *ContestService) resolveProblems(ctx context.Context, refs []ContestProblemRef) ([]model.ContestProblem, error) {
	catalog, err := s.cf.ProblemsetProblems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch problemset: %w", err)
	}
	byKey := make(map[string]codeforces.Problem, len(catalog))
	for _, p := range catalog {
		byKey[p.ID()] = p
	}

	problems := make([]model.ContestProblem, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for i, ref := range refs {
		key := fmt.Sprintf("%d%s", ref.ContestID, ref.Index)
		if seen[key] {
			return nil, fmt.Errorf("problem %s listed twice: %w", key, common.ErrBadRequest)
		}
		seen[key] = true

		p, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("problem %s not found in the problemset: %w", key, common.ErrBadRequest)
		}
		problems = append(problems, model.ContestProblem{
			ProblemKey:  key,
			CFContestID: p.ContestID,
			CFIndex:     p.Index,
			Name:        p.Name,
			Rating:      p.Rating,
			SortOrder:   i,
		})
	}
	return problems, nil
}

func (s *ContestService) ListContests(ctx context.Context) ([]model.Contest, error) {
	contests, err := s.contestRepo.ListContests(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list contests: %w", err)
	}
	return contests, nil
}

func (s *ContestService) GetContest(ctx context.Context, slug string) (*model.Contest, error) {
	contest, err := s.contestRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, common.Errorf("failed to load contest: %w", err)
	}
	return contest, nil
}

// Register adds the caller as a participant; a verified handle is required
// since submissions are observed through the Codeforces API.
func (s *ContestService) Register(ctx context.Context, userID, slug string) (*model.ContestParticipant, error) {
	contest, err := s.contestRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, common.Errorf("failed to load contest: %w", err)
	}
	if time.Now().After(contest.EndTime()) {
		return nil, fmt.Errorf("contest is over: %w", common.ErrForbidden)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to load user: %w", err)
	}
	if !user.Linked() {
		return nil, fmt.Errorf("link a Codeforces handle before registering: %w", common.ErrValidation)
	}

	participant := &model.ContestParticipant{
		ContestID: contest.ID,
		UserID:    user.ID,
		Handle:    *user.CFHandle,
	}
	if err := s.contestRepo.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

type StandingsResponse struct {
	Contest   *model.Contest        `json:"contest"`
	Standings []engine.StandingsRow `json:"standings"`
}

// Standings loads the recorded submission snapshot and reruns the scoring
// engine over it. No incremental state is kept between calls.
func (s *ContestService) Standings(ctx context.Context, slug string) (*StandingsResponse, error) {
	contest, err := s.contestRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, common.Errorf("failed to load contest: %w", err)
	}

	submissions, err := s.contestRepo.ListSubmissions(ctx, contest.ID)
	if err != nil {
		return nil, common.Errorf("failed to load submissions: %w", err)
	}

	events := make([]engine.SubmissionEvent, 0, len(submissions))
	for _, sub := range submissions {
		events = append(events, engine.SubmissionEvent{
			UserID:      sub.UserID,
			UserName:    sub.Handle,
			ProblemID:   sub.ProblemKey,
			Verdict:     verdictFromCF(sub.Verdict),
			SubmittedAt: sub.SubmittedAt,
		})
	}

	rows := engine.ComputeStandings(events, engine.ContestContext{StartTime: contest.StartTime})
	return &StandingsResponse{Contest: contest, Standings: rows}, nil
}
