package service

import (
	"context"
	"fmt"

	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/domain/model"
	"github.com/TLEonTestCase37/devbits/internal/domain/repository"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
	"github.com/TLEonTestCase37/devbits/internal/platform/config"
)

// ProfileService links Codeforces handles to local accounts and serves
// profile data (user info, rating history, recent submissions) from the
// Codeforces API.
type ProfileService struct {
	userRepo repository.UserRepository
	cf       *codeforces.Client
}

func NewProfileService(userRepo repository.UserRepository, cf *codeforces.Client) *ProfileService {
	return &ProfileService{userRepo: userRepo, cf: cf}
}

type LinkHandleRequest struct {
	Handle string `json:"handle"`
	Force  bool   `json:"force,omitempty"` // Relink even if a handle is already set
}

type ProfileResponse struct {
	User          *model.User               `json:"user"`
	CFUser        *codeforces.User          `json:"cf_user,omitempty"`
	RatingHistory []codeforces.RatingChange `json:"rating_history,omitempty"`
}

// LinkHandle verifies ownership of a Codeforces handle and persists it.
// Ownership proof mirrors the original product: the user must have a fresh
// WrongAnswer on the designated verification problem (1800/A by default)
// among their most recent submissions.
func (s *ProfileService) LinkHandle(ctx context.Context, userID string, req LinkHandleRequest) (*model.User, error) {
	if req.Handle == "" {
		return nil, fmt.Errorf("handle is required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Linked() && !req.Force {
		if *user.CFHandle == req.Handle {
			return user, nil
		}
		return nil, fmt.Errorf("a different handle is already linked: %w", common.ErrConflict)
	}

	cfg := config.AppConfig
	submissions, err := s.cf.UserStatus(ctx, req.Handle, 1, cfg.VerifyFetchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for %q: %w", req.Handle, err)
	}

	verified := false
	for _, sub := range submissions {
		if sub.Problem.ContestID == cfg.VerifyContestID &&
			sub.Problem.Index == cfg.VerifyProblemIdx &&
			sub.Verdict == codeforces.VerdictWrongAnswer {
			verified = true
			break
		}
	}
	if !verified {
		return nil, fmt.Errorf("no wrong submission found on %d%s among the last %d submissions: %w",
			cfg.VerifyContestID, cfg.VerifyProblemIdx, cfg.VerifyFetchCount, common.ErrValidation)
	}

	if err := s.userRepo.SetCFHandle(ctx, userID, req.Handle); err != nil {
		return nil, fmt.Errorf("failed to save handle: %w", err)
	}
	user.CFHandle = &req.Handle
	return user, nil
}

// GetProfile returns the local account together with live Codeforces data for
// the linked handle. A profile without a linked handle is still valid; the
// Codeforces sections are simply absent.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	resp := &ProfileResponse{User: user}
	if !user.Linked() {
		return resp, nil
	}

	users, err := s.cf.UserInfo(ctx, *user.CFHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cf user info: %w", err)
	}
	if len(users) > 0 {
		resp.CFUser = &users[0]
	}

	history, err := s.cf.UserRating(ctx, *user.CFHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rating history: %w", err)
	}
	resp.RatingHistory = history
	return resp, nil
}

// RecentSubmissions lists a handle's latest submissions. An empty handle
// falls back to the caller's linked handle.
func (s *ProfileService) RecentSubmissions(ctx context.Context, userID, handle string, count int) ([]codeforces.Submission, error) {
	if handle == "" {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		if !user.Linked() {
			return nil, fmt.Errorf("no handle linked and none given: %w", common.ErrBadRequest)
		}
		handle = *user.CFHandle
	}
	if count <= 0 || count > 100 {
		count = 100
	}

	submissions, err := s.cf.UserStatus(ctx, handle, 1, count)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return submissions, nil
}
