package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/domain/model"
	"github.com/TLEonTestCase37/devbits/internal/domain/repository"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
)

// FriendService maintains a user's watch list of Codeforces handles.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	cf         *codeforces.Client
}

func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, cf *codeforces.Client) *FriendService {
	return &FriendService{friendRepo: friendRepo, userRepo: userRepo, cf: cf}
}

func (s *FriendService) List(ctx context.Context, userID string) ([]model.Friend, error) {
	friends, err := s.friendRepo.List(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

// Add verifies the handle exists on Codeforces before storing it, and
// canonicalizes casing to whatever the API reports.
func (s *FriendService) Add(ctx context.Context, userID, handle string) (*model.Friend, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("handle is required: %w", common.ErrBadRequest)
	}

	users, err := s.cf.UserInfo(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("no such Codeforces handle %q: %w", handle, common.ErrBadRequest)
		}
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no such Codeforces handle %q: %w", handle, common.ErrBadRequest)
	}
	canonical := users[0].Handle

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to load user: %w", err)
	}
	if user.Linked() && strings.EqualFold(*user.CFHandle, canonical) {
		return nil, fmt.Errorf("cannot add your own handle: %w", common.ErrBadRequest)
	}

	friend := &model.Friend{UserID: userID, Handle: canonical}
	if err := s.friendRepo.Add(ctx, friend); err != nil {
		return nil, err
	}
	return friend, nil
}

func (s *FriendService) Remove(ctx context.Context, userID, handle string) error {
	if err := s.friendRepo.Remove(ctx, userID, handle); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%s is not in your friend list: %w", handle, common.ErrNotFound)
		}
		return err
	}
	return nil
}
