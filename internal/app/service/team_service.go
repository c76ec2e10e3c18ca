package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/domain/model"
	"github.com/TLEonTestCase37/devbits/internal/domain/repository"

	"github.com/google/uuid"
)

// TeamService manages practice teams. Membership is invite-by-code: the
// leader shares the join code out of band.
type TeamService struct {
	teamRepo repository.TeamRepository
	db       *sql.DB // For transactions
}

func NewTeamService(teamRepo repository.TeamRepository, db *sql.DB) *TeamService {
	return &TeamService{teamRepo: teamRepo, db: db}
}

func (s *TeamService) Create(ctx context.Context, leaderID, name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team name is required: %w", common.ErrBadRequest)
	}

	id := uuid.NewString()
	team := &model.Team{
		ID:       id,
		Name:     name,
		LeaderID: leaderID,
		JoinCode: strings.ToUpper(id[:8]),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.teamRepo.Create(ctx, tx, team); err != nil {
		return nil, err
	}
	if err := s.teamRepo.AddMember(ctx, tx, team.ID, leaderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return s.teamRepo.FindByID(ctx, team.ID)
}

func (s *TeamService) Join(ctx context.Context, userID, joinCode string) (*model.Team, error) {
	joinCode = strings.ToUpper(strings.TrimSpace(joinCode))
	if joinCode == "" {
		return nil, fmt.Errorf("join code is required: %w", common.ErrBadRequest)
	}

	team, err := s.teamRepo.FindByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, common.Errorf("failed to find team: %w", err)
	}
	if err := s.teamRepo.AddMember(ctx, nil, team.ID, userID); err != nil {
		return nil, err
	}
	return s.teamRepo.FindByID(ctx, team.ID)
}

// Leave removes the caller from the team. The leader cannot leave their own
// team; they delete it instead.
func (s *TeamService) Leave(ctx context.Context, userID, teamID string) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return common.Errorf("failed to load team: %w", err)
	}
	if team.LeaderID == userID {
		return fmt.Errorf("the leader cannot leave the team, delete it instead: %w", common.ErrForbidden)
	}
	return s.teamRepo.RemoveMember(ctx, teamID, userID)
}

func (s *TeamService) Delete(ctx context.Context, userID, teamID string) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return common.Errorf("failed to load team: %w", err)
	}
	if team.LeaderID != userID {
		return fmt.Errorf("only the team leader can delete the team: %w", common.ErrForbidden)
	}
	return s.teamRepo.Delete(ctx, teamID)
}

func (s *TeamService) ListMine(ctx context.Context, userID string) ([]model.Team, error) {
	teams, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}
