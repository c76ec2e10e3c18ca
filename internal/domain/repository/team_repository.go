package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type TeamRepository interface {
	Create(ctx context.Context, tx *sql.Tx, team *model.Team) error
	FindByID(ctx context.Context, id string) (*model.Team, error)
	FindByJoinCode(ctx context.Context, code string) (*model.Team, error)
	ListByUser(ctx context.Context, userID string) ([]model.Team, error)
	AddMember(ctx context.Context, tx *sql.Tx, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	Delete(ctx context.Context, teamID string) error
}

type pgTeamRepository struct {
	db *sql.DB
}

func NewPgTeamRepository(db *sql.DB) TeamRepository {
	return &pgTeamRepository{db: db}
}

func (r *pgTeamRepository) Create(ctx context.Context, tx *sql.Tx, t *model.Team) error {
	query := `INSERT INTO teams (id, name, leader_id, join_code) VALUES ($1, $2, $3, $4)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, t.ID, t.Name, t.LeaderID, t.JoinCode)
	} else {
		_, err = r.db.ExecContext(ctx, query, t.ID, t.Name, t.LeaderID, t.JoinCode)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // join_code collision
			return fmt.Errorf("team join code collision: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTeamRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTeamRepository) FindByID(ctx context.Context, id string) (*model.Team, error) {
	return r.findBy(ctx, "id", id)
}

func (r *pgTeamRepository) FindByJoinCode(ctx context.Context, code string) (*model.Team, error) {
	return r.findBy(ctx, "join_code", code)
}

func (r *pgTeamRepository) findBy(ctx context.Context, column, value string) (*model.Team, error) {
	query := fmt.Sprintf(`SELECT id, name, leader_id, join_code, created_at FROM teams WHERE %s = $1`, column)
	team := &model.Team{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&team.ID, &team.Name, &team.LeaderID, &team.JoinCode, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTeamRepository.findBy(%s): %w", column, err)
	}

	members, err := r.membersFor(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}

func (r *pgTeamRepository) ListByUser(ctx context.Context, userID string) ([]model.Team, error) {
	query := `SELECT t.id, t.name, t.leader_id, t.join_code, t.created_at
	          FROM teams t
	          JOIN team_members m ON m.team_id = t.id
	          WHERE m.user_id = $1
	          ORDER BY t.created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgTeamRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.LeaderID, &t.JoinCode, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTeamRepository.ListByUser: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range teams {
		members, err := r.membersFor(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Members = members
	}
	return teams, nil
}

func (r *pgTeamRepository) membersFor(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	query := `SELECT m.team_id, m.user_id, u.username, m.joined_at
	          FROM team_members m
	          JOIN users u ON u.id = m.user_id
	          WHERE m.team_id = $1
	          ORDER BY m.joined_at`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("pgTeamRepository.membersFor: %w", err)
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		var m model.TeamMember
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Username, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("pgTeamRepository.membersFor: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgTeamRepository) AddMember(ctx context.Context, tx *sql.Tx, teamID, userID string) error {
	query := `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, teamID, userID)
	} else {
		_, err = r.db.ExecContext(ctx, query, teamID, userID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("you are already a member of this team: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTeamRepository.AddMember: %w", err)
	}
	return nil
}

func (r *pgTeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	query := `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return fmt.Errorf("pgTeamRepository.RemoveMember: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTeamRepository) Delete(ctx context.Context, teamID string) error {
	query := `DELETE FROM teams WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, teamID)
	if err != nil {
		return fmt.Errorf("pgTeamRepository.Delete: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
