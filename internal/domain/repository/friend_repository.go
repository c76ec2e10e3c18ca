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

type FriendRepository interface {
	Add(ctx context.Context, friend *model.Friend) error
	Remove(ctx context.Context, userID, handle string) error
	List(ctx context.Context, userID string) ([]model.Friend, error)
}

type pgFriendRepository struct {
	db *sql.DB
}

func NewPgFriendRepository(db *sql.DB) FriendRepository {
	return &pgFriendRepository{db: db}
}

func (r *pgFriendRepository) Add(ctx context.Context, f *model.Friend) error {
	query := `INSERT INTO friends (user_id, handle) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, f.UserID, f.Handle)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("this user is already in your friend list: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgFriendRepository.Add: %w", err)
	}
	return nil
}

func (r *pgFriendRepository) Remove(ctx context.Context, userID, handle string) error {
	query := `DELETE FROM friends WHERE user_id = $1 AND handle = $2`
	res, err := r.db.ExecContext(ctx, query, userID, handle)
	if err != nil {
		return fmt.Errorf("pgFriendRepository.Remove: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgFriendRepository) List(ctx context.Context, userID string) ([]model.Friend, error) {
	query := `SELECT user_id, handle, created_at FROM friends WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgFriendRepository.List: %w", err)
	}
	defer rows.Close()

	var friends []model.Friend
	for rows.Next() {
		var f model.Friend
		if err := rows.Scan(&f.UserID, &f.Handle, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgFriendRepository.List: %w", err)
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}
