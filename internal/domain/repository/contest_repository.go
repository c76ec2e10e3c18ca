package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/common"
	"github.com/TLEonTestCase37/devbits/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ContestRepository interface {
	CreateContest(ctx context.Context, tx *sql.Tx, contest *model.Contest) error
	AddProblems(ctx context.Context, tx *sql.Tx, contestID string, problems []model.ContestProblem) error
	ListContests(ctx context.Context) ([]model.Contest, error)
	FindBySlug(ctx context.Context, slug string) (*model.Contest, error)
	ListActive(ctx context.Context, now time.Time, grace time.Duration) ([]model.Contest, error)

	AddParticipant(ctx context.Context, participant *model.ContestParticipant) error
	ListParticipants(ctx context.Context, contestID string) ([]model.ContestParticipant, error)

	UpsertSubmission(ctx context.Context, submission *model.ContestSubmission) error
	ListSubmissions(ctx context.Context, contestID string) ([]model.ContestSubmission, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

func (r *pgContestRepository) CreateContest(ctx context.Context, tx *sql.Tx, c *model.Contest) error {
	query := `INSERT INTO contests (id, name, slug, created_by, start_time, duration_minutes)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.CreatedByID, c.StartTime, c.DurationMinutes)
	} else {
		_, err = r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.CreatedByID, c.StartTime, c.DurationMinutes)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("contest with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgContestRepository.CreateContest: %w", err)
	}
	return nil
}

func (r *pgContestRepository) AddProblems(ctx context.Context, tx *sql.Tx, contestID string, problems []model.ContestProblem) error {
	query := `INSERT INTO contest_problems (contest_id, problem_key, cf_contest_id, cf_index, name, rating, sort_order)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, p := range problems {
		var err error
		if tx != nil {
			_, err = tx.ExecContext(ctx, query, contestID, p.ProblemKey, p.CFContestID, p.CFIndex, p.Name, p.Rating, p.SortOrder)
		} else {
			_, err = r.db.ExecContext(ctx, query, contestID, p.ProblemKey, p.CFContestID, p.CFIndex, p.Name, p.Rating, p.SortOrder)
		}
		if err != nil {
			return fmt.Errorf("pgContestRepository.AddProblems: %w", err)
		}
	}
	return nil
}

func (r *pgContestRepository) ListContests(ctx context.Context) ([]model.Contest, error) {
	query := `SELECT id, name, slug, created_by, start_time, duration_minutes, created_at
	          FROM contests ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListContests: %w", err)
	}
	defer rows.Close()

	return scanContests(rows)
}

func (r *pgContestRepository) FindBySlug(ctx context.Context, slug string) (*model.Contest, error) {
	query := `SELECT id, name, slug, created_by, start_time, duration_minutes, created_at
	          FROM contests WHERE slug = $1`
	contest := &model.Contest{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&contest.ID, &contest.Name, &contest.Slug, &contest.CreatedByID,
		&contest.StartTime, &contest.DurationMinutes, &contest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.FindBySlug: %w", err)
	}

	problems, err := r.problemsFor(ctx, contest.ID)
	if err != nil {
		return nil, err
	}
	contest.Problems = problems
	return contest, nil
}

// ListActive returns contests whose scoring window (extended by grace for
// late-arriving verdicts) contains now.
func (r *pgContestRepository) ListActive(ctx context.Context, now time.Time, grace time.Duration) ([]model.Contest, error) {
	query := `SELECT id, name, slug, created_by, start_time, duration_minutes, created_at
	          FROM contests
	          WHERE start_time <= $1
	            AND start_time + (duration_minutes * interval '1 minute') + $2 * interval '1 second' >= $1`
	rows, err := r.db.QueryContext(ctx, query, now, int(grace.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListActive: %w", err)
	}
	defer rows.Close()

	contests, err := scanContests(rows)
	if err != nil {
		return nil, err
	}
	for i := range contests {
		problems, err := r.problemsFor(ctx, contests[i].ID)
		if err != nil {
			return nil, err
		}
		contests[i].Problems = problems
	}
	return contests, nil
}

func (r *pgContestRepository) problemsFor(ctx context.Context, contestID string) ([]model.ContestProblem, error) {
	query := `SELECT contest_id, problem_key, cf_contest_id, cf_index, name, rating, sort_order
	          FROM contest_problems WHERE contest_id = $1 ORDER BY sort_order`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.problemsFor: %w", err)
	}
	defer rows.Close()

	var problems []model.ContestProblem
	for rows.Next() {
		var p model.ContestProblem
		if err := rows.Scan(&p.ContestID, &p.ProblemKey, &p.CFContestID, &p.CFIndex, &p.Name, &p.Rating, &p.SortOrder); err != nil {
			return nil, fmt.Errorf("pgContestRepository.problemsFor: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

func (r *pgContestRepository) AddParticipant(ctx context.Context, p *model.ContestParticipant) error {
	query := `INSERT INTO contest_participants (contest_id, user_id, handle)
	          VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, p.ContestID, p.UserID, p.Handle)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("already registered for this contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgContestRepository.AddParticipant: %w", err)
	}
	return nil
}

func (r *pgContestRepository) ListParticipants(ctx context.Context, contestID string) ([]model.ContestParticipant, error) {
	query := `SELECT contest_id, user_id, handle, registered_at
	          FROM contest_participants WHERE contest_id = $1 ORDER BY registered_at`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListParticipants: %w", err)
	}
	defer rows.Close()

	var participants []model.ContestParticipant
	for rows.Next() {
		var p model.ContestParticipant
		if err := rows.Scan(&p.ContestID, &p.UserID, &p.Handle, &p.RegisteredAt); err != nil {
			return nil, fmt.Errorf("pgContestRepository.ListParticipants: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// UpsertSubmission records a synced Codeforces submission; re-observing the
// same cf submission id is a no-op so the poll loop stays idempotent.
func (r *pgContestRepository) UpsertSubmission(ctx context.Context, s *model.ContestSubmission) error {
	query := `INSERT INTO contest_submissions (id, contest_id, user_id, handle, problem_key, verdict, submitted_at, cf_submission_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (contest_id, cf_submission_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.ContestID, s.UserID, s.Handle, s.ProblemKey, s.Verdict, s.SubmittedAt, s.CFSubmissionID)
	if err != nil {
		return fmt.Errorf("pgContestRepository.UpsertSubmission: %w", err)
	}
	return nil
}

func (r *pgContestRepository) ListSubmissions(ctx context.Context, contestID string) ([]model.ContestSubmission, error) {
	query := `SELECT s.id, s.contest_id, s.user_id, s.handle, s.problem_key, s.verdict, s.submitted_at, s.cf_submission_id
	          FROM contest_submissions s
	          WHERE s.contest_id = $1
	          ORDER BY s.submitted_at, s.cf_submission_id`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListSubmissions: %w", err)
	}
	defer rows.Close()

	var submissions []model.ContestSubmission
	for rows.Next() {
		var s model.ContestSubmission
		if err := rows.Scan(&s.ID, &s.ContestID, &s.UserID, &s.Handle, &s.ProblemKey, &s.Verdict, &s.SubmittedAt, &s.CFSubmissionID); err != nil {
			return nil, fmt.Errorf("pgContestRepository.ListSubmissions: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func scanContests(rows *sql.Rows) ([]model.Contest, error) {
	var contests []model.Contest
	for rows.Next() {
		var c model.Contest
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedByID, &c.StartTime, &c.DurationMinutes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanContests: %w", err)
		}
		contests = append(contests, c)
	}
	return contests, rows.Err()
}
