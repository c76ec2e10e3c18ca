package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/domain/model"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
	"github.com/TLEonTestCase37/devbits/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContestRepo struct {
	active       []model.Contest
	participants []model.ContestParticipant
	recorded     []model.ContestSubmission
}

func (f *fakeContestRepo) CreateContest(ctx context.Context, tx *sql.Tx, c *model.Contest) error {
	return nil
}
func (f *fakeContestRepo) AddProblems(ctx context.Context, tx *sql.Tx, contestID string, problems []model.ContestProblem) error {
	return nil
}
func (f *fakeContestRepo) ListContests(ctx context.Context) ([]model.Contest, error) { return nil, nil }
func (f *fakeContestRepo) FindBySlug(ctx context.Context, slug string) (*model.Contest, error) {
	return nil, nil
}
func (f *fakeContestRepo) ListActive(ctx context.Context, now time.Time, grace time.Duration) ([]model.Contest, error) {
	return f.active, nil
}
func (f *fakeContestRepo) AddParticipant(ctx context.Context, p *model.ContestParticipant) error {
	return nil
}
func (f *fakeContestRepo) ListParticipants(ctx context.Context, contestID string) ([]model.ContestParticipant, error) {
	return f.participants, nil
}
func (f *fakeContestRepo) UpsertSubmission(ctx context.Context, s *model.ContestSubmission) error {
	f.recorded = append(f.recorded, *s)
	return nil
}
func (f *fakeContestRepo) ListSubmissions(ctx context.Context, contestID string) ([]model.ContestSubmission, error) {
	return f.recorded, nil
}

func TestSyncActiveContests_WindowAndProblemFilter(t *testing.T) {
	config.Load()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	subs := []codeforces.Submission{
		// In window, on a contest problem: recorded.
		{ID: 1, ContestID: 1800, CreationTimeSeconds: start.Add(10 * time.Minute).Unix(),
			Problem: codeforces.Problem{ContestID: 1800, Index: "A"}, Verdict: codeforces.VerdictOK},
		// In window but not a contest problem: skipped.
		{ID: 2, ContestID: 999, CreationTimeSeconds: start.Add(15 * time.Minute).Unix(),
			Problem: codeforces.Problem{ContestID: 999, Index: "C"}, Verdict: codeforces.VerdictOK},
		// Before the contest started: skipped.
		{ID: 3, ContestID: 1800, CreationTimeSeconds: start.Add(-5 * time.Minute).Unix(),
			Problem: codeforces.Problem{ContestID: 1800, Index: "A"}, Verdict: codeforces.VerdictWrongAnswer},
		// After the contest ended: skipped.
		{ID: 4, ContestID: 1800, CreationTimeSeconds: start.Add(3 * time.Hour).Unix(),
			Problem: codeforces.Problem{ContestID: 1800, Index: "A"}, Verdict: codeforces.VerdictOK},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user.status", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "OK", "result": subs})
	}))
	defer srv.Close()

	repo := &fakeContestRepo{
		active: []model.Contest{{
			ID:              "c1",
			Slug:            "weekly-1",
			StartTime:       start,
			DurationMinutes: 120,
			Problems:        []model.ContestProblem{{ProblemKey: "1800A", CFContestID: 1800, CFIndex: "A"}},
		}},
		participants: []model.ContestParticipant{{ContestID: "c1", UserID: "u1", Handle: "tourist"}},
	}

	w := NewSyncWorker(codeforces.NewClient(srv.URL, time.Second, nil, 0), repo)
	w.SyncActiveContests(context.Background())

	require.Len(t, repo.recorded, 1)
	got := repo.recorded[0]
	assert.Equal(t, "1800A", got.ProblemKey)
	assert.Equal(t, int64(1), got.CFSubmissionID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "tourist", got.Handle)
	assert.Equal(t, codeforces.VerdictOK, got.Verdict)
	assert.NotEmpty(t, got.ID)
}
