package worker

import (
	"context"
	"log"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/domain/model"
	"github.com/TLEonTestCase37/devbits/internal/domain/repository"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
	"github.com/TLEonTestCase37/devbits/internal/platform/config"

	"github.com/google/uuid"
)

// SyncWorker runs the two periodic jobs: refreshing the cached problemset
// catalog, and pulling participants' Codeforces submissions for contests
// whose scoring window is open.
type SyncWorker struct {
	cf          *codeforces.Client
	contestRepo repository.ContestRepository
}

func NewSyncWorker(cf *codeforces.Client, contestRepo repository.ContestRepository) *SyncWorker {
	return &SyncWorker{cf: cf, contestRepo: contestRepo}
}

// RefreshCatalog re-fetches problemset.problems and rewrites the cache entry.
func (w *SyncWorker) RefreshCatalog(ctx context.Context) {
	problems, err := w.cf.RefreshProblemset(ctx)
	if err != nil {
		log.Printf("ERROR: [SYNC] catalog refresh failed: %v", err)
		return
	}
	log.Printf("INFO: [SYNC] catalog refreshed, %d problems", len(problems))
}

// SyncActiveContests walks every contest whose window (plus the grace period
// for late verdicts) contains now, and records each participant's recent
// submissions against the contest's problems.
func (w *SyncWorker) SyncActiveContests(ctx context.Context) {
	now := time.Now()
	contests, err := w.contestRepo.ListActive(ctx, now, config.AppConfig.ContestSyncGrace)
	if err != nil {
		log.Printf("ERROR: [SYNC] failed to list active contests: %v", err)
		return
	}

	for i := range contests {
		if err := w.syncContest(ctx, &contests[i]); err != nil {
			log.Printf("ERROR: [SYNC] contest %s: %v", contests[i].Slug, err)
		}
	}
}

func (w *SyncWorker) syncContest(ctx context.Context, contest *model.Contest) error {
	problemKeys := make(map[string]bool, len(contest.Problems))
	for _, p := range contest.Problems {
		problemKeys[p.ProblemKey] = true
	}

	participants, err := w.contestRepo.ListParticipants(ctx, contest.ID)
	if err != nil {
		return err
	}

	end := contest.EndTime()
	for _, p := range participants {
		// Bypass the cached user.status entry: we need fresh verdicts while
		// the contest is live.
		w.cf.InvalidateUserStatus(ctx, p.Handle)
		subs, err := w.cf.UserStatus(ctx, p.Handle, 1, 50)
		if err != nil {
			log.Printf("WARN: [SYNC] failed to fetch submissions for %s: %v", p.Handle, err)
			continue
		}

		for _, sub := range subs {
			if !problemKeys[sub.Problem.ID()] {
				continue
			}
			submittedAt := time.Unix(sub.CreationTimeSeconds, 0)
			if submittedAt.Before(contest.StartTime) || submittedAt.After(end) {
				continue
			}
			record := &model.ContestSubmission{
				ID:             uuid.NewString(),
				ContestID:      contest.ID,
				UserID:         p.UserID,
				Handle:         p.Handle,
				ProblemKey:     sub.Problem.ID(),
				Verdict:        sub.Verdict,
				SubmittedAt:    submittedAt,
				CFSubmissionID: sub.ID,
			}
			if err := w.contestRepo.UpsertSubmission(ctx, record); err != nil {
				log.Printf("WARN: [SYNC] failed to record submission %d for %s: %v", sub.ID, p.Handle, err)
			}
		}
	}
	return nil
}
