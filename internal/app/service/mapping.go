package service

import (
	"github.com/TLEonTestCase37/devbits/internal/app/engine"
	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"
)

// verdictFromCF collapses the Codeforces verdict vocabulary into the three
// classes the engines score on.
func verdictFromCF(verdict string) engine.Verdict {
	switch verdict {
	case codeforces.VerdictOK:
		return engine.VerdictAccepted
	case codeforces.VerdictWrongAnswer:
		return engine.VerdictWrongAnswer
	default:
		return engine.VerdictOther
	}
}

func problemRefFromCF(p codeforces.Problem) engine.ProblemRef {
	return engine.ProblemRef{
		ContestID: p.ContestID,
		Index:     p.Index,
		Name:      p.Name,
		Rating:    p.Rating,
		Tags:      p.Tags,
	}
}

func catalogFromCF(problems []codeforces.Problem) []engine.ProblemRef {
	catalog := make([]engine.ProblemRef, 0, len(problems))
	for _, p := range problems {
		catalog = append(catalog, problemRefFromCF(p))
	}
	return catalog
}

func historyFromCF(submissions []codeforces.Submission) []engine.HistoryEntry {
	history := make([]engine.HistoryEntry, 0, len(submissions))
	for _, s := range submissions {
		history = append(history, engine.HistoryEntry{
			Problem: problemRefFromCF(s.Problem),
			Verdict: verdictFromCF(s.Verdict),
		})
	}
	return history
}
