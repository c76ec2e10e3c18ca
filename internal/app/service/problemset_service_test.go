package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/platform/codeforces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogServer(t *testing.T, problems []codeforces.Problem) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/problemset.problems", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "OK",
			"result": map[string]interface{}{"problems": problems},
		})
	}))
}

func TestListProblems_FilterAndOrder(t *testing.T) {
	srv := catalogServer(t, []codeforces.Problem{
		{ContestID: 100, Index: "B", Name: "Old B", Rating: 1200, Tags: []string{"dp"}},
		{ContestID: 200, Index: "A", Name: "New A", Rating: 800, Tags: []string{"greedy", "math"}},
		{ContestID: 200, Index: "B", Name: "New B", Rating: 1600, Tags: []string{"dp", "math"}},
		{ContestID: 150, Index: "A", Name: "Mid A", Rating: 2400, Tags: []string{"dp"}},
	})
	defer srv.Close()

	svc := NewProblemsetService(nil, codeforces.NewClient(srv.URL, time.Second, nil, 0))

	page, err := svc.ListProblems(context.Background(), "", ProblemFilter{
		Tags:      []string{"dp"},
		MinRating: 1000,
		MaxRating: 2000,
	})
	require.NoError(t, err)
	require.Len(t, page.Problems, 2)

	// Newest contest first.
	assert.Equal(t, "New B", page.Problems[0].Name)
	assert.Equal(t, "Old B", page.Problems[1].Name)
	assert.Equal(t, 2, page.Total)
}

func TestListProblems_Pagination(t *testing.T) {
	problems := make([]codeforces.Problem, 0, 5)
	for i := 0; i < 5; i++ {
		problems = append(problems, codeforces.Problem{ContestID: 100 + i, Index: "A", Rating: 1000})
	}
	srv := catalogServer(t, problems)
	defer srv.Close()

	svc := NewProblemsetService(nil, codeforces.NewClient(srv.URL, time.Second, nil, 0))

	page, err := svc.ListProblems(context.Background(), "", ProblemFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Problems, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)

	// Past the end: empty slice, not an error.
	page, err = svc.ListProblems(context.Background(), "", ProblemFilter{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Problems)
}

func TestHasAllTags(t *testing.T) {
	tags := []string{"dp", "math", "greedy"}

	assert.True(t, hasAllTags(tags, nil))
	assert.True(t, hasAllTags(tags, []string{"dp", "greedy"}))
	assert.False(t, hasAllTags(tags, []string{"dp", "graphs"}))
	assert.False(t, hasAllTags(nil, []string{"dp"}))
}

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, size)

	page, size = normalizePage(3, 250)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, size)

	page, size = normalizePage(2, 20)
	assert.Equal(t, 2, page)
	assert.Equal(t, 20, size)
}
