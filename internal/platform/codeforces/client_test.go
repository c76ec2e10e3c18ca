package codeforces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil, 0)
}

func TestUserInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user.info", r.URL.Path)
		assert.Equal(t, "tourist;petr", r.URL.Query().Get("handles"))
		w.Write([]byte(`{"status":"OK","result":[
			{"handle":"tourist","rating":3850,"maxRating":4009,"rank":"legendary grandmaster"},
			{"handle":"Petr","rating":3500,"maxRating":3743,"rank":"legendary grandmaster"}
		]}`))
	})

	users, err := client.UserInfo(context.Background(), "tourist", "petr")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "tourist", users[0].Handle)
	assert.Equal(t, 3850, users[0].Rating)
}

func TestUserStatus_Pagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user.status", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("from"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		w.Write([]byte(`{"status":"OK","result":[
			{"id":10,"contestId":1800,"creationTimeSeconds":1700000000,
			 "problem":{"contestId":1800,"index":"A","name":"Is It Rated?","rating":800,"tags":["implementation"]},
			 "verdict":"WRONG_ANSWER"}
		]}`))
	})

	subs, err := client.UserStatus(context.Background(), "someone", 1, 5)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, VerdictWrongAnswer, subs[0].Verdict)
	assert.Equal(t, "1800A", subs[0].Problem.ID())
}

func TestProblemsetProblems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/problemset.problems", r.URL.Path)
		w.Write([]byte(`{"status":"OK","result":{"problems":[
			{"contestId":1,"index":"A","name":"Theatre Square","rating":1000,"tags":["math"]}
		],"problemStatistics":[]}}`))
	})

	problems, err := client.ProblemsetProblems(context.Background())
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "Theatre Square", problems[0].Name)
	assert.Equal(t, []string{"math"}, problems[0].Tags)
}

func TestFailedStatusMapsToUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"FAILED","comment":"handles: Field should not be empty"}`))
	})

	_, err := client.UserRating(context.Background(), "whoever")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
}

func TestUnknownHandleMapsToNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"FAILED","comment":"handles: User with handle ghost not found"}`))
	})

	_, err := client.UserInfo(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
