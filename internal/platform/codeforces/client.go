// Package codeforces is a read-only client for the public Codeforces REST
// API, with optional redis caching of responses so every dashboard page does
// not hammer the upstream.
package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/common"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	rdb        *redis.Client // nil disables caching
	cacheTTL   time.Duration
}

func NewClient(baseURL string, timeout time.Duration, rdb *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		rdb:        rdb,
		cacheTTL:   cacheTTL,
	}
}

// envelope is the standard Codeforces API response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

func (c *Client) UserInfo(ctx context.Context, handles ...string) ([]User, error) {
	if len(handles) == 0 {
		return nil, fmt.Errorf("at least one handle required: %w", common.ErrBadRequest)
	}
	params := url.Values{}
	params.Set("handles", strings.Join(handles, ";"))

	var users []User
	key := "cf:user.info:" + strings.ToLower(strings.Join(handles, ";"))
	if err := c.getResult(ctx, "user.info", params, key, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserStatus returns a handle's submissions, most recent first. from is
// 1-based; from/count of zero fetch the full history.
func (c *Client) UserStatus(ctx context.Context, handle string, from, count int) ([]Submission, error) {
	if handle == "" {
		return nil, fmt.Errorf("handle required: %w", common.ErrBadRequest)
	}
	params := url.Values{}
	params.Set("handle", handle)
	key := "cf:user.status:" + strings.ToLower(handle)
	if from > 0 {
		params.Set("from", strconv.Itoa(from))
		key += ":" + strconv.Itoa(from)
	}
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
		key += ":" + strconv.Itoa(count)
	}

	var submissions []Submission
	if err := c.getResult(ctx, "user.status", params, key, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (c *Client) UserRating(ctx context.Context, handle string) ([]RatingChange, error) {
	if handle == "" {
		return nil, fmt.Errorf("handle required: %w", common.ErrBadRequest)
	}
	params := url.Values{}
	params.Set("handle", handle)

	var changes []RatingChange
	if err := c.getResult(ctx, "user.rating", params, "cf:user.rating:"+strings.ToLower(handle), &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

func (c *Client) ProblemsetProblems(ctx context.Context) ([]Problem, error) {
	var result problemsetResult
	if err := c.getResult(ctx, "problemset.problems", url.Values{}, "cf:problemset.problems", &result); err != nil {
		return nil, err
	}
	return result.Problems, nil
}

func (c *Client) ContestList(ctx context.Context) ([]Contest, error) {
	var contests []Contest
	if err := c.getResult(ctx, "contest.list", url.Values{}, "cf:contest.list", &contests); err != nil {
		return nil, err
	}
	return contests, nil
}

// RefreshProblemset bypasses the cache and rewrites the cached catalog; the
// background sync job uses it so interactive reads stay warm.
func (c *Client) RefreshProblemset(ctx context.Context) ([]Problem, error) {
	raw, err := c.fetch(ctx, "problemset.problems", url.Values{})
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, "cf:problemset.problems", raw)

	var result problemsetResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("codeforces.RefreshProblemset: %w", err)
	}
	return result.Problems, nil
}

// InvalidateUserStatus drops cached submission history for a handle, used by
// the contest sync loop which needs fresh verdicts during a live contest.
func (c *Client) InvalidateUserStatus(ctx context.Context, handle string) {
	if c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, "cf:user.status:"+strings.ToLower(handle)+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}

func (c *Client) getResult(ctx context.Context, method string, params url.Values, cacheKey string, out interface{}) error {
	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			if err := json.Unmarshal(cached, out); err == nil {
				return nil
			}
			// Corrupt cache entry: fall through to a live fetch.
			c.rdb.Del(ctx, cacheKey)
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: redis read for %s failed: %v", cacheKey, err)
		}
	}

	raw, err := c.fetch(ctx, method, params)
	if err != nil {
		return err
	}
	c.cacheSet(ctx, cacheKey, raw)

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("codeforces %s: decoding result: %w", method, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + "/" + method
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("codeforces %s: %w", method, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("codeforces %s: %v: %w", method, err, common.ErrUpstream)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("codeforces %s: decoding response: %w", method, common.ErrUpstream)
	}
	if env.Status != "OK" {
		comment := env.Comment
		if comment == "" {
			comment = resp.Status
		}
		if strings.Contains(comment, "not found") {
			return nil, fmt.Errorf("codeforces %s: %s: %w", method, comment, common.ErrNotFound)
		}
		return nil, fmt.Errorf("codeforces %s: %s: %w", method, comment, common.ErrUpstream)
	}
	return env.Result, nil
}

func (c *Client) cacheSet(ctx context.Context, key string, raw json.RawMessage) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, []byte(raw), c.cacheTTL).Err(); err != nil {
		log.Printf("WARN: redis write for %s failed: %v", key, err)
	}
}
