// Package websearch queries a Serper-compatible search API.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Searcher returns results for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

var ErrEmptyQuery = errors.New("websearch: empty query")

const defaultMaxResults = 5

type Client struct {
	client     *resty.Client
	maxResults int
}

// NewClient returns nil when apiKey is empty so callers can treat search as disabled.
func NewClient(endpoint, apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		client: resty.New().
			SetBaseURL(endpoint).
			SetHeader("X-API-KEY", apiKey).
			SetHeader("Content-Type", "application/json").
			SetTimeout(10 * time.Second),
		maxResults: defaultMaxResults,
	}
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type searchResponse struct {
	Organic []Result `json:"organic"`
}

func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetBody(searchRequest{Q: query, Num: c.maxResults}).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("websearch request failed: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("websearch error: status %d, body: %s", res.StatusCode(), res.String())
	}

	var parsed searchResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	if len(parsed.Organic) > c.maxResults {
		parsed.Organic = parsed.Organic[:c.maxResults]
	}
	return parsed.Organic, nil
}

// Cache is the storage a CachedSearcher reads through.
type Cache interface {
	Get(query string) ([]Result, bool)
	Save(query string, results []Result)
}

type CachedSearcher struct {
	next  Searcher
	cache Cache
}

func NewCachedSearcher(next Searcher, cache Cache) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache}
}

func (s *CachedSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	if results, ok := s.cache.Get(query); ok {
		return results, nil
	}
	results, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.Save(query, results)
	return results, nil
}
