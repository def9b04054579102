// Package catalog talks to the external movie metadata service (a TMDB
// compatible API) and materializes its payloads into canonical local rows.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yudhap/cinematch/common"
)

const serviceName = "tmdb"

type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// SearchResult is one hit from the free-text search endpoint. Only the
// fields the pipeline needs are modeled; the detail fetch carries the rest.
type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
}

type SearchResponse struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []SearchResult `json:"results"`
}

type GenreRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the full per-id payload, validated at the boundary by
// explicit typing rather than duck-typed maps.
type MovieDetail struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Overview         string     `json:"overview"`
	ReleaseDate      string     `json:"release_date"`
	PosterPath       string     `json:"poster_path"`
	BackdropPath     string     `json:"backdrop_path"`
	Genres           []GenreRef `json:"genres"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	Popularity       float64    `json:"popularity"`
	Adult            bool       `json:"adult"`
	OriginalLanguage string     `json:"original_language"`
}

func New(apiKey, base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: base,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// SearchMovies runs a free-text title search. An empty result list is a
// normal outcome, not an error.
func (c *Client) SearchMovies(ctx context.Context, query string) (*SearchResponse, error) {
	u, _ := url.Parse(c.BaseURL + "/search/movie")
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, common.Upstreamf(serviceName, 0, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, common.Upstreamf(serviceName, res.StatusCode, nil)
	}
	var out SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, common.Upstreamf(serviceName, res.StatusCode, fmt.Errorf("decode search response: %w", err))
	}
	return &out, nil
}

// GetMovie fetches full detail for one catalog id. A 404 translates to the
// typed common.ErrNotFound; every other failure is an UpstreamError.
func (c *Client) GetMovie(ctx context.Context, id int64) (*MovieDetail, error) {
	u := fmt.Sprintf("%s/movie/%d?api_key=%s", c.BaseURL, id, url.QueryEscape(c.APIKey))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, common.Upstreamf(serviceName, 0, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("movie %d: %w", id, common.ErrNotFound)
	}
	if res.StatusCode != http.StatusOK {
		return nil, common.Upstreamf(serviceName, res.StatusCode, nil)
	}
	var out MovieDetail
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, common.Upstreamf(serviceName, res.StatusCode, fmt.Errorf("decode movie detail: %w", err))
	}
	return &out, nil
}
