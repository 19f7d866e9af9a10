package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v72/github"
)

const (
	// UserAgent identifies the collector to the search API.
	UserAgent = "awesome-healthcare-datasets-indonesia-bot"

	// RequestTimeout bounds a single search request.
	RequestTimeout = 45 * time.Second
)

// DefaultQueries are the healthcare probes run when no query is configured.
var DefaultQueries = []string{
	`"healthcare dataset" in:name,description,readme`,
	`"medical dataset" in:name,description,readme`,
	`"hospital dataset" in:name,description,readme`,
	`"simrs" in:name,description,readme`,
	`"obat" "dataset" indonesia in:name,description,readme`,
	`"kardiovaskular" dataset in:name,description,readme`,
	`"indonesia health" dataset in:name,description,readme`,
	`"rekam medis" dataset in:name,description,readme`,
}

// ErrEmptyResponse is returned when the search API answers without a result
// body. Every search response carries total_count, even one with no items.
var ErrEmptyResponse = errors.New("search response has no total_count")

// SearchPage is one page of repository search results.
type SearchPage struct {
	Items      []*github.Repository
	Total      int
	Incomplete bool
}

// Searcher runs a single paginated repository search.
type Searcher interface {
	Search(ctx context.Context, query string, page, perPage int) (*SearchPage, error)
}

// GitHubSearcher searches repositories through the GitHub REST API
type GitHubSearcher struct {
	ghClient *github.Client
}

// NewGitHubSearcher creates a searcher. An empty baseURL keeps the public API.
func NewGitHubSearcher(baseURL string) (*GitHubSearcher, error) {
	ghClient := github.NewClient(&http.Client{Timeout: RequestTimeout})
	ghClient.UserAgent = UserAgent

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse API URL %q: %w", baseURL, err)
		}
		ghClient.BaseURL = u
	}

	return &GitHubSearcher{ghClient: ghClient}, nil
}

// Search fetches one page of repositories matching query, most starred first.
func (s *GitHubSearcher) Search(ctx context.Context, query string, page, perPage int) (*SearchPage, error) {
	opt := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}

	result, _, err := s.ghClient.Search.Repositories(ctx, query, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}
	// go-github treats an empty body as success and leaves result zeroed.
	if result.Total == nil && result.Repositories == nil {
		return nil, fmt.Errorf("failed to search repositories: %w", ErrEmptyResponse)
	}

	return &SearchPage{
		Items:      result.Repositories,
		Total:      result.GetTotal(),
		Incomplete: result.GetIncompleteResults(),
	}, nil
}
