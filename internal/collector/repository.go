package collector

import (
	"strings"
	"time"

	"github.com/google/go-github/v72/github"
)

// Record is one deduplicated repository with its category.
type Record struct {
	SourceQuery string   `json:"source_query"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	URL         string   `json:"url"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	OpenIssues  int      `json:"open_issues"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Topics      []string `json:"topics"`
}

// TopicsText returns the topics joined with commas.
func (r Record) TopicsText() string {
	return strings.Join(r.Topics, ",")
}

// newRecord converts a search result item into a Record. The caller must
// make sure the item has a full name.
func newRecord(query string, repo *github.Repository) Record {
	description := strings.TrimSpace(strings.ReplaceAll(repo.GetDescription(), "\n", " "))
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}

	r := Record{
		SourceQuery: query,
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		URL:         repo.GetHTMLURL(),
		Description: description,
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		OpenIssues:  repo.GetOpenIssuesCount(),
		CreatedAt:   formatTimestamp(repo.CreatedAt),
		UpdatedAt:   formatTimestamp(repo.UpdatedAt),
		Topics:      topics,
	}
	r.Category = Classify(r.Name + " " + r.Description + " " + r.TopicsText())
	return r
}

// formatTimestamp renders ts in the offset it was received with. GitHub's
// "2006-01-02T15:04:05Z" strings come back unchanged; trailing zeros of a
// fractional second are the only thing not kept.
func formatTimestamp(ts *github.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Format(time.RFC3339Nano)
}
