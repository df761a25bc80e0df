package domain

import (
	"sort"
	"time"
)

// DefaultWindowDays is the interval length the collector fetches and the
// rate metrics normalize against.
const DefaultWindowDays = 30

// Commit represents a single commit authored within the activity window
type Commit struct {
	Author     string    `json:"author"`
	AuthoredAt time.Time `json:"authored_at"`
}

// PullRequest represents a pull request created within the activity window.
// Merged reflects the merge state at collection time, independent of when
// the merge happened.
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Merged    bool      `json:"merged"`
}

// Issue represents an issue. ClosedAt is nil while the issue is still open.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Review represents a code review on a pull request. CreatedAt is when the
// review became visible (the request time); SubmittedAt is nil while the
// review is still pending.
type Review struct {
	PRNumber    int        `json:"pr_number"`
	Reviewer    string     `json:"reviewer"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// ActivityWindow is the collected activity of one repository over the
// half-open interval [Start, End). It is built once per collection and
// never mutated afterwards.
type ActivityWindow struct {
	Owner        string        `json:"owner"`
	Repo         string        `json:"repo"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Commits      []Commit      `json:"commits"`
	PullRequests []PullRequest `json:"pull_requests"`
	Issues       []Issue       `json:"issues"`
	Reviews      []Review      `json:"reviews"`
	Authors      []string      `json:"authors"`
}

// NewActivityWindow builds an activity window and derives the distinct
// author set from the commit sequence.
func NewActivityWindow(repo RepoRef, start, end time.Time, commits []Commit, prs []PullRequest, issues []Issue, reviews []Review) *ActivityWindow {
	return &ActivityWindow{
		Owner:        repo.Owner,
		Repo:         repo.Name,
		Start:        start,
		End:          end,
		Commits:      commits,
		PullRequests: prs,
		Issues:       issues,
		Reviews:      reviews,
		Authors:      DistinctAuthors(commits),
	}
}

// DistinctAuthors returns the sorted set of author identifiers appearing in
// the commit sequence. Commits with an empty author identifier are skipped.
func DistinctAuthors(commits []Commit) []string {
	seen := make(map[string]struct{}, len(commits))
	var authors []string
	for _, c := range commits {
		if c.Author == "" {
			continue
		}
		if _, ok := seen[c.Author]; ok {
			continue
		}
		seen[c.Author] = struct{}{}
		authors = append(authors, c.Author)
	}
	sort.Strings(authors)
	return authors
}
