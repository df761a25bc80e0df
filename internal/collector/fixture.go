package collector

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
	apperrors "github.com/saiharshith312004/performance-dashboard/internal/errors"
)

// fixtureFile mirrors the on-disk YAML layout of recorded activity
type fixtureFile struct {
	Repositories []fixtureRepo `yaml:"repositories"`
}

type fixtureRepo struct {
	Owner        string          `yaml:"owner"`
	Name         string          `yaml:"name"`
	Commits      []fixtureCommit `yaml:"commits"`
	PullRequests []fixturePR     `yaml:"pull_requests"`
	Issues       []fixtureIssue  `yaml:"issues"`
	Reviews      []fixtureReview `yaml:"reviews"`
}

type fixtureCommit struct {
	Author     string    `yaml:"author"`
	AuthoredAt time.Time `yaml:"authored_at"`
}

type fixturePR struct {
	Number    int       `yaml:"number"`
	Title     string    `yaml:"title"`
	Author    string    `yaml:"author"`
	CreatedAt time.Time `yaml:"created_at"`
	Merged    bool      `yaml:"merged"`
}

type fixtureIssue struct {
	Number    int        `yaml:"number"`
	Title     string     `yaml:"title"`
	CreatedAt time.Time  `yaml:"created_at"`
	ClosedAt  *time.Time `yaml:"closed_at,omitempty"`
}

type fixtureReview struct {
	PRNumber    int        `yaml:"pr_number"`
	Reviewer    string     `yaml:"reviewer"`
	State       string     `yaml:"state"`
	CreatedAt   time.Time  `yaml:"created_at"`
	SubmittedAt *time.Time `yaml:"submitted_at,omitempty"`
}

// fixtureCollector implements Collector by replaying recorded activity
type fixtureCollector struct {
	path string
}

// NewFixtureCollector creates a collector that replays activity recorded in
// a YAML fixture file. It serves local development and tests without a
// GitHub token.
func NewFixtureCollector(path string) Collector {
	return &fixtureCollector{path: path}
}

// FetchWindow loads the recorded activity for the repository. Commits and
// pull requests are trimmed to [start, end); issues and reviews are replayed
// as recorded, matching the shape the live collector produces.
func (c *fixtureCollector) FetchWindow(ctx context.Context, repo domain.RepoRef, start, end time.Time) (*domain.ActivityWindow, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to read fixture %s", c.path), err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to parse fixture %s", c.path), err)
	}

	for _, rec := range file.Repositories {
		if rec.Owner != repo.Owner || rec.Name != repo.Name {
			continue
		}
		return buildFixtureWindow(repo, rec, start, end), nil
	}

	return nil, apperrors.NewNotFoundError(fmt.Sprintf("repository %s", repo))
}

func buildFixtureWindow(repo domain.RepoRef, rec fixtureRepo, start, end time.Time) *domain.ActivityWindow {
	var commits []domain.Commit
	for _, c := range rec.Commits {
		if c.AuthoredAt.Before(start) || !c.AuthoredAt.Before(end) {
			continue
		}
		commits = append(commits, domain.Commit{
			Author:     c.Author,
			AuthoredAt: c.AuthoredAt,
		})
	}

	var prs []domain.PullRequest
	for _, pr := range rec.PullRequests {
		if pr.CreatedAt.Before(start) || !pr.CreatedAt.Before(end) {
			continue
		}
		prs = append(prs, domain.PullRequest{
			Number:    pr.Number,
			Title:     pr.Title,
			Author:    pr.Author,
			CreatedAt: pr.CreatedAt,
			Merged:    pr.Merged,
		})
	}

	issues := make([]domain.Issue, 0, len(rec.Issues))
	for _, issue := range rec.Issues {
		issues = append(issues, domain.Issue{
			Number:    issue.Number,
			Title:     issue.Title,
			CreatedAt: issue.CreatedAt,
			ClosedAt:  issue.ClosedAt,
		})
	}

	reviews := make([]domain.Review, 0, len(rec.Reviews))
	for _, review := range rec.Reviews {
		reviews = append(reviews, domain.Review{
			PRNumber:    review.PRNumber,
			Reviewer:    review.Reviewer,
			State:       review.State,
			CreatedAt:   review.CreatedAt,
			SubmittedAt: review.SubmittedAt,
		})
	}

	return domain.NewActivityWindow(repo, start, end, commits, prs, issues, reviews)
}
