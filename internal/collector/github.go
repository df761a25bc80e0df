package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
	apperrors "github.com/saiharshith312004/performance-dashboard/internal/errors"
)

// githubCollector implements Collector using the GitHub API
type githubCollector struct {
	client      *github.Client
	rateLimiter RateLimiter
}

// NewGitHubCollector creates a new GitHub collector
func NewGitHubCollector(token string) Collector {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &githubCollector{
		client:      github.NewClient(tc),
		rateLimiter: NewRateLimiter(),
	}
}

// FetchWindow retrieves commits, pull requests, reviews, and issues for the
// repository over [start, end)
func (c *githubCollector) FetchWindow(ctx context.Context, repo domain.RepoRef, start, end time.Time) (*domain.ActivityWindow, error) {
	commits, err := c.fetchCommits(ctx, repo, start, end)
	if err != nil {
		return nil, err
	}

	prs, reviews, err := c.fetchPullRequests(ctx, repo, start, end)
	if err != nil {
		return nil, err
	}

	issues, err := c.fetchIssues(ctx, repo, start)
	if err != nil {
		return nil, err
	}

	return domain.NewActivityWindow(repo, start, end, commits, prs, issues, reviews), nil
}

// fetchCommits retrieves commits authored within [since, until)
func (c *githubCollector) fetchCommits(ctx context.Context, repo domain.RepoRef, since, until time.Time) ([]domain.Commit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var allCommits []domain.Commit
	opts := &github.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		commits, resp, err := c.client.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			// Empty repositories respond with 409
			if resp != nil && resp.StatusCode == http.StatusConflict {
				return allCommits, nil
			}
			return nil, c.wrapError(repo, "list commits", err)
		}

		c.updateRateLimitFromResponse(resp)

		for _, commit := range commits {
			author := commit.Author.GetLogin()
			if author == "" {
				author = commit.GetCommit().GetAuthor().GetName()
			}

			allCommits = append(allCommits, domain.Commit{
				Author:     author,
				AuthoredAt: commit.GetCommit().GetAuthor().GetDate().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return allCommits, nil
}

// fetchPullRequests retrieves pull requests created within [start, end)
// against the main branch, along with the reviews submitted on each one.
func (c *githubCollector) fetchPullRequests(ctx context.Context, repo domain.RepoRef, start, end time.Time) ([]domain.PullRequest, []domain.Review, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	var prs []domain.PullRequest
	var reviews []domain.Review
	opts := &github.PullRequestListOptions{
		State:       "all",
		Base:        "main",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		page, resp, err := c.client.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, nil, c.wrapError(repo, "list pull requests", err)
		}

		c.updateRateLimitFromResponse(resp)

		for _, pr := range page {
			createdAt := pr.GetCreatedAt().Time
			if createdAt.Before(start) {
				// PRs are sorted by created date desc, so we can stop here
				return prs, reviews, nil
			}
			if !createdAt.Before(end) {
				continue
			}

			prs = append(prs, domain.PullRequest{
				Number:    pr.GetNumber(),
				Title:     pr.GetTitle(),
				Author:    pr.User.GetLogin(),
				CreatedAt: createdAt,
				// The list API never populates the merged flag, only the
				// merge timestamp.
				Merged: pr.MergedAt != nil,
			})

			prReviews, err := c.fetchReviews(ctx, repo, pr.GetNumber(), createdAt)
			if err != nil {
				return nil, nil, err
			}
			reviews = append(reviews, prReviews...)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, nil, err
		}
	}

	return prs, reviews, nil
}

// fetchReviews retrieves the reviews submitted on one pull request. The
// review API carries no request timestamp, so the pull request's creation
// time stands in as each review's visibility time.
func (c *githubCollector) fetchReviews(ctx context.Context, repo domain.RepoRef, prNumber int, prCreatedAt time.Time) ([]domain.Review, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reviews []domain.Review
	opts := &github.ListOptions{PerPage: 100}

	for {
		page, resp, err := c.client.PullRequests.ListReviews(ctx, repo.Owner, repo.Name, prNumber, opts)
		if err != nil {
			return nil, c.wrapError(repo, fmt.Sprintf("list reviews for #%d", prNumber), err)
		}

		c.updateRateLimitFromResponse(resp)

		for _, review := range page {
			var submittedAt *time.Time
			if review.SubmittedAt != nil {
				t := review.SubmittedAt.Time
				submittedAt = &t
			}

			reviews = append(reviews, domain.Review{
				PRNumber:    prNumber,
				Reviewer:    review.User.GetLogin(),
				State:       review.GetState(),
				CreatedAt:   prCreatedAt,
				SubmittedAt: submittedAt,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return reviews, nil
}

// fetchIssues retrieves issues updated since the window start
func (c *githubCollector) fetchIssues(ctx context.Context, repo domain.RepoRef, since time.Time) ([]domain.Issue, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var issues []domain.Issue
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		page, resp, err := c.client.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, c.wrapError(repo, "list issues", err)
		}

		c.updateRateLimitFromResponse(resp)

		for _, issue := range page {
			// The issues API also returns pull requests
			if issue.IsPullRequest() {
				continue
			}

			var closedAt *time.Time
			if issue.ClosedAt != nil {
				t := issue.ClosedAt.Time
				closedAt = &t
			}

			issues = append(issues, domain.Issue{
				Number:    issue.GetNumber(),
				Title:     issue.GetTitle(),
				CreatedAt: issue.GetCreatedAt().Time,
				ClosedAt:  closedAt,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return issues, nil
}

// wrapError maps a GitHub API failure onto the application error taxonomy
func (c *githubCollector) wrapError(repo domain.RepoRef, op string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.NewRateLimitedError(fmt.Sprintf("github rate limit exceeded, resets at %s", rateErr.Rate.Reset.Format(time.RFC3339)))
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return apperrors.NewRateLimitedError("github secondary rate limit hit")
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return apperrors.NewNotFoundError(fmt.Sprintf("repository %s", repo))
		case http.StatusUnauthorized:
			return apperrors.NewUnauthorizedError("github token was rejected")
		case http.StatusForbidden:
			return apperrors.NewForbiddenError(fmt.Sprintf("access to repository %s is forbidden", repo))
		}
	}

	return apperrors.NewInternalError(fmt.Sprintf("failed to %s for %s", op, repo), err)
}

// updateRateLimitFromResponse updates the rate limiter from API response
func (c *githubCollector) updateRateLimitFromResponse(resp *github.Response) {
	if resp != nil && resp.Rate.Remaining >= 0 {
		c.rateLimiter.UpdateLimit(resp.Rate.Remaining, resp.Rate.Reset.Time)
	}
}
