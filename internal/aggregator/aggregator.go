package aggregator

import (
	"time"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
)

// Aggregator defines the interface for computing repository health metrics
type Aggregator interface {
	// Aggregate computes health metrics from a collected activity window.
	// windowDays is the nominal window length used for per-day rates; values
	// below 1 fall back to the default window.
	Aggregate(window *domain.ActivityWindow, windowDays int) domain.HealthMetrics
}

// aggregator implements the Aggregator interface
type aggregator struct{}

// NewAggregator creates a new aggregator
func NewAggregator() Aggregator {
	return &aggregator{}
}

// Aggregate computes health metrics from a collected activity window
func (a *aggregator) Aggregate(window *domain.ActivityWindow, windowDays int) domain.HealthMetrics {
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}
	if window == nil {
		return domain.HealthMetrics{}
	}

	return domain.HealthMetrics{
		CommitFrequency:         float64(len(window.Commits)) / float64(windowDays),
		PRMergeRate:             prMergeRate(window.PullRequests, window.Start, window.End),
		AvgIssueResolutionTime:  avgIssueResolutionHours(window.Issues),
		AvgReviewTurnaroundTime: avgReviewTurnaroundHours(window.Reviews),
		NewContributors:         len(window.Authors),
	}
}

// prMergeRate returns the merged fraction of pull requests created within
// [start, end). Pull requests created outside the window do not count toward
// either side of the ratio.
func prMergeRate(prs []domain.PullRequest, start, end time.Time) float64 {
	total := 0
	merged := 0
	for _, pr := range prs {
		if pr.CreatedAt.Before(start) || !pr.CreatedAt.Before(end) {
			continue
		}
		total++
		if pr.Merged {
			merged++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(merged) / float64(total)
}

// avgIssueResolutionHours returns the mean hours from creation to close over
// closed issues. Open issues are excluded from both the sum and the count.
func avgIssueResolutionHours(issues []domain.Issue) float64 {
	var sum float64
	closed := 0
	for _, issue := range issues {
		if issue.ClosedAt == nil {
			continue
		}
		sum += issue.ClosedAt.Sub(issue.CreatedAt).Hours()
		closed++
	}
	if closed == 0 {
		return 0
	}
	return sum / float64(closed)
}

// avgReviewTurnaroundHours returns the mean hours from review request to
// submission. Reviews that have not been submitted are excluded.
func avgReviewTurnaroundHours(reviews []domain.Review) float64 {
	var sum float64
	submitted := 0
	for _, review := range reviews {
		if review.SubmittedAt == nil {
			continue
		}
		sum += review.SubmittedAt.Sub(review.CreatedAt).Hours()
		submitted++
	}
	if submitted == 0 {
		return 0
	}
	return sum / float64(submitted)
}
