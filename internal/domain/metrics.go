package domain

import "time"

// HealthMetrics is the fixed five-metric record derived from one activity
// window. Every field degrades to zero on empty input, so the record is
// always fully populated and renderable.
type HealthMetrics struct {
	// CommitFrequency is commits per day over the window.
	CommitFrequency float64 `json:"commit_frequency"`
	// PRMergeRate is the merged fraction of pull requests created
	// in-window, in [0, 1].
	PRMergeRate float64 `json:"pr_merge_rate"`
	// AvgIssueResolutionTime is the mean hours from creation to close
	// over closed issues.
	AvgIssueResolutionTime float64 `json:"avg_issue_resolution_time"`
	// AvgReviewTurnaroundTime is the mean hours from review visibility to
	// submission over submitted reviews.
	AvgReviewTurnaroundTime float64 `json:"avg_review_turnaround_time"`
	// NewContributors is the size of the distinct commit-author set.
	NewContributors int `json:"new_contributors"`
}

// MetricsSnapshot binds a computed HealthMetrics record to the activity
// snapshot it was derived from. This is the flat representation the
// storage layer persists and the API serves.
type MetricsSnapshot struct {
	SnapshotID string        `json:"snapshot_id"`
	Owner      string        `json:"owner"`
	Repo       string        `json:"repo"`
	WindowDays int           `json:"window_days"`
	Metrics    HealthMetrics `json:"metrics"`
	ComputedAt time.Time     `json:"computed_at"`
}
