package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
)

func TestResolve(t *testing.T) {
	metrics := domain.HealthMetrics{
		CommitFrequency:         0.5,
		PRMergeRate:             0.75,
		AvgIssueResolutionTime:  36.5,
		AvgReviewTurnaroundTime: 12.25,
		NewContributors:         3,
	}

	resolver := NewResolver(domain.DefaultWindowDays)

	tests := []struct {
		name     string
		question string
		want     string
	}{
		{
			name:     "commit frequency",
			question: "What is the commit frequency?",
			want:     "The average daily commit frequency is 0.50 commits per day.",
		},
		{
			name:     "pull request merge rate",
			question: "What is the pull request merge rate?",
			want:     "The pull request merge rate is 75.00%.",
		},
		{
			name:     "pr shorthand",
			question: "how is our PR merge rate looking",
			want:     "The pull request merge rate is 75.00%.",
		},
		{
			name:     "issue resolution",
			question: "How long does issue resolution take?",
			want:     "The average issue resolution time is 36.50 hours.",
		},
		{
			name:     "review turnaround",
			question: "average review turnaround time",
			want:     "The average code review turnaround time is 12.25 hours.",
		},
		{
			name:     "new contributors",
			question: "How many new contributors joined?",
			want:     "The number of new contributors in the last 30 days is 3.",
		},
		{
			name:     "case insensitive",
			question: "COMMIT FREQUENCY, PLEASE",
			want:     "The average daily commit frequency is 0.50 commits per day.",
		},
		{
			name:     "merge rate wins over issue resolution",
			question: "Is the pull request merge rate tied to issue time?",
			want:     "The pull request merge rate is 75.00%.",
		},
		{
			name:     "substring match accepts prank merged",
			question: "prank merged",
			want:     "The pull request merge rate is 75.00%.",
		},
		{
			name:     "pull requests without merge or rate fall through",
			question: "show me the pull requests",
			want:     FallbackAnswer,
		},
		{
			name:     "unknown topic",
			question: "tell me about widgets",
			want:     FallbackAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.question, metrics))
		})
	}
}

func TestResolveQuotesWindowLength(t *testing.T) {
	metrics := domain.HealthMetrics{NewContributors: 4}

	got := NewResolver(7).Resolve("how many new contributors?", metrics)
	assert.Equal(t, "The number of new contributors in the last 7 days is 4.", got)

	// Non-positive window lengths fall back to the default
	got = NewResolver(0).Resolve("how many new contributors?", metrics)
	assert.Equal(t, "The number of new contributors in the last 30 days is 4.", got)
}

func TestFallbackListsAllTopics(t *testing.T) {
	topics := []string{
		"commit frequency",
		"PR merge rate",
		"issue resolution time",
		"review turnaround time",
		"new contributors",
	}
	for _, topic := range topics {
		assert.Contains(t, FallbackAnswer, topic)
	}
}
