package query

import (
	"fmt"
	"strings"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
)

// FallbackAnswer is returned for questions that match none of the known
// metric topics.
const FallbackAnswer = "I'm sorry, I couldn't understand your query. Please try asking about commit frequency, PR merge rate, issue resolution time, review turnaround time, or new contributors."

// Resolver defines the interface for answering free-text metric questions
type Resolver interface {
	// Resolve maps a question to one of the five metric sentences, or to
	// the fallback help answer when no topic matches.
	Resolve(text string, metrics domain.HealthMetrics) string
}

// rule pairs a keyword predicate with the sentence it renders
type rule struct {
	match  func(question string) bool
	answer func(m domain.HealthMetrics) string
}

// resolver implements the Resolver interface
type resolver struct {
	rules []rule
}

// NewResolver creates a resolver whose contributor sentence quotes the given
// window length. Rules are evaluated in order and the first match wins, so a
// question touching several topics resolves to the earliest one.
func NewResolver(windowDays int) Resolver {
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}
	return &resolver{rules: []rule{
		{
			match: func(q string) bool {
				return strings.Contains(q, "commit") && strings.Contains(q, "frequency")
			},
			answer: func(m domain.HealthMetrics) string {
				return fmt.Sprintf("The average daily commit frequency is %.2f commits per day.", m.CommitFrequency)
			},
		},
		{
			match: func(q string) bool {
				return containsAny(q, "pr", "pull request") && containsAny(q, "merge", "rate")
			},
			answer: func(m domain.HealthMetrics) string {
				return fmt.Sprintf("The pull request merge rate is %.2f%%.", m.PRMergeRate*100)
			},
		},
		{
			match: func(q string) bool {
				return strings.Contains(q, "issue") && containsAny(q, "resolution", "time")
			},
			answer: func(m domain.HealthMetrics) string {
				return fmt.Sprintf("The average issue resolution time is %.2f hours.", m.AvgIssueResolutionTime)
			},
		},
		{
			match: func(q string) bool {
				return strings.Contains(q, "review") && strings.Contains(q, "time")
			},
			answer: func(m domain.HealthMetrics) string {
				return fmt.Sprintf("The average code review turnaround time is %.2f hours.", m.AvgReviewTurnaroundTime)
			},
		},
		{
			match: func(q string) bool {
				return strings.Contains(q, "new contributors")
			},
			answer: func(m domain.HealthMetrics) string {
				return fmt.Sprintf("The number of new contributors in the last %d days is %d.", windowDays, m.NewContributors)
			},
		},
	}}
}

// Resolve answers the question from the metrics record. Matching is
// case-insensitive substring containment, not word-boundary matching, so a
// fragment such as "prank" satisfies the "pr" keyword.
func (r *resolver) Resolve(text string, metrics domain.HealthMetrics) string {
	question := strings.ToLower(text)
	for _, rl := range r.rules {
		if rl.match(question) {
			return rl.answer(metrics)
		}
	}
	return FallbackAnswer
}

// containsAny reports whether the question contains at least one keyword
func containsAny(question string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(question, kw) {
			return true
		}
	}
	return false
}
