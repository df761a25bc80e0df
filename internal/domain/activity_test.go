package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDistinctAuthors(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		commits []Commit
		want    []string
	}{
		{
			name:    "empty",
			commits: nil,
			want:    nil,
		},
		{
			name: "deduplicates and sorts",
			commits: []Commit{
				{Author: "carol", AuthoredAt: now},
				{Author: "alice", AuthoredAt: now},
				{Author: "carol", AuthoredAt: now},
				{Author: "bob", AuthoredAt: now},
				{Author: "alice", AuthoredAt: now},
			},
			want: []string{"alice", "bob", "carol"},
		},
		{
			name: "skips commits without an author identifier",
			commits: []Commit{
				{Author: "", AuthoredAt: now},
				{Author: "alice", AuthoredAt: now},
			},
			want: []string{"alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DistinctAuthors(tt.commits))
		})
	}
}

func TestNewActivityWindow(t *testing.T) {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -30)
	commits := []Commit{
		{Author: "alice", AuthoredAt: start.Add(time.Hour)},
		{Author: "bob", AuthoredAt: start.Add(2 * time.Hour)},
		{Author: "alice", AuthoredAt: start.Add(3 * time.Hour)},
	}

	w := NewActivityWindow(RepoRef{Owner: "octocat", Name: "hello-world"}, start, end, commits, nil, nil, nil)

	assert.Equal(t, "octocat", w.Owner)
	assert.Equal(t, "hello-world", w.Repo)
	assert.Equal(t, start, w.Start)
	assert.Equal(t, end, w.End)
	assert.Len(t, w.Commits, 3)
	assert.Equal(t, []string{"alice", "bob"}, w.Authors)
}
