package collector

import (
	"context"
	"time"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
)

// Collector defines the interface for fetching repository activity. A
// collector is polymorphic over its backing data source, so the live GitHub
// API and recorded fixtures are interchangeable.
type Collector interface {
	// FetchWindow retrieves the activity for one repository over [start, end)
	FetchWindow(ctx context.Context, repo domain.RepoRef, start, end time.Time) (*domain.ActivityWindow, error)
}
