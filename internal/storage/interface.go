package storage

import (
	"context"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
)

// Storage is the abstract interface for the persistence layer
type Storage interface {
	// Raw activity snapshots (kept so metrics can be recomputed without
	// refetching from the collector)
	SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error
	LatestSnapshot(ctx context.Context, repo domain.RepoRef) (*domain.Snapshot, error)

	// Computed metrics records, one flat row per collection run
	SaveMetrics(ctx context.Context, record *domain.MetricsSnapshot) error
	LatestMetrics(ctx context.Context, repo domain.RepoRef) (*domain.MetricsSnapshot, error)
	ListMetrics(ctx context.Context, repo domain.RepoRef, limit int) ([]*domain.MetricsSnapshot, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
