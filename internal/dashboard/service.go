package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saiharshith312004/performance-dashboard/internal/aggregator"
	"github.com/saiharshith312004/performance-dashboard/internal/collector"
	"github.com/saiharshith312004/performance-dashboard/internal/domain"
	"github.com/saiharshith312004/performance-dashboard/internal/query"
	"github.com/saiharshith312004/performance-dashboard/internal/storage"
)

// Service defines the dashboard operations built on top of the collector,
// the storage layer, and the pure metrics core.
type Service interface {
	// Collect fetches a fresh activity window, persists it together with the
	// computed metrics, and returns the metrics record. days <= 0 uses the
	// configured window length.
	Collect(ctx context.Context, repo domain.RepoRef, days int) (*domain.MetricsSnapshot, error)

	// Metrics returns the repository's metrics record. With refresh it
	// collects fresh activity first; otherwise it serves the latest stored
	// record and fails with a not-found error when none exists.
	Metrics(ctx context.Context, repo domain.RepoRef, refresh bool, days int) (*domain.MetricsSnapshot, error)

	// Recompute re-derives the metrics record from the latest stored
	// activity snapshot without contacting the collector.
	Recompute(ctx context.Context, repo domain.RepoRef) (*domain.MetricsSnapshot, error)

	// Answer resolves a free-text question against the repository's metrics
	Answer(ctx context.Context, repo domain.RepoRef, question string, refresh bool) (string, error)

	// History lists previously computed metrics records, newest first
	History(ctx context.Context, repo domain.RepoRef, limit int) ([]*domain.MetricsSnapshot, error)
}

// service implements the Service interface
type service struct {
	collector  collector.Collector
	store      storage.Storage
	aggregator aggregator.Aggregator
	windowDays int
}

// NewService creates a new dashboard service. windowDays is the default
// collection interval; values below 1 fall back to the standard window.
func NewService(coll collector.Collector, store storage.Storage, windowDays int) Service {
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}
	return &service{
		collector:  coll,
		store:      store,
		aggregator: aggregator.NewAggregator(),
		windowDays: windowDays,
	}
}

// Collect fetches a fresh activity window and persists both the snapshot and
// the metrics record derived from it
func (s *service) Collect(ctx context.Context, repo domain.RepoRef, days int) (*domain.MetricsSnapshot, error) {
	if days <= 0 {
		days = s.windowDays
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	window, err := s.collector.FetchWindow(ctx, repo, start, end)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		ID:          uuid.New().String(),
		WindowDays:  days,
		Window:      window,
		CollectedAt: end,
	}
	if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save activity snapshot for %s: %w", repo, err)
	}

	return s.computeAndStore(ctx, snapshot)
}

// Metrics returns the metrics record, collecting fresh activity when refresh
// is requested and serving the latest stored record otherwise
func (s *service) Metrics(ctx context.Context, repo domain.RepoRef, refresh bool, days int) (*domain.MetricsSnapshot, error) {
	if refresh {
		return s.Collect(ctx, repo, days)
	}
	return s.store.LatestMetrics(ctx, repo)
}

// Recompute re-runs the aggregation over the latest stored activity snapshot.
// The snapshot's own window length drives the rate normalization, so a record
// recomputed from a 7-day snapshot stays a 7-day record.
func (s *service) Recompute(ctx context.Context, repo domain.RepoRef) (*domain.MetricsSnapshot, error) {
	snapshot, err := s.store.LatestSnapshot(ctx, repo)
	if err != nil {
		return nil, err
	}
	return s.computeAndStore(ctx, snapshot)
}

// Answer resolves a free-text question against the repository's metrics. The
// resolver is bound to the served record's window length so the contributor
// sentence quotes the interval the numbers were actually computed over.
func (s *service) Answer(ctx context.Context, repo domain.RepoRef, question string, refresh bool) (string, error) {
	record, err := s.Metrics(ctx, repo, refresh, 0)
	if err != nil {
		return "", err
	}
	return query.NewResolver(record.WindowDays).Resolve(question, record.Metrics), nil
}

// History lists previously computed metrics records, newest first
func (s *service) History(ctx context.Context, repo domain.RepoRef, limit int) ([]*domain.MetricsSnapshot, error) {
	return s.store.ListMetrics(ctx, repo, limit)
}

// computeAndStore derives the metrics record from a snapshot and persists it
func (s *service) computeAndStore(ctx context.Context, snapshot *domain.Snapshot) (*domain.MetricsSnapshot, error) {
	record := &domain.MetricsSnapshot{
		SnapshotID: snapshot.ID,
		Owner:      snapshot.Window.Owner,
		Repo:       snapshot.Window.Repo,
		WindowDays: snapshot.WindowDays,
		Metrics:    s.aggregator.Aggregate(snapshot.Window, snapshot.WindowDays),
		ComputedAt: time.Now().UTC(),
	}
	if err := s.store.SaveMetrics(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save metrics record for %s/%s: %w", record.Owner, record.Repo, err)
	}
	return record, nil
}
