package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
	apperrors "github.com/saiharshith312004/performance-dashboard/internal/errors"
	"github.com/saiharshith312004/performance-dashboard/internal/storage"
)

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connStr string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &postgresStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS activity_snapshots (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		repo TEXT NOT NULL,
		window_days INTEGER NOT NULL,
		activity JSONB NOT NULL,
		collected_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activity_snapshots_repo ON activity_snapshots(owner, repo, collected_at);

	CREATE TABLE IF NOT EXISTS metrics_snapshots (
		snapshot_id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		repo TEXT NOT NULL,
		window_days INTEGER NOT NULL,
		commit_frequency DOUBLE PRECISION NOT NULL,
		pr_merge_rate DOUBLE PRECISION NOT NULL,
		avg_issue_resolution_time DOUBLE PRECISION NOT NULL,
		avg_review_turnaround_time DOUBLE PRECISION NOT NULL,
		new_contributors INTEGER NOT NULL,
		computed_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_metrics_snapshots_repo ON metrics_snapshots(owner, repo, computed_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot saves one collected activity snapshot
func (s *postgresStorage) SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	activityJSON, err := json.Marshal(snapshot.Window)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO activity_snapshots (id, owner, repo, window_days, activity, collected_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			owner = EXCLUDED.owner,
			repo = EXCLUDED.repo,
			window_days = EXCLUDED.window_days,
			activity = EXCLUDED.activity,
			collected_at = EXCLUDED.collected_at
	`
	_, err = s.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.Window.Owner,
		snapshot.Window.Repo,
		snapshot.WindowDays,
		string(activityJSON),
		snapshot.CollectedAt,
	)
	return err
}

// LatestSnapshot retrieves the most recently collected activity snapshot
func (s *postgresStorage) LatestSnapshot(ctx context.Context, repo domain.RepoRef) (*domain.Snapshot, error) {
	query := `
		SELECT id, window_days, activity, collected_at
		FROM activity_snapshots
		WHERE owner = $1 AND repo = $2
		ORDER BY collected_at DESC
		LIMIT 1
	`

	var snap domain.Snapshot
	var activityJSON string
	err := s.db.QueryRowContext(ctx, query, repo.Owner, repo.Name).
		Scan(&snap.ID, &snap.WindowDays, &activityJSON, &snap.CollectedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("activity snapshot for %s", repo))
	}
	if err != nil {
		return nil, err
	}

	var window domain.ActivityWindow
	if err := json.Unmarshal([]byte(activityJSON), &window); err != nil {
		return nil, err
	}
	snap.Window = &window

	return &snap, nil
}

// SaveMetrics saves one computed metrics record. Recomputing from the same
// activity snapshot replaces the previous record.
func (s *postgresStorage) SaveMetrics(ctx context.Context, record *domain.MetricsSnapshot) error {
	query := `
		INSERT INTO metrics_snapshots
			(snapshot_id, owner, repo, window_days, commit_frequency, pr_merge_rate,
			 avg_issue_resolution_time, avg_review_turnaround_time, new_contributors, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (snapshot_id) DO UPDATE SET
			window_days = EXCLUDED.window_days,
			commit_frequency = EXCLUDED.commit_frequency,
			pr_merge_rate = EXCLUDED.pr_merge_rate,
			avg_issue_resolution_time = EXCLUDED.avg_issue_resolution_time,
			avg_review_turnaround_time = EXCLUDED.avg_review_turnaround_time,
			new_contributors = EXCLUDED.new_contributors,
			computed_at = EXCLUDED.computed_at
	`
	_, err := s.db.ExecContext(ctx, query,
		record.SnapshotID,
		record.Owner,
		record.Repo,
		record.WindowDays,
		record.Metrics.CommitFrequency,
		record.Metrics.PRMergeRate,
		record.Metrics.AvgIssueResolutionTime,
		record.Metrics.AvgReviewTurnaroundTime,
		record.Metrics.NewContributors,
		record.ComputedAt,
	)
	return err
}

// LatestMetrics retrieves the most recently computed metrics record
func (s *postgresStorage) LatestMetrics(ctx context.Context, repo domain.RepoRef) (*domain.MetricsSnapshot, error) {
	query := `
		SELECT snapshot_id, owner, repo, window_days, commit_frequency, pr_merge_rate,
		       avg_issue_resolution_time, avg_review_turnaround_time, new_contributors, computed_at
		FROM metrics_snapshots
		WHERE owner = $1 AND repo = $2
		ORDER BY computed_at DESC
		LIMIT 1
	`

	record, err := scanMetrics(s.db.QueryRowContext(ctx, query, repo.Owner, repo.Name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("metrics for %s", repo))
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListMetrics retrieves the metrics history for a repository, newest first
func (s *postgresStorage) ListMetrics(ctx context.Context, repo domain.RepoRef, limit int) ([]*domain.MetricsSnapshot, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT snapshot_id, owner, repo, window_days, commit_frequency, pr_merge_rate,
		       avg_issue_resolution_time, avg_review_turnaround_time, new_contributors, computed_at
		FROM metrics_snapshots
		WHERE owner = $1 AND repo = $2
		ORDER BY computed_at DESC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, repo.Owner, repo.Name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.MetricsSnapshot
	for rows.Next() {
		record, err := scanMetrics(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMetrics(row rowScanner) (*domain.MetricsSnapshot, error) {
	var record domain.MetricsSnapshot
	err := row.Scan(
		&record.SnapshotID,
		&record.Owner,
		&record.Repo,
		&record.WindowDays,
		&record.Metrics.CommitFrequency,
		&record.Metrics.PRMergeRate,
		&record.Metrics.AvgIssueResolutionTime,
		&record.Metrics.AvgReviewTurnaroundTime,
		&record.Metrics.NewContributors,
		&record.ComputedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
