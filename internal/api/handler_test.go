package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
	apperrors "github.com/saiharshith312004/performance-dashboard/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockService struct {
	collectFunc   func(ctx context.Context, repo domain.RepoRef, days int) (*domain.MetricsSnapshot, error)
	metricsFunc   func(ctx context.Context, repo domain.RepoRef, refresh bool, days int) (*domain.MetricsSnapshot, error)
	recomputeFunc func(ctx context.Context, repo domain.RepoRef) (*domain.MetricsSnapshot, error)
	answerFunc    func(ctx context.Context, repo domain.RepoRef, question string, refresh bool) (string, error)
	historyFunc   func(ctx context.Context, repo domain.RepoRef, limit int) ([]*domain.MetricsSnapshot, error)
}

func (m *mockService) Collect(ctx context.Context, repo domain.RepoRef, days int) (*domain.MetricsSnapshot, error) {
	return m.collectFunc(ctx, repo, days)
}

func (m *mockService) Metrics(ctx context.Context, repo domain.RepoRef, refresh bool, days int) (*domain.MetricsSnapshot, error) {
	return m.metricsFunc(ctx, repo, refresh, days)
}

func (m *mockService) Recompute(ctx context.Context, repo domain.RepoRef) (*domain.MetricsSnapshot, error) {
	return m.recomputeFunc(ctx, repo)
}

func (m *mockService) Answer(ctx context.Context, repo domain.RepoRef, question string, refresh bool) (string, error) {
	return m.answerFunc(ctx, repo, question, refresh)
}

func (m *mockService) History(ctx context.Context, repo domain.RepoRef, limit int) ([]*domain.MetricsSnapshot, error) {
	return m.historyFunc(ctx, repo, limit)
}

func testRecord() *domain.MetricsSnapshot {
	return &domain.MetricsSnapshot{
		SnapshotID: "snap-1",
		Owner:      "octocat",
		Repo:       "hello-world",
		WindowDays: 30,
		Metrics: domain.HealthMetrics{
			CommitFrequency:         0.5,
			PRMergeRate:             0.75,
			AvgIssueResolutionTime:  36.5,
			AvgReviewTurnaroundTime: 12.25,
			NewContributors:         3,
		},
	}
}

func serve(t *testing.T, svc *mockService, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := SetupRoutes(NewHandler(svc))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeRecord(t *testing.T, w *httptest.ResponseRecorder) *domain.MetricsSnapshot {
	t.Helper()
	var resp struct {
		Data *domain.MetricsSnapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code, resp.Error.Message
}

func TestGetMetrics(t *testing.T) {
	var gotRepo domain.RepoRef
	var gotRefresh bool
	var gotDays int

	svc := &mockService{
		metricsFunc: func(ctx context.Context, repo domain.RepoRef, refresh bool, days int) (*domain.MetricsSnapshot, error) {
			gotRepo, gotRefresh, gotDays = repo, refresh, days
			return testRecord(), nil
		},
	}

	w := serve(t, svc, http.MethodGet, "/api/v1/repos/octocat/hello-world/metrics?days=7", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.RepoRef{Owner: "octocat", Name: "hello-world"}, gotRepo)
	assert.False(t, gotRefresh)
	assert.Equal(t, 7, gotDays)

	record := decodeRecord(t, w)
	assert.Equal(t, "snap-1", record.SnapshotID)
	assert.InDelta(t, 0.5, record.Metrics.CommitFrequency, 1e-9)
}

func TestGetMetricsRefresh(t *testing.T) {
	var gotRefresh bool
	svc := &mockService{
		metricsFunc: func(ctx context.Context, repo domain.RepoRef, refresh bool, days int) (*domain.MetricsSnapshot, error) {
			gotRefresh = refresh
			return testRecord(), nil
		},
	}

	w := serve(t, svc, http.MethodGet, "/api/v1/repos/octocat/hello-world/metrics?refresh=true", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotRefresh)
}

func TestGetMetricsNotFound(t *testing.T) {
	svc := &mockService{
		metricsFunc: func(ctx context.Context, repo domain.RepoRef, refresh bool, days int) (*domain.MetricsSnapshot, error) {
			return nil, apperrors.NewNotFoundError("metrics for octocat/hello-world")
		},
	}

	w := serve(t, svc, http.MethodGet, "/api/v1/repos/octocat/hello-world/metrics", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	code, message := decodeError(t, w)
	assert.Equal(t, "NOT_FOUND", code)
	assert.Contains(t, message, "octocat/hello-world")
}

func TestQuery(t *testing.T) {
	var gotQuestion string
	var gotRefresh bool

	svc := &mockService{
		answerFunc: func(ctx context.Context, repo domain.RepoRef, question string, refresh bool) (string, error) {
			gotQuestion, gotRefresh = question, refresh
			return "The average daily commit frequency is 0.50 commits per day.", nil
		},
	}

	body := `{"question": "What is the commit frequency?"}`
	w := serve(t, svc, http.MethodPost, "/api/v1/repos/octocat/hello-world/query", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "What is the commit frequency?", gotQuestion)
	assert.False(t, gotRefresh)

	var resp struct {
		Data struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "What is the commit frequency?", resp.Data.Question)
	assert.Contains(t, resp.Data.Answer, "0.50 commits per day")
}

func TestQueryMissingQuestion(t *testing.T) {
	svc := &mockService{
		answerFunc: func(ctx context.Context, repo domain.RepoRef, question string, refresh bool) (string, error) {
			t.Fatal("service must not be called for an invalid request")
			return "", nil
		},
	}

	for _, body := range []string{`{}`, `{"question": ""}`, `not json`} {
		w := serve(t, svc, http.MethodPost, "/api/v1/repos/octocat/hello-world/query", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
		code, _ := decodeError(t, w)
		assert.Equal(t, "BAD_REQUEST", code)
	}
}

func TestCollect(t *testing.T) {
	var gotDays int
	svc := &mockService{
		collectFunc: func(ctx context.Context, repo domain.RepoRef, days int) (*domain.MetricsSnapshot, error) {
			gotDays = days
			return testRecord(), nil
		},
	}

	w := serve(t, svc, http.MethodPost, "/api/v1/repos/octocat/hello-world/collect?days=14", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 14, gotDays)
}

func TestCollectRateLimited(t *testing.T) {
	svc := &mockService{
		collectFunc: func(ctx context.Context, repo domain.RepoRef, days int) (*domain.MetricsSnapshot, error) {
			return nil, apperrors.NewRateLimitedError("github rate limit exceeded")
		},
	}

	w := serve(t, svc, http.MethodPost, "/api/v1/repos/octocat/hello-world/collect", "")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "RATE_LIMITED", code)
}

func TestRecompute(t *testing.T) {
	svc := &mockService{
		recomputeFunc: func(ctx context.Context, repo domain.RepoRef) (*domain.MetricsSnapshot, error) {
			return testRecord(), nil
		},
	}

	w := serve(t, svc, http.MethodPost, "/api/v1/repos/octocat/hello-world/recompute", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "snap-1", decodeRecord(t, w).SnapshotID)
}

func TestGetMetricsHistory(t *testing.T) {
	var gotLimit int
	svc := &mockService{
		historyFunc: func(ctx context.Context, repo domain.RepoRef, limit int) ([]*domain.MetricsSnapshot, error) {
			gotLimit = limit
			return []*domain.MetricsSnapshot{testRecord()}, nil
		},
	}

	w := serve(t, svc, http.MethodGet, "/api/v1/repos/octocat/hello-world/metrics/history?limit=3", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, gotLimit)

	var resp struct {
		Data []*domain.MetricsSnapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestGetMetricsHistoryDefaultLimit(t *testing.T) {
	var gotLimit int
	svc := &mockService{
		historyFunc: func(ctx context.Context, repo domain.RepoRef, limit int) ([]*domain.MetricsSnapshot, error) {
			gotLimit = limit
			return nil, nil
		},
	}

	w := serve(t, svc, http.MethodGet, "/api/v1/repos/octocat/hello-world/metrics/history", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, gotLimit)
}

func TestHealthCheck(t *testing.T) {
	w := serve(t, &mockService{}, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
