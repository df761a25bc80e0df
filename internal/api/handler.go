package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saiharshith312004/performance-dashboard/internal/dashboard"
	"github.com/saiharshith312004/performance-dashboard/internal/domain"
	apperrors "github.com/saiharshith312004/performance-dashboard/internal/errors"
)

// Handler handles API requests
type Handler struct {
	service dashboard.Service
}

// NewHandler creates a new API handler
func NewHandler(svc dashboard.Service) *Handler {
	return &Handler{
		service: svc,
	}
}

// queryRequest is the body of a metrics question
type queryRequest struct {
	Question string `json:"question" binding:"required"`
	Refresh  bool   `json:"refresh"`
}

// GetMetrics returns the repository's health metrics record
// GET /api/v1/repos/:owner/:repo/metrics?refresh=true&days=N
func (h *Handler) GetMetrics(c *gin.Context) {
	repo := repoFromPath(c)
	refresh := c.DefaultQuery("refresh", "false") == "true"
	days := parseIntQuery(c, "days", 0)

	record, err := h.service.Metrics(c.Request.Context(), repo, refresh, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": record,
	})
}

// GetMetricsHistory returns previously computed metrics records, newest first
// GET /api/v1/repos/:owner/:repo/metrics/history?limit=N
func (h *Handler) GetMetricsHistory(c *gin.Context) {
	repo := repoFromPath(c)
	limit := parseIntQuery(c, "limit", 10)

	records, err := h.service.History(c.Request.Context(), repo, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
	})
}

// Collect fetches fresh activity for the repository and stores the snapshot
// together with its metrics record
// POST /api/v1/repos/:owner/:repo/collect?days=N
func (h *Handler) Collect(c *gin.Context) {
	repo := repoFromPath(c)
	days := parseIntQuery(c, "days", 0)

	record, err := h.service.Collect(c.Request.Context(), repo, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": record,
	})
}

// Recompute re-derives the metrics record from the latest stored activity
// snapshot without contacting GitHub
// POST /api/v1/repos/:owner/:repo/recompute
func (h *Handler) Recompute(c *gin.Context) {
	repo := repoFromPath(c)

	record, err := h.service.Recompute(c.Request.Context(), repo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": record,
	})
}

// Query answers a free-text question about the repository's metrics
// POST /api/v1/repos/:owner/:repo/query
func (h *Handler) Query(c *gin.Context) {
	repo := repoFromPath(c)

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("question is required"))
		return
	}

	answer, err := h.service.Answer(c.Request.Context(), repo, req.Question, req.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"question": req.Question,
			"answer":   answer,
		},
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// repoFromPath reads the repository reference from the route parameters
func repoFromPath(c *gin.Context) domain.RepoRef {
	return domain.RepoRef{
		Owner: c.Param("owner"),
		Name:  c.Param("repo"),
	}
}

// parseIntQuery parses an integer query parameter with a default value
func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// respondError sends an error response
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeUnauthorized:
			status = http.StatusUnauthorized
		case apperrors.ErrCodeForbidden:
			status = http.StatusForbidden
		case apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		case apperrors.ErrCodeRateLimited:
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrCodeInternal,
			"message": err.Error(),
		},
	})
}
