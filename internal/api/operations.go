package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

const (
	defaultLogCount = 10
	minLogCount     = 1
	maxLogCount     = 20
)

// LogSource returns the last n log lines, most recent first
type LogSource interface {
	Tail(n int) ([]string, error)
}

// logsQuery binds the count parameter of the log-tail endpoint
type logsQuery struct {
	Count *int `form:"count"`
}

// OperationsHandler serves health and log inspection endpoints
type OperationsHandler struct {
	logs   LogSource
	logger zerolog.Logger
}

// NewOperationsHandler creates a new OperationsHandler instance
func NewOperationsHandler(logs LogSource, logger zerolog.Logger) *OperationsHandler {
	return &OperationsHandler{
		logs:   logs,
		logger: logger,
	}
}

// RegisterRoutes registers the operations routes
func (h *OperationsHandler) RegisterRoutes(router *gin.RouterGroup) {
	ops := router.Group("/operations")
	{
		ops.GET("/health", h.Health)
		ops.GET("/logs", h.Logs)
	}
}

// Health handles GET /api/operations/health
func (h *OperationsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Logs handles GET /api/operations/logs?count=N
func (h *OperationsHandler) Logs(c *gin.Context) {
	var q logsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, h.logger, &types.ValidationError{
			Field:   "count",
			Message: "must be an integer",
			Source:  types.SourceRequest,
		})
		return
	}

	count := defaultLogCount
	if q.Count != nil {
		count = *q.Count
	}
	if count < minLogCount || count > maxLogCount {
		respondError(c, h.logger, &types.ValidationError{
			Field:   "count",
			Message: "must be between 1 and 20",
			Source:  types.SourceRequest,
		})
		return
	}

	lines, err := h.logs.Tail(count)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, lines)
}
