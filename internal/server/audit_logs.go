package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/pointsale/internal/audit/domain"
	"go.uber.org/zap"
)

// recordAudit writes an audit entry. A failed write is logged and does not
// fail the request that already succeeded.
func (s *Server) recordAudit(c *gin.Context, entry auditdomain.Entry) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.Record(c.Request.Context(), entry); err != nil {
		s.log.Warn("audit record failed", zap.String("action", entry.Action), zap.Error(err))
	}
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	req := auditdomain.ListRequest{
		Action: strings.TrimSpace(c.Query("action")),
		Actor:  strings.TrimSpace(c.Query("actor")),
	}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a positive integer"))
			return
		}
		req.Limit = limit
	}

	var ok bool
	if req.StartAt, ok = parseQueryTime(c, "start_at"); !ok {
		return
	}
	if req.EndAt, ok = parseQueryTime(c, "end_at"); !ok {
		return
	}

	logs, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auditdomain.ErrInvalidTimeRange) {
			AbortWithError(c, newValidationError("start_at", "invalid_time_range", "start_at must be before end_at"))
			return
		}
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}

func parseQueryTime(c *gin.Context, key string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		AbortWithError(c, newValidationError(key, "invalid_"+key, "must be an RFC3339 timestamp"))
		return nil, false
	}
	return &parsed, true
}
