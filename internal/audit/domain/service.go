package domain

import (
	"context"
	"errors"
	"time"
)

// Entry is what a caller records. The actor and request id come from the
// context.
type Entry struct {
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

type ListRequest struct {
	Action  string
	Actor   string
	StartAt *time.Time
	EndAt   *time.Time
	Limit   int
}

type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListRequest) ([]AuditLog, error)
}

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
