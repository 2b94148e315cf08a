package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog records one state change made through the API.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	ActorRole  string            `gorm:"column:actor_role;type:text;not null" json:"actor_role"`
	Actor      *string           `gorm:"type:text" json:"actor,omitempty"`
	Action     string            `gorm:"type:text;not null;index:ix_audit_logs_action" json:"action"`
	TargetType string            `gorm:"column:target_type;type:text;not null" json:"target_type"`
	TargetID   *string           `gorm:"column:target_id;type:text" json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;index:ix_audit_logs_created_at" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// ActorSystem is recorded when no caller is attached to the context.
const ActorSystem = "system"

const (
	ActionItemCreated    = "catalog.item_created"
	ActionItemRemoved    = "catalog.item_removed"
	ActionAccountCreated = "account.created"
	ActionAccountRemoved = "account.removed"
	ActionBalanceSet     = "account.balance_set"
	ActionPurchase       = "checkout.settled"
)

type ListFilter struct {
	Action  string
	Actor   string
	StartAt *time.Time
	EndAt   *time.Time
	Limit   int
}
