package domain

import (
	"context"

	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
)

type Service interface {
	Settle(ctx context.Context, req PurchaseRequest) (Result, error)
}

type PurchaseRequest struct {
	Username  string          `json:"username"`
	TotalCost decimal.Decimal `json:"total_cost"`
	UsePoints bool            `json:"use_points"`
	Strategy  Strategy        `json:"strategy"`
}

// Result reports a settlement attempt. Account is the post-strategy
// snapshot; it is persisted only when Success is true.
type Result struct {
	Success  bool                   `json:"success"`
	Strategy Strategy               `json:"strategy"`
	Account  customerdomain.Account `json:"account"`
	Outcome  Outcome                `json:"outcome"`
	Reason   string                 `json:"reason,omitempty"`
}
