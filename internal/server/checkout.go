package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/pointsale/internal/audit/domain"
	catalogdomain "github.com/smallbiznis/pointsale/internal/catalog/domain"
	settlementdomain "github.com/smallbiznis/pointsale/internal/settlement/domain"
	"github.com/smallbiznis/pointsale/internal/tier"
)

type checkoutRequest struct {
	UsePoints bool   `json:"use_points"`
	Strategy  string `json:"strategy"`
}

type checkoutSummaryResponse struct {
	Username     string `json:"username"`
	DisplayTier  string `json:"display_tier"`
	Points       int64  `json:"points"`
	CashBalance  string `json:"cash_balance"`
	CartTotal    string `json:"cart_total"`
	TotalDisplay string `json:"total_display"`
}

type outcomeResponse struct {
	PointsSpent  int64  `json:"points_spent"`
	PointsEarned int64  `json:"points_earned"`
	CashPaid     string `json:"cash_paid"`
}

type checkoutResponse struct {
	Success  bool            `json:"success"`
	Strategy string          `json:"strategy"`
	Reason   string          `json:"reason,omitempty"`
	Account  accountResponse `json:"account"`
	Outcome  outcomeResponse `json:"outcome"`
}

func newCheckoutResponse(result settlementdomain.Result) checkoutResponse {
	return checkoutResponse{
		Success:  result.Success,
		Strategy: result.Strategy.String(),
		Reason:   result.Reason,
		Account:  newAccountResponse(result.Account),
		Outcome: outcomeResponse{
			PointsSpent:  result.Outcome.PointsSpent,
			PointsEarned: result.Outcome.PointsEarned,
			CashPaid:     result.Outcome.CashPaid.StringFixed(2),
		},
	}
}

// CheckoutSummary renders the cost screen. The tier shown here comes from
// the display thresholds, not the stored account tier.
func (s *Server) CheckoutSummary(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	account, err := s.customerSvc.Get(c.Request.Context(), identity.Username)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	thresholds := s.display.Get().Tiers
	cart := s.cartView(identity.Username)
	c.JSON(http.StatusOK, gin.H{"data": checkoutSummaryResponse{
		Username:     account.Username,
		DisplayTier:  tier.DisplayLabel(account.Points, thresholds).String(),
		Points:       account.Points,
		CashBalance:  account.CashBalance.StringFixed(2),
		CartTotal:    cart.Total,
		TotalDisplay: cart.TotalDisplay,
	}})
}

func (s *Server) Checkout(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	total, err := s.checkoutTotal(c, identity.Username)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.settlementSvc.Settle(c.Request.Context(), settlementdomain.PurchaseRequest{
		Username:  identity.Username,
		TotalCost: total,
		UsePoints: req.UsePoints,
		Strategy:  settlementdomain.Strategy(req.Strategy),
	})
	if errors.Is(err, settlementdomain.ErrInsufficientFunds) {
		_ = c.Error(err)
		c.JSON(http.StatusPaymentRequired, gin.H{"data": newCheckoutResponse(result)})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.carts.Clear(identity.Username)
	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionPurchase,
		TargetType: "account",
		TargetID:   result.Account.Username,
		Metadata: map[string]any{
			"strategy":      result.Strategy.String(),
			"total_cost":    total.StringFixed(2),
			"cash_paid":     result.Outcome.CashPaid.StringFixed(2),
			"points_spent":  result.Outcome.PointsSpent,
			"points_earned": result.Outcome.PointsEarned,
		},
	})
	c.JSON(http.StatusOK, gin.H{"data": newCheckoutResponse(result)})
}

// checkoutTotal prices the cart against the current catalog. Items removed
// from the catalog since they were added are dropped from the cart and the
// checkout is rejected.
func (s *Server) checkoutTotal(c *gin.Context, username string) (decimal.Decimal, error) {
	items := s.carts.Items(username)
	if len(items) == 0 {
		return decimal.Zero, newValidationError("cart", "empty_cart", "cart is empty")
	}

	total := decimal.Zero
	var unavailable []ValidationError
	for _, item := range items {
		current, err := s.catalogSvc.Get(c.Request.Context(), item.Title)
		if errors.Is(err, catalogdomain.ErrNotFound) {
			_ = s.carts.Remove(username, item.Title)
			unavailable = append(unavailable, ValidationError{
				Field:   "cart",
				Code:    "item_unavailable",
				Message: fmt.Sprintf("%s is no longer available", item.Title),
			})
			continue
		}
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(current.Price)
	}
	if len(unavailable) > 0 {
		return decimal.Zero, &ValidationErrors{Errors: unavailable}
	}
	return total, nil
}
