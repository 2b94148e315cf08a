package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/pointsale/internal/audit/domain"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
)

type createAccountRequest struct {
	Username       string           `json:"username"`
	Password       string           `json:"password"`
	InitialBalance *decimal.Decimal `json:"initial_balance"`
}

type balanceRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type accountResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	CashBalance string    `json:"cash_balance"`
	Points      int64     `json:"points"`
	Tier        string    `json:"tier"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newAccountResponse(a customerdomain.Account) accountResponse {
	return accountResponse{
		ID:          a.ID.String(),
		Username:    a.Username,
		CashBalance: a.CashBalance.StringFixed(2),
		Points:      a.Points,
		Tier:        a.Tier.String(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (s *Server) ListAccounts(c *gin.Context) {
	accounts, err := s.customerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, newAccountResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = *req.InitialBalance
	}

	account, err := s.customerSvc.Register(c.Request.Context(), customerdomain.RegisterRequest{
		Username:       req.Username,
		Password:       req.Password,
		InitialBalance: balance,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionAccountCreated,
		TargetType: "account",
		TargetID:   account.Username,
		Metadata:   map[string]any{"initial_balance": account.CashBalance.StringFixed(2)},
	})
	c.JSON(http.StatusCreated, gin.H{"data": newAccountResponse(account)})
}

func (s *Server) DeleteAccount(c *gin.Context) {
	username := c.Param("username")
	if err := s.customerSvc.Remove(c.Request.Context(), username); err != nil {
		AbortWithError(c, err)
		return
	}
	s.carts.Clear(username)
	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionAccountRemoved,
		TargetType: "account",
		TargetID:   customerdomain.NormalizeUsername(username),
	})
	c.Status(http.StatusNoContent)
}

// SetAccountBalance overwrites the balance with the given amount.
func (s *Server) SetAccountBalance(c *gin.Context) {
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	account, err := s.customerSvc.AdjustBalance(c.Request.Context(), customerdomain.AdjustBalanceRequest{
		Username: c.Param("username"),
		Amount:   *req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionBalanceSet,
		TargetType: "account",
		TargetID:   account.Username,
		Metadata:   map[string]any{"cash_balance": account.CashBalance.StringFixed(2)},
	})
	c.JSON(http.StatusOK, gin.H{"data": newAccountResponse(account)})
}
