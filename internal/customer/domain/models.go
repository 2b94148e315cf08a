package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pointsale/internal/tier"
)

// Account is a customer's loyalty account: cash on file, points, and the
// tier derived from those points.
type Account struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	Username     string          `gorm:"type:text;not null;uniqueIndex:ux_customer_accounts_username" json:"username"`
	PasswordHash string          `gorm:"column:password_hash;type:text;not null" json:"-"`
	CashBalance  decimal.Decimal `gorm:"column:cash_balance;type:numeric(14,2);not null;default:0" json:"cash_balance"`
	Points       int64           `gorm:"not null;default:0" json:"points"`
	Tier         tier.Tier       `gorm:"type:text;not null;default:'Silver'" json:"tier"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Account) TableName() string { return "customer_accounts" }

// NewAccount returns a freshly registered account: zero points, Silver tier.
func NewAccount(id snowflake.ID, username, passwordHash string, balance decimal.Decimal, now time.Time) *Account {
	return &Account{
		ID:           id,
		Username:     NormalizeUsername(username),
		PasswordHash: passwordHash,
		CashBalance:  balance,
		Points:       0,
		Tier:         tier.Silver,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
