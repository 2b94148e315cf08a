package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pointsale/internal/tier"
)

var (
	redemptionUnit = decimal.NewFromInt(100) // points per $1 of discount
	earnUnit       = decimal.NewFromInt(10)  // points per $1 of cash paid
)

// NormalizeUsername is the lookup key for accounts.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// DeductCash removes amount from the balance. It reports false without
// touching the account when the balance cannot cover amount.
func (a *Account) DeductCash(amount decimal.Decimal) (bool, error) {
	if amount.IsNegative() {
		return false, ErrInvalidArgument
	}
	if amount.GreaterThan(a.CashBalance) {
		return false, nil
	}
	a.CashBalance = a.CashBalance.Sub(amount)
	return true, nil
}

func (a *Account) AddPoints(n int64) error {
	if n < 0 {
		return ErrInvalidArgument
	}
	a.Points += n
	a.reclassify()
	return nil
}

// SetPoints overwrites the point total, as on restore or redemption.
func (a *Account) SetPoints(n int64) error {
	if n < 0 {
		return ErrInvalidArgument
	}
	a.Points = n
	a.reclassify()
	return nil
}

// RedeemPoints spends up to cost*100 points and returns the cost left after
// the discount. The spend is applied immediately and is not undone if a
// later cash deduction fails.
func (a *Account) RedeemPoints(cost decimal.Decimal) (decimal.Decimal, error) {
	if cost.IsNegative() {
		return decimal.Zero, ErrInvalidArgument
	}
	redeemable := cost.Mul(redemptionUnit).Floor().IntPart()
	if a.Points < redeemable {
		redeemable = a.Points
	}
	discount := decimal.New(redeemable, -2)
	a.Points -= redeemable
	a.reclassify()
	return cost.Sub(discount), nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidArgument
	}
	a.CashBalance = a.CashBalance.Add(amount)
	return nil
}

// SetBalance overwrites the cash balance.
func (a *Account) SetBalance(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidArgument
	}
	a.CashBalance = amount
	return nil
}

func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

func (a *Account) reclassify() {
	a.Tier = tier.Transition(a.Tier, a.Points)
}

// EarnedPoints converts cash actually paid into earned points, floored.
func EarnedPoints(cashPaid decimal.Decimal) int64 {
	if !cashPaid.IsPositive() {
		return 0
	}
	return cashPaid.Mul(earnUnit).Floor().IntPart()
}
