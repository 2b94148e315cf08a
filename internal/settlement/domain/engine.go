package domain

import (
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
)

// pointsPerDollar is the value of points when settling with ThresholdSettle.
var pointsPerDollar = decimal.NewFromInt(10)

// Outcome describes the movements a strategy applied to an account.
type Outcome struct {
	PointsSpent  int64           `json:"points_spent"`
	PointsEarned int64           `json:"points_earned"`
	CashPaid     decimal.Decimal `json:"cash_paid"`
}

// Apply runs the named strategy against acct.
func Apply(strategy Strategy, acct *customerdomain.Account, totalCost decimal.Decimal, usePoints bool) (Outcome, error) {
	switch strategy {
	case StrategyRedeemThenPay:
		return RedeemThenPay(acct, totalCost, usePoints)
	case StrategyThresholdSettle:
		return ThresholdSettle(acct, totalCost, usePoints)
	default:
		return Outcome{}, ErrUnknownStrategy
	}
}

// RedeemThenPay spends points up front when usePoints is set, then charges
// the remaining cost in cash and credits earned points on what was paid.
//
// Points redeemed in the first step stay spent on acct when the cash
// deduction fails. Callers that must not lose them work on a clone.
func RedeemThenPay(acct *customerdomain.Account, totalCost decimal.Decimal, usePoints bool) (Outcome, error) {
	if acct == nil || totalCost.IsNegative() {
		return Outcome{}, ErrInvalidArgument
	}

	var out Outcome
	reduced := totalCost
	if usePoints {
		before := acct.Points
		var err error
		reduced, err = acct.RedeemPoints(totalCost)
		if err != nil {
			return Outcome{}, err
		}
		out.PointsSpent = before - acct.Points
	}

	ok, err := acct.DeductCash(reduced)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, ErrInsufficientFunds
	}

	out.CashPaid = reduced
	out.PointsEarned = customerdomain.EarnedPoints(reduced)
	if err := acct.AddPoints(out.PointsEarned); err != nil {
		return out, err
	}
	return out, nil
}

// ThresholdSettle covers the cost from points valued at 10 per dollar,
// falling back to cash for the remainder. When neither covers the cost the
// account is left untouched.
func ThresholdSettle(acct *customerdomain.Account, totalCost decimal.Decimal, usePoints bool) (Outcome, error) {
	if acct == nil || totalCost.IsNegative() {
		return Outcome{}, ErrInvalidArgument
	}
	if !usePoints {
		return payCash(acct, totalCost)
	}

	pointsValue := decimal.NewFromInt(acct.Points).Div(pointsPerDollar)
	remaining := totalCost.Sub(pointsValue)

	switch {
	case !remaining.IsPositive():
		// Points alone cover the cost: charge floor(cost*10) points.
		// cost*10 <= points here, so the result never goes negative.
		cost := totalCost.Mul(pointsPerDollar).Floor().IntPart()
		if err := acct.SetPoints(acct.Points - cost); err != nil {
			return Outcome{}, err
		}
		return Outcome{PointsSpent: cost, CashPaid: decimal.Zero}, nil

	case acct.CashBalance.GreaterThanOrEqual(remaining):
		spent := acct.Points
		if err := acct.SetPoints(0); err != nil {
			return Outcome{}, err
		}
		if _, err := acct.DeductCash(remaining); err != nil {
			return Outcome{}, err
		}
		earned := customerdomain.EarnedPoints(remaining)
		if err := acct.AddPoints(earned); err != nil {
			return Outcome{}, err
		}
		return Outcome{PointsSpent: spent, PointsEarned: earned, CashPaid: remaining}, nil

	default:
		return Outcome{}, ErrInsufficientFunds
	}
}

func payCash(acct *customerdomain.Account, totalCost decimal.Decimal) (Outcome, error) {
	if acct.CashBalance.LessThan(totalCost) {
		return Outcome{}, ErrInsufficientFunds
	}
	if _, err := acct.DeductCash(totalCost); err != nil {
		return Outcome{}, err
	}
	earned := customerdomain.EarnedPoints(totalCost)
	if err := acct.AddPoints(earned); err != nil {
		return Outcome{}, err
	}
	return Outcome{PointsEarned: earned, CashPaid: totalCost}, nil
}
