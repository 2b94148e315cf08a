package domain

import (
	"strings"
)

type Strategy string

const (
	// StrategyRedeemThenPay redeems points as a discount at 100 points per
	// dollar, then charges the reduced cost.
	StrategyRedeemThenPay Strategy = "redeem_then_pay"
	// StrategyThresholdSettle values points at 10 per dollar and settles
	// from points first, then cash.
	StrategyThresholdSettle Strategy = "threshold_settle"
)

// DefaultStrategy settles checkout requests that do not name a strategy.
const DefaultStrategy = StrategyThresholdSettle

func (s Strategy) String() string { return string(s) }

// ParseStrategy maps a request value onto a strategy. Blank selects the default.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultStrategy, nil
	case StrategyRedeemThenPay:
		return StrategyRedeemThenPay, nil
	case StrategyThresholdSettle:
		return StrategyThresholdSettle, nil
	default:
		return "", ErrUnknownStrategy
	}
}
