package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
	"github.com/smallbiznis/pointsale/internal/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func account(points int64, balance string) *customerdomain.Account {
	a := &customerdomain.Account{Username: "alice", CashBalance: dec(balance), Tier: tier.Silver}
	_ = a.SetPoints(points)
	return a
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s", want, got.String())
}

func TestThresholdSettlePointsFullyCover(t *testing.T) {
	a := account(1500, "20")

	out, err := ThresholdSettle(a, dec("10"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(1400), a.Points)
	assertMoney(t, "20", a.CashBalance)
	assert.Equal(t, tier.Gold, a.Tier)
	assert.Equal(t, int64(100), out.PointsSpent)
	assert.Equal(t, int64(0), out.PointsEarned)
	assertMoney(t, "0", out.CashPaid)
}

func TestThresholdSettleExactCoverIsFullCover(t *testing.T) {
	a := account(100, "0")

	_, err := ThresholdSettle(a, dec("10"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.Points)
	assertMoney(t, "0", a.CashBalance)
}

func TestThresholdSettleFractionalCostFloorsPointCharge(t *testing.T) {
	a := account(105, "0")

	out, err := ThresholdSettle(a, dec("10.49"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(104), out.PointsSpent)
	assert.Equal(t, int64(1), a.Points)
}

func TestThresholdSettlePartialPointsAndCash(t *testing.T) {
	a := account(50, "100")

	out, err := ThresholdSettle(a, dec("10"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(50), a.Points)
	assertMoney(t, "95", a.CashBalance)
	assert.Equal(t, int64(50), out.PointsSpent)
	assert.Equal(t, int64(50), out.PointsEarned)
	assertMoney(t, "5", out.CashPaid)
}

func TestThresholdSettleInsufficientLeavesAccountUntouched(t *testing.T) {
	a := account(0, "3")
	before := *a

	_, err := ThresholdSettle(a, dec("10"), true)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, before.Points, a.Points)
	assertMoney(t, "3", a.CashBalance)

	a = account(20, "7")
	_, err = ThresholdSettle(a, dec("10"), true)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(20), a.Points)
	assertMoney(t, "7", a.CashBalance)
}

func TestThresholdSettleCashOnly(t *testing.T) {
	a := account(990, "50")

	out, err := ThresholdSettle(a, dec("12.34"), false)
	require.NoError(t, err)
	assertMoney(t, "37.66", a.CashBalance)
	assert.Equal(t, int64(123), out.PointsEarned)
	assert.Equal(t, int64(1113), a.Points)
	assert.Equal(t, tier.Gold, a.Tier)

	a = account(5000, "1")
	_, err = ThresholdSettle(a, dec("2"), false)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(5000), a.Points)
	assertMoney(t, "1", a.CashBalance)
}

func TestRedeemThenPayRedemptionCoversCost(t *testing.T) {
	a := account(1200, "5")

	out, err := RedeemThenPay(a, dec("10"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(200), a.Points)
	assertMoney(t, "5", a.CashBalance)
	assert.Equal(t, int64(1000), out.PointsSpent)
	assert.Equal(t, int64(0), out.PointsEarned)
	assertMoney(t, "0", out.CashPaid)
	assert.Equal(t, tier.Silver, a.Tier)
}

func TestRedeemThenPayPartialRedemption(t *testing.T) {
	a := account(250, "100")

	out, err := RedeemThenPay(a, dec("10"), true)
	require.NoError(t, err)
	assertMoney(t, "92.5", a.CashBalance)
	assertMoney(t, "7.5", out.CashPaid)
	assert.Equal(t, int64(250), out.PointsSpent)
	assert.Equal(t, int64(75), out.PointsEarned)
	assert.Equal(t, int64(75), a.Points)
}

func TestRedeemThenPayFailureKeepsPointsSpent(t *testing.T) {
	a := account(300, "1")

	out, err := RedeemThenPay(a, dec("10"), true)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	// Known defect: redeemed points are not restored on the account.
	assert.Equal(t, int64(0), a.Points)
	assert.Equal(t, int64(300), out.PointsSpent)
	assertMoney(t, "1", a.CashBalance)
}

func TestRedeemThenPayWithoutPoints(t *testing.T) {
	a := account(40, "20")

	out, err := RedeemThenPay(a, dec("20"), false)
	require.NoError(t, err)
	assertMoney(t, "0", a.CashBalance)
	assert.Equal(t, int64(240), a.Points)
	assert.Equal(t, int64(0), out.PointsSpent)
	assert.Equal(t, int64(200), out.PointsEarned)
}

// The two strategies value points differently (100 vs 10 per dollar). The
// same purchase settles differently under each.
func TestStrategiesDisagreeOnPartialCoverage(t *testing.T) {
	a := account(500, "100")
	b := account(500, "100")

	_, err := RedeemThenPay(a, dec("10"), true)
	require.NoError(t, err)
	_, err = ThresholdSettle(b, dec("10"), true)
	require.NoError(t, err)

	assertMoney(t, "95", a.CashBalance)
	assert.Equal(t, int64(50), a.Points)

	assertMoney(t, "100", b.CashBalance)
	assert.Equal(t, int64(400), b.Points)
}

func TestNegativeCostRejectedBeforeMutation(t *testing.T) {
	for _, fn := range []func(*customerdomain.Account, decimal.Decimal, bool) (Outcome, error){RedeemThenPay, ThresholdSettle} {
		a := account(100, "10")
		_, err := fn(a, dec("-1"), true)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorIs(t, err, customerdomain.ErrInvalidArgument)
		assert.Equal(t, int64(100), a.Points)
		assertMoney(t, "10", a.CashBalance)
	}
	_, err := ThresholdSettle(nil, dec("1"), false)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestZeroCostSucceeds(t *testing.T) {
	a := account(0, "0")
	_, err := ThresholdSettle(a, decimal.Zero, true)
	require.NoError(t, err)
	_, err = RedeemThenPay(a, decimal.Zero, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.Points)
}

func TestApplyDispatch(t *testing.T) {
	a := account(1200, "0")
	_, err := Apply(StrategyRedeemThenPay, a, dec("10"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(200), a.Points)

	_, err = Apply(Strategy("bogus"), a, dec("1"), true)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"":                   StrategyThresholdSettle,
		"redeem_then_pay":    StrategyRedeemThenPay,
		" Threshold_Settle ": StrategyThresholdSettle,
	}
	for input, want := range cases {
		got, err := ParseStrategy(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}
	_, err := ParseStrategy("cash")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestTierTracksPointsAcrossSettlements(t *testing.T) {
	a := account(995, "1000")
	steps := []struct {
		strategy  Strategy
		cost      string
		usePoints bool
	}{
		{StrategyThresholdSettle, "1", false},
		{StrategyRedeemThenPay, "5", true},
		{StrategyThresholdSettle, "200", false},
		{StrategyThresholdSettle, "300", true},
	}
	for _, step := range steps {
		_, err := Apply(step.strategy, a, dec(step.cost), step.usePoints)
		require.NoError(t, err)
		assert.Equal(t, tier.Classify(a.Points), a.Tier)
		assert.False(t, a.CashBalance.IsNegative())
	}
}
