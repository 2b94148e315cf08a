package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pointsale/internal/clock"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
	customerrepo "github.com/smallbiznis/pointsale/internal/customer/repository"
	"github.com/smallbiznis/pointsale/internal/migration"
	"github.com/smallbiznis/pointsale/internal/observability/metrics"
	"github.com/smallbiznis/pointsale/internal/settlement/domain"
	"github.com/smallbiznis/pointsale/internal/settlement/service"
	"github.com/smallbiznis/pointsale/internal/tier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type failingSaveRepo struct {
	customerdomain.Repository
	err error
}

func (r failingSaveRepo) SaveAll(ctx context.Context, db *gorm.DB, accounts map[string]*customerdomain.Account) error {
	return r.err
}

type fixture struct {
	db      *gorm.DB
	repo    customerdomain.Repository
	clock   *clock.FakeClock
	metrics *metrics.SettlementMetrics
	reg     *metrics.Registry
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migration.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	reg := metrics.NewIsolatedRegistry()
	return &fixture{
		db:      db,
		repo:    customerrepo.Provide(),
		clock:   clock.NewFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)),
		metrics: metrics.NewSettlementMetrics(reg, metrics.Config{ServiceName: "pointsale", Environment: "test"}),
		reg:     reg,
	}
}

func (f *fixture) seed(t *testing.T, accounts ...*customerdomain.Account) {
	t.Helper()
	set := make(map[string]*customerdomain.Account, len(accounts))
	for _, a := range accounts {
		set[a.Username] = a
	}
	if err := f.repo.SaveAll(context.Background(), f.db, set); err != nil {
		t.Fatalf("seed accounts: %v", err)
	}
}

func (f *fixture) service(repo customerdomain.Repository) domain.Service {
	return service.New(service.Params{
		DB:      f.db,
		Log:     zap.NewNop(),
		Repo:    repo,
		Clock:   f.clock,
		Metrics: f.metrics,
	})
}

func (f *fixture) load(t *testing.T, username string) *customerdomain.Account {
	t.Helper()
	a, err := f.repo.FindByUsername(context.Background(), f.db, username)
	if err != nil {
		t.Fatalf("find %s: %v", username, err)
	}
	if a == nil {
		t.Fatalf("account %s missing", username)
	}
	return a
}

func newAccount(id int64, username string, points int64, balance string) *customerdomain.Account {
	a := customerdomain.NewAccount(snowflake.ID(id), username, "hash", decimal.RequireFromString(balance), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	_ = a.SetPoints(points)
	return a
}

func TestSettleCommitsOnSuccess(t *testing.T) {
	f := setupFixture(t)
	f.seed(t, newAccount(1, "alice", 50, "100"), newAccount(2, "bob", 1500, "0"))
	svc := f.service(f.repo)

	res, err := svc.Settle(context.Background(), domain.PurchaseRequest{
		Username:  "Alice",
		TotalCost: decimal.NewFromInt(10),
		UsePoints: true,
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !res.Success || res.Strategy != domain.StrategyThresholdSettle {
		t.Fatalf("unexpected result %+v", res)
	}

	alice := f.load(t, "alice")
	if alice.Points != 50 || !alice.CashBalance.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("expected 50 points and 95 cash, got %d and %s", alice.Points, alice.CashBalance)
	}
	if !alice.UpdatedAt.Equal(f.clock.Now()) {
		t.Fatalf("expected updated_at to follow the clock, got %s", alice.UpdatedAt)
	}

	bob := f.load(t, "bob")
	if bob.Points != 1500 || bob.Tier != tier.Gold {
		t.Fatalf("other accounts must survive the full overwrite, got %+v", bob)
	}

	count, err := testutil.GatherAndCount(f.reg.Gatherer, "pointsale_settlements_total", "pointsale_points_earned_total", "pointsale_points_spent_total")
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 settlement series, got %d", count)
	}
}

func TestSettleInsufficientFundsCommitsNothing(t *testing.T) {
	f := setupFixture(t)
	f.seed(t, newAccount(1, "alice", 300, "1"))
	svc := f.service(f.repo)

	res, err := svc.Settle(context.Background(), domain.PurchaseRequest{
		Username:  "alice",
		TotalCost: decimal.NewFromInt(10),
		UsePoints: true,
		Strategy:  domain.StrategyRedeemThenPay,
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if res.Success {
		t.Fatalf("expected failed result")
	}
	if res.Account.Points != 0 || res.Outcome.PointsSpent != 300 {
		t.Fatalf("snapshot should show the redeemed points, got %+v", res)
	}
	if res.Reason != domain.ErrInsufficientFunds.Error() {
		t.Fatalf("unexpected reason %q", res.Reason)
	}

	stored := f.load(t, "alice")
	if stored.Points != 300 || !stored.CashBalance.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("failed settlement must not be persisted, got %+v", stored)
	}
}

func TestSettleUnknownAccount(t *testing.T) {
	f := setupFixture(t)
	svc := f.service(f.repo)

	_, err := svc.Settle(context.Background(), domain.PurchaseRequest{Username: "ghost", TotalCost: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected account not found, got %v", err)
	}
}

func TestSettleRejectsInvalidInput(t *testing.T) {
	f := setupFixture(t)
	f.seed(t, newAccount(1, "alice", 0, "10"))
	svc := f.service(f.repo)

	_, err := svc.Settle(context.Background(), domain.PurchaseRequest{Username: "alice", TotalCost: decimal.NewFromInt(-1)})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	_, err = svc.Settle(context.Background(), domain.PurchaseRequest{Username: "alice", TotalCost: decimal.NewFromInt(1), Strategy: "barter"})
	if !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Fatalf("expected unknown strategy, got %v", err)
	}
}

func TestSettleStorageFailureReportsFailure(t *testing.T) {
	f := setupFixture(t)
	f.seed(t, newAccount(1, "alice", 0, "50"))
	svc := f.service(failingSaveRepo{Repository: f.repo, err: errors.New("disk full")})

	res, err := svc.Settle(context.Background(), domain.PurchaseRequest{Username: "alice", TotalCost: decimal.NewFromInt(20)})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if res.Success {
		t.Fatalf("expected failed result")
	}
	if !res.Account.CashBalance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("failed commit should report the stored account, got %s", res.Account.CashBalance)
	}

	stored := f.load(t, "alice")
	if !stored.CashBalance.Equal(decimal.NewFromInt(50)) || stored.Points != 0 {
		t.Fatalf("nothing should be committed, got %+v", stored)
	}
}
