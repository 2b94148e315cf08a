package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/pointsale/internal/clock"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
	"github.com/smallbiznis/pointsale/internal/observability/logger"
	"github.com/smallbiznis/pointsale/internal/observability/metrics"
	"github.com/smallbiznis/pointsale/internal/observability/tracing"
	"github.com/smallbiznis/pointsale/internal/settlement/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tracerName = "pointsale/settlement"

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    customerdomain.Repository
	Clock   clock.Clock
	Metrics *metrics.SettlementMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    customerdomain.Repository
	clock   clock.Clock
	metrics *metrics.SettlementMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("settlement.service"),
		repo:    p.Repo,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// Settle applies the requested strategy to a working copy of the account and
// writes the full account set back only when the strategy succeeds.
func (s *Service) Settle(ctx context.Context, req domain.PurchaseRequest) (result domain.Result, err error) {
	strategy, err := domain.ParseStrategy(string(req.Strategy))
	if err != nil {
		return domain.Result{}, err
	}
	username := customerdomain.NormalizeUsername(req.Username)

	ctx, span := tracing.StartSpan(ctx, tracerName, "settlement.settle",
		attribute.String("strategy", strategy.String()),
		attribute.Bool("use_points", req.UsePoints),
	)
	defer func() { tracing.EndSpan(span, err) }()

	result = domain.Result{Strategy: strategy}
	if username == "" || req.TotalCost.IsNegative() {
		return result, domain.ErrInvalidArgument
	}

	stored, err := s.repo.FindByUsername(ctx, s.db, username)
	if err != nil {
		return result, s.fail(ctx, strategy, storageErr(err))
	}
	if stored == nil {
		return result, domain.ErrAccountNotFound
	}

	working := stored.Clone()
	outcome, err := domain.Apply(strategy, working, req.TotalCost, req.UsePoints)
	result.Account = *working
	result.Outcome = outcome
	if err != nil {
		result.Reason = err.Error()
		return result, s.fail(ctx, strategy, err)
	}

	working.UpdatedAt = s.clock.Now()
	if err := s.commit(ctx, username, working); err != nil {
		result.Account = *stored
		result.Reason = domain.ErrStorageUnavailable.Error()
		return result, s.fail(ctx, strategy, err)
	}

	result.Success = true
	result.Account = *working
	s.metrics.Observe(strategy.String(), metrics.OutcomeSuccess, outcome.PointsEarned, outcome.PointsSpent, outcome.CashPaid.InexactFloat64())
	logger.WithContext(ctx, s.log).Info("purchase settled",
		zap.String("username", username),
		zap.String("strategy", strategy.String()),
		zap.String("total_cost", req.TotalCost.StringFixed(2)),
		zap.String("cash_paid", outcome.CashPaid.StringFixed(2)),
		zap.Int64("points_spent", outcome.PointsSpent),
		zap.Int64("points_earned", outcome.PointsEarned),
		zap.Int64("points", working.Points),
		zap.String("tier", working.Tier.String()),
	)
	return result, nil
}

// commit replaces the account within the full stored set.
func (s *Service) commit(ctx context.Context, username string, account *customerdomain.Account) error {
	accounts, err := s.repo.LoadAll(ctx, s.db)
	if err != nil {
		return storageErr(err)
	}
	if _, ok := accounts[username]; !ok {
		return domain.ErrAccountNotFound
	}
	accounts[username] = account
	if err := s.repo.SaveAll(ctx, s.db, accounts); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *Service) fail(ctx context.Context, strategy domain.Strategy, err error) error {
	outcome := metrics.OutcomeError
	if errors.Is(err, domain.ErrInsufficientFunds) {
		outcome = metrics.OutcomeInsufficientFunds
	}
	s.metrics.Observe(strategy.String(), outcome, 0, 0, 0)
	logger.WithContext(ctx, s.log).Warn("purchase not settled",
		zap.String("strategy", strategy.String()),
		zap.String("outcome", outcome),
		zap.Error(err),
	)
	return err
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}
