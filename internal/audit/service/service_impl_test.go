package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/pointsale/internal/audit/domain"
	"github.com/smallbiznis/pointsale/internal/audit/repository"
	"github.com/smallbiznis/pointsale/internal/clock"
	obscontext "github.com/smallbiznis/pointsale/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type failingRepo struct {
	domain.Repository
}

func (failingRepo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	return errors.New("disk full")
}

func setupService(t *testing.T, repo domain.Repository) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	if repo == nil {
		repo = repository.Provide()
	}
	clk := clock.NewFakeClock(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))
	return NewService(Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: repo, Clock: clk}), clk
}

func TestRecordUsesContextActor(t *testing.T) {
	svc, clk := setupService(t, nil)
	ctx := obscontext.WithActor(context.Background(), "owner", "admin")
	ctx = obscontext.WithRequestID(ctx, "req-1")

	require.NoError(t, svc.Record(ctx, domain.Entry{
		Action:     domain.ActionItemCreated,
		TargetType: "catalog_item",
		TargetID:   "Dune",
		Metadata:   map[string]any{"price": "50.00", "": "dropped"},
	}))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Record(context.Background(), domain.Entry{Action: domain.ActionPurchase}))

	logs, err := svc.List(context.Background(), domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, domain.ActionPurchase, logs[0].Action)
	assert.Equal(t, domain.ActorSystem, logs[0].ActorRole)
	assert.Nil(t, logs[0].Actor)
	assert.Equal(t, "unknown", logs[0].TargetType)

	first := logs[1]
	assert.Equal(t, "owner", first.ActorRole)
	require.NotNil(t, first.Actor)
	assert.Equal(t, "admin", *first.Actor)
	require.NotNil(t, first.TargetID)
	assert.Equal(t, "Dune", *first.TargetID)
	assert.Equal(t, "50.00", first.Metadata["price"])
	assert.Equal(t, "req-1", first.Metadata["request_id"])
	assert.NotContains(t, first.Metadata, "")
}

func TestListFilters(t *testing.T) {
	svc, _ := setupService(t, nil)
	owner := obscontext.WithActor(context.Background(), "owner", "admin")
	customer := obscontext.WithActor(context.Background(), "customer", "alice")

	require.NoError(t, svc.Record(owner, domain.Entry{Action: domain.ActionAccountCreated, TargetID: "alice"}))
	require.NoError(t, svc.Record(customer, domain.Entry{Action: domain.ActionPurchase, TargetID: "alice"}))
	require.NoError(t, svc.Record(customer, domain.Entry{Action: domain.ActionPurchase, TargetID: "alice"}))

	logs, err := svc.List(context.Background(), domain.ListRequest{Action: domain.ActionPurchase})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = svc.List(context.Background(), domain.ListRequest{Actor: "admin"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ActionAccountCreated, logs[0].Action)

	logs, err = svc.List(context.Background(), domain.ListRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	start := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = svc.List(context.Background(), domain.ListRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestRecordValidation(t *testing.T) {
	svc, _ := setupService(t, nil)
	assert.ErrorIs(t, svc.Record(context.Background(), domain.Entry{Action: "  "}), domain.ErrInvalidAction)

	broken, _ := setupService(t, failingRepo{})
	assert.Error(t, broken.Record(context.Background(), domain.Entry{Action: domain.ActionPurchase}))
}
