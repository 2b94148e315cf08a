package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pointsale/internal/auth/password"
	"github.com/smallbiznis/pointsale/internal/clock"
	"github.com/smallbiznis/pointsale/internal/config"
	"github.com/smallbiznis/pointsale/internal/customer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
	Cfg   config.Config
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	clock         clock.Clock
	adminUsername string
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("customer.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		clock:         p.Clock,
		adminUsername: domain.NormalizeUsername(p.Cfg.AdminUsername),
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.Account, error) {
	username := domain.NormalizeUsername(req.Username)
	if username == "" {
		return domain.Account{}, domain.ErrInvalidName
	}
	if s.adminUsername != "" && username == s.adminUsername {
		return domain.Account{}, domain.ErrReservedUsername
	}
	if len(username) < minUsernameLength {
		return domain.Account{}, domain.ErrInvalidUsername
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return domain.Account{}, domain.ErrInvalidPassword
	}
	if req.InitialBalance.IsNegative() {
		return domain.Account{}, domain.ErrInvalidArgument
	}

	accounts, err := s.repo.LoadAll(ctx, s.db)
	if err != nil {
		return domain.Account{}, storageErr(err)
	}
	if _, exists := accounts[username]; exists {
		return domain.Account{}, domain.ErrDuplicateAccount
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.NewAccount(s.genID.Generate(), username, hash, req.InitialBalance, s.clock.Now())
	accounts[username] = account
	if err := s.repo.SaveAll(ctx, s.db, accounts); err != nil {
		return domain.Account{}, storageErr(err)
	}

	s.log.Info("account registered", zap.String("username", username))
	return *account, nil
}

func (s *Service) Remove(ctx context.Context, username string) error {
	username = domain.NormalizeUsername(username)
	accounts, err := s.repo.LoadAll(ctx, s.db)
	if err != nil {
		return storageErr(err)
	}
	if _, exists := accounts[username]; !exists {
		return domain.ErrNotFound
	}

	delete(accounts, username)
	if err := s.repo.SaveAll(ctx, s.db, accounts); err != nil {
		return storageErr(err)
	}

	s.log.Info("account removed", zap.String("username", username))
	return nil
}

func (s *Service) AdjustBalance(ctx context.Context, req domain.AdjustBalanceRequest) (domain.Account, error) {
	username := domain.NormalizeUsername(req.Username)
	accounts, err := s.repo.LoadAll(ctx, s.db)
	if err != nil {
		return domain.Account{}, storageErr(err)
	}
	account, exists := accounts[username]
	if !exists {
		return domain.Account{}, domain.ErrNotFound
	}
	if err := account.SetBalance(req.Amount); err != nil {
		return domain.Account{}, err
	}
	account.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveAll(ctx, s.db, accounts); err != nil {
		return domain.Account{}, storageErr(err)
	}

	s.log.Info("account balance set",
		zap.String("username", username),
		zap.String("balance", req.Amount.StringFixed(2)),
	)
	return *account, nil
}

func (s *Service) Get(ctx context.Context, username string) (domain.Account, error) {
	account, err := s.repo.FindByUsername(ctx, s.db, username)
	if err != nil {
		return domain.Account{}, storageErr(err)
	}
	if account == nil {
		return domain.Account{}, domain.ErrNotFound
	}
	return *account, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.LoadAll(ctx, s.db)
	if err != nil {
		return nil, storageErr(err)
	}

	out := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, *account)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}
