package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/smallbiznis/pointsale/internal/auth/domain"
	"github.com/smallbiznis/pointsale/internal/auth/password"
	"github.com/smallbiznis/pointsale/internal/auth/token"
	"github.com/smallbiznis/pointsale/internal/clock"
	"github.com/smallbiznis/pointsale/internal/config"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	Accounts customerdomain.Repository
	Issuer   *token.Issuer
	Clock    clock.Clock
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	accounts      customerdomain.Repository
	issuer        *token.Issuer
	clock         clock.Clock
	adminUsername string
	adminPassword string
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("auth.service"),
		accounts:      p.Accounts,
		issuer:        p.Issuer,
		clock:         p.Clock,
		adminUsername: customerdomain.NormalizeUsername(p.Cfg.AdminUsername),
		adminPassword: p.Cfg.AdminPassword,
	}
}

// Login resolves credentials to a role. The configured administrative
// identity is the owner; any stored account whose hash verifies is a customer.
func (s *Service) Login(ctx context.Context, username, secret string) (domain.Session, error) {
	username = customerdomain.NormalizeUsername(username)
	if username == "" || secret == "" {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	identity, err := s.resolve(ctx, username, secret)
	if err != nil {
		s.log.Info("login rejected", zap.String("username", username), zap.Error(err))
		return domain.Session{}, err
	}

	raw, expiresAt, err := s.issuer.Issue(identity, s.clock.Now())
	if err != nil {
		return domain.Session{}, err
	}

	s.log.Info("login succeeded", zap.String("username", username), zap.String("role", string(identity.Role)))
	return domain.Session{Identity: identity, Token: raw, ExpiresAt: expiresAt}, nil
}

func (s *Service) resolve(ctx context.Context, username, secret string) (domain.Identity, error) {
	if s.adminUsername != "" && username == s.adminUsername {
		if subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminPassword)) != 1 {
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{Username: username, Role: domain.RoleOwner}, nil
	}

	account, err := s.accounts.FindByUsername(ctx, s.db, username)
	if err != nil {
		return domain.Identity{}, err
	}
	if account == nil || !password.Verify(secret, account.PasswordHash) {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	return domain.Identity{Username: account.Username, Role: domain.RoleCustomer}, nil
}

func (s *Service) Authenticate(ctx context.Context, raw string) (domain.Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Identity{}, domain.ErrInvalidSession
	}
	return s.issuer.Parse(raw, s.clock.Now())
}
