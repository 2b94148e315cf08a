package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectCatalog  = "catalog"
	ObjectAccount  = "account"
	ObjectCart     = "cart"
	ObjectCheckout = "checkout"
	ObjectAudit    = "audit"
)

const (
	ActionCatalogView   = "catalog.view"
	ActionCatalogCreate = "catalog.create"
	ActionCatalogDelete = "catalog.delete"

	ActionAccountView    = "account.view"
	ActionAccountCreate  = "account.create"
	ActionAccountDelete  = "account.delete"
	ActionAccountBalance = "account.balance"

	ActionCartView   = "cart.view"
	ActionCartUpdate = "cart.update"

	ActionCheckoutView   = "checkout.view"
	ActionCheckoutSettle = "checkout.settle"

	ActionAuditView = "audit.view"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

// Authorize checks that the role may perform action on object. The user is
// linked to its role before enforcement so a role change takes effect on the
// next request.
func (s *ServiceImpl) Authorize(ctx context.Context, username, role, object, action string) error {
	username = strings.TrimSpace(username)
	role = strings.ToLower(strings.TrimSpace(role))
	if username == "" || role == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("user:%s", username)
	roleName := fmt.Sprintf("role:%s", role)
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Info("authorization denied",
			zap.String("subject", subject),
			zap.String("role", roleName),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) ensureGrouping(subject, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		if _, err := s.enforcer.RemoveGroupingPolicy(rule[0], rule[1]); err != nil {
			return err
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Owner manages the catalog and customer accounts.
		{"role:owner", ObjectCatalog, ActionCatalogView},
		{"role:owner", ObjectCatalog, ActionCatalogCreate},
		{"role:owner", ObjectCatalog, ActionCatalogDelete},
		{"role:owner", ObjectAccount, ActionAccountView},
		{"role:owner", ObjectAccount, ActionAccountCreate},
		{"role:owner", ObjectAccount, ActionAccountDelete},
		{"role:owner", ObjectAccount, ActionAccountBalance},
		{"role:owner", ObjectAudit, ActionAuditView},

		// Customers shop.
		{"role:customer", ObjectCatalog, ActionCatalogView},
		{"role:customer", ObjectCart, ActionCartView},
		{"role:customer", ObjectCart, ActionCartUpdate},
		{"role:customer", ObjectCheckout, ActionCheckoutView},
		{"role:customer", ObjectCheckout, ActionCheckoutSettle},
	}

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
