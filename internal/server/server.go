package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/pointsale/internal/audit/domain"
	authdomain "github.com/smallbiznis/pointsale/internal/auth/domain"
	"github.com/smallbiznis/pointsale/internal/auth/session"
	"github.com/smallbiznis/pointsale/internal/authorization"
	"github.com/smallbiznis/pointsale/internal/cart"
	catalogdomain "github.com/smallbiznis/pointsale/internal/catalog/domain"
	"github.com/smallbiznis/pointsale/internal/config"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
	"github.com/smallbiznis/pointsale/internal/observability"
	obslogger "github.com/smallbiznis/pointsale/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/pointsale/internal/observability/metrics"
	obstracing "github.com/smallbiznis/pointsale/internal/observability/tracing"
	"github.com/smallbiznis/pointsale/internal/ratelimit"
	settlementdomain "github.com/smallbiznis/pointsale/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *obsmetrics.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(registry.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *obsmetrics.Registry) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics, registry)
}

func run(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Log           *zap.Logger
	AuthSvc       authdomain.Service
	Sessions      *session.Manager
	AuthzSvc      authorization.Service
	AuditSvc      auditdomain.Service
	CustomerSvc   customerdomain.Service
	CatalogSvc    catalogdomain.Service
	SettlementSvc settlementdomain.Service
	Carts         *cart.Store
	Display       *config.DisplayConfigHolder
	Limiter       ratelimit.Limiter `optional:"true"`
}

type Server struct {
	engine        *gin.Engine
	log           *zap.Logger
	authsvc       authdomain.Service
	sessions      *session.Manager
	authzSvc      authorization.Service
	auditSvc      auditdomain.Service
	customerSvc   customerdomain.Service
	catalogSvc    catalogdomain.Service
	settlementSvc settlementdomain.Service
	carts         *cart.Store
	display       *config.DisplayConfigHolder
	limiter       ratelimit.Limiter

	// writeMu serializes mutating requests; the gateway rewrites the whole
	// store on every write and assumes a single actor.
	writeMu sync.Mutex
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		log:           p.Log.Named("http.server"),
		authsvc:       p.AuthSvc,
		sessions:      p.Sessions,
		authzSvc:      p.AuthzSvc,
		auditSvc:      p.AuditSvc,
		customerSvc:   p.CustomerSvc,
		catalogSvc:    p.CatalogSvc,
		settlementSvc: p.SettlementSvc,
		carts:         p.Carts,
		display:       p.Display,
		limiter:       p.Limiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")
	auth.POST("/login", s.loginThrottle(), s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Catalog --------
	api.GET("/items", s.authorize(authorization.ObjectCatalog, authorization.ActionCatalogView), s.ListItems)
	api.POST("/items", s.authorize(authorization.ObjectCatalog, authorization.ActionCatalogCreate), s.singleActor(), s.CreateItem)
	api.DELETE("/items/:title", s.authorize(authorization.ObjectCatalog, authorization.ActionCatalogDelete), s.singleActor(), s.DeleteItem)

	// -------- Accounts --------
	api.GET("/accounts", s.authorize(authorization.ObjectAccount, authorization.ActionAccountView), s.ListAccounts)
	api.POST("/accounts", s.authorize(authorization.ObjectAccount, authorization.ActionAccountCreate), s.singleActor(), s.CreateAccount)
	api.DELETE("/accounts/:username", s.authorize(authorization.ObjectAccount, authorization.ActionAccountDelete), s.singleActor(), s.DeleteAccount)
	api.PUT("/accounts/:username/balance", s.authorize(authorization.ObjectAccount, authorization.ActionAccountBalance), s.singleActor(), s.SetAccountBalance)

	// -------- Cart --------
	api.GET("/cart", s.authorize(authorization.ObjectCart, authorization.ActionCartView), s.GetCart)
	api.POST("/cart/items", s.authorize(authorization.ObjectCart, authorization.ActionCartUpdate), s.AddCartItem)
	api.DELETE("/cart/items/:title", s.authorize(authorization.ObjectCart, authorization.ActionCartUpdate), s.RemoveCartItem)

	// -------- Checkout --------
	api.GET("/checkout", s.authorize(authorization.ObjectCheckout, authorization.ActionCheckoutView), s.CheckoutSummary)
	api.POST("/checkout", s.authorize(authorization.ObjectCheckout, authorization.ActionCheckoutSettle), s.singleActor(), s.Checkout)

	// -------- Audit --------
	api.GET("/audit-logs", s.authorize(authorization.ObjectAudit, authorization.ActionAuditView), s.ListAuditLogs)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
