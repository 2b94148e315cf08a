package auth

import (
	"github.com/smallbiznis/pointsale/internal/auth/service"
	"github.com/smallbiznis/pointsale/internal/auth/session"
	"github.com/smallbiznis/pointsale/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(token.NewIssuer),
	fx.Provide(session.NewManager),
	fx.Provide(service.New),
)
