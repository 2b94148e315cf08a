package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pointsale/internal/audit"
	"github.com/smallbiznis/pointsale/internal/auth"
	"github.com/smallbiznis/pointsale/internal/authorization"
	"github.com/smallbiznis/pointsale/internal/cart"
	"github.com/smallbiznis/pointsale/internal/catalog"
	"github.com/smallbiznis/pointsale/internal/clock"
	"github.com/smallbiznis/pointsale/internal/config"
	"github.com/smallbiznis/pointsale/internal/customer"
	"github.com/smallbiznis/pointsale/internal/migration"
	"github.com/smallbiznis/pointsale/internal/observability"
	"github.com/smallbiznis/pointsale/internal/ratelimit"
	"github.com/smallbiznis/pointsale/internal/server"
	"github.com/smallbiznis/pointsale/internal/settlement"
	"github.com/smallbiznis/pointsale/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional Domains
		customer.Module,
		catalog.Module,
		settlement.Module,
		cart.Module,
		auth.Module,
		authorization.Module,
		audit.Module,
		ratelimit.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
