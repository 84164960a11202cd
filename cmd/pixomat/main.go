package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pixomat/internal/auth"
	authdomain "github.com/smallbiznis/pixomat/internal/auth/domain"
	"github.com/smallbiznis/pixomat/internal/auth/session"
	"github.com/smallbiznis/pixomat/internal/cache"
	"github.com/smallbiznis/pixomat/internal/catalog"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"github.com/smallbiznis/pixomat/internal/config"
	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/smallbiznis/pixomat/internal/entitlement"
	"github.com/smallbiznis/pixomat/internal/features"
	"github.com/smallbiznis/pixomat/internal/history"
	historydomain "github.com/smallbiznis/pixomat/internal/history/domain"
	"github.com/smallbiznis/pixomat/internal/observability"
	"github.com/smallbiznis/pixomat/internal/ratelimit"
	"github.com/smallbiznis/pixomat/internal/redisconn"
	"github.com/smallbiznis/pixomat/internal/seed"
	"github.com/smallbiznis/pixomat/internal/server"
	"github.com/smallbiznis/pixomat/internal/stash"
	"github.com/smallbiznis/pixomat/internal/storage"
	"github.com/smallbiznis/pixomat/internal/subscription"
	subscriptiondomain "github.com/smallbiznis/pixomat/internal/subscription/domain"
	"github.com/smallbiznis/pixomat/internal/vision"
	"github.com/smallbiznis/pixomat/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		fx.Invoke(migrate),

		redisconn.Module,
		cache.Module,
		storage.Module,
		stash.Module,
		ratelimit.Module,

		auth.Module,
		session.Module,
		catalog.Module,
		subscription.Module,
		history.Module,
		entitlement.Module,

		vision.Module,
		features.Module,
		dispatch.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func migrate(gdb *gorm.DB, node *snowflake.Node) error {
	if err := gdb.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&catalogdomain.Feature{},
		&catalogdomain.Plan{},
		&subscriptiondomain.Subscription{},
		&historydomain.History{},
	); err != nil {
		return err
	}
	return seed.EnsureCatalog(gdb, node)
}
