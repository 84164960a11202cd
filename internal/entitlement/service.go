// Package entitlement decides whether a caller may invoke a feature.
package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pixomat/internal/cache"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	subscriptiondomain "github.com/smallbiznis/pixomat/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrAccessDenied = errors.New("access_denied")

// Checker resolves a feature key and verifies plan membership. Check
// returns the feature when access is granted so callers can skip a
// second catalog lookup.
type Checker interface {
	Check(ctx context.Context, userID *snowflake.ID, featureKey string) (*catalogdomain.Feature, error)
}

type checker struct {
	db       *gorm.DB
	log      *zap.Logger
	catalog  catalogdomain.Repository
	subs     subscriptiondomain.Repository
	entCache cache.EntitlementCache
	clock    func() time.Time
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	CatalogRepo catalogdomain.Repository
	SubRepo     subscriptiondomain.Repository
	EntCache    cache.EntitlementCache
}

func New(p Params) Checker {
	return &checker{
		db:       p.DB,
		log:      p.Log.Named("entitlement"),
		catalog:  p.CatalogRepo,
		subs:     p.SubRepo,
		entCache: p.EntCache,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Check grants access iff some active subscription's plan includes the
// feature. Unknown keys are reported as not found before any access
// decision; anonymous callers are always denied.
func (c *checker) Check(ctx context.Context, userID *snowflake.ID, featureKey string) (*catalogdomain.Feature, error) {
	feature, err := c.catalog.FindByKey(ctx, c.db, featureKey)
	if err != nil {
		return nil, err
	}
	if feature == nil {
		return nil, catalogdomain.ErrFeatureNotFound
	}

	if userID == nil {
		return nil, ErrAccessDenied
	}

	now := c.clock()
	subs, ok := c.entCache.GetActiveSubscriptions(userID.String())
	if !ok {
		subs, err = c.subs.ListActiveByUser(ctx, c.db, *userID, now)
		if err != nil {
			return nil, err
		}
		c.entCache.SetActiveSubscriptions(userID.String(), subs)
	}

	for _, sub := range subs {
		if !sub.Active(now) {
			continue
		}
		for _, f := range sub.Plan.Features {
			if f.Key == featureKey {
				return feature, nil
			}
		}
	}

	c.log.Debug("access denied",
		zap.String("user_id", userID.String()),
		zap.String("feature", featureKey),
	)
	return nil, ErrAccessDenied
}

var Module = fx.Module("entitlement", fx.Provide(New))
