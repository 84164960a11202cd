package cache

import (
	"time"

	subscriptiondomain "github.com/smallbiznis/pixomat/internal/subscription/domain"
)

const defaultSubscriptionTTL = 45 * time.Second

// EntitlementCache stores hot-path active-subscription lookups for the
// access checker. Entries are short-lived; writers to the subscriptions
// table invalidate their user's entry to avoid serving a stale grant.
type EntitlementCache interface {
	GetActiveSubscriptions(userID string) ([]subscriptiondomain.Subscription, bool)
	SetActiveSubscriptions(userID string, subs []subscriptiondomain.Subscription)
	Invalidate(userID string)
}

type entitlementCache struct {
	subscriptions Cache[string, []subscriptiondomain.Subscription]
	subTTL        time.Duration
}

// NewEntitlementCache returns an in-memory cache tuned for access checks.
func NewEntitlementCache() EntitlementCache {
	return &entitlementCache{
		subscriptions: NewTTLCache[string, []subscriptiondomain.Subscription](),
		subTTL:        defaultSubscriptionTTL,
	}
}

func (c *entitlementCache) GetActiveSubscriptions(userID string) ([]subscriptiondomain.Subscription, bool) {
	return c.subscriptions.Get(userID)
}

func (c *entitlementCache) SetActiveSubscriptions(userID string, subs []subscriptiondomain.Subscription) {
	if userID == "" {
		return
	}
	c.subscriptions.Set(userID, subs, c.subTTL)
}

func (c *entitlementCache) Invalidate(userID string) {
	c.subscriptions.Delete(userID)
}
