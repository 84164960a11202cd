package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/pixomat/internal/cache"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/pixomat/internal/catalog/repository"
	subscriptiondomain "github.com/smallbiznis/pixomat/internal/subscription/domain"
	subscriptionrepository "github.com/smallbiznis/pixomat/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	checker Checker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Feature{},
		&catalogdomain.Plan{},
		&subscriptiondomain.Subscription{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	checker := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		CatalogRepo: catalogrepository.Provide(),
		SubRepo:     subscriptionrepository.Provide(),
		EntCache:    cache.NewEntitlementCache(),
	})
	return &fixture{db: db, node: node, checker: checker}
}

func (f *fixture) seedPlanWithFeature(t *testing.T, planKey, featureKey string) catalogdomain.Plan {
	t.Helper()
	feature := catalogdomain.Feature{ID: f.node.Generate(), Key: featureKey}
	require.NoError(t, f.db.Create(&feature).Error)
	plan := catalogdomain.Plan{ID: f.node.Generate(), Key: planKey, Features: []catalogdomain.Feature{feature}}
	require.NoError(t, f.db.Create(&plan).Error)
	return plan
}

func (f *fixture) subscribe(t *testing.T, userID snowflake.ID, plan catalogdomain.Plan, endDate time.Time) {
	t.Helper()
	require.NoError(t, f.db.Create(&subscriptiondomain.Subscription{
		ID:        f.node.Generate(),
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: endDate.AddDate(0, 0, -30),
		EndDate:   endDate,
	}).Error)
}

func TestCheckGrantsActiveSubscription(t *testing.T) {
	f := newFixture(t)
	plan := f.seedPlanWithFeature(t, "pro", "black_and_white")
	userID := f.node.Generate()
	f.subscribe(t, userID, plan, time.Now().UTC().Add(24*time.Hour))

	feature, err := f.checker.Check(context.Background(), &userID, "black_and_white")
	require.NoError(t, err)
	assert.Equal(t, "black_and_white", feature.Key)
}

func TestCheckDeniesWithoutSubscription(t *testing.T) {
	f := newFixture(t)
	f.seedPlanWithFeature(t, "pro", "black_and_white")
	userID := f.node.Generate()

	_, err := f.checker.Check(context.Background(), &userID, "black_and_white")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCheckDeniesExpiredSubscription(t *testing.T) {
	f := newFixture(t)
	plan := f.seedPlanWithFeature(t, "pro", "black_and_white")
	userID := f.node.Generate()
	f.subscribe(t, userID, plan, time.Now().UTC().Add(-time.Hour))

	_, err := f.checker.Check(context.Background(), &userID, "black_and_white")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCheckDeniesFeatureOutsidePlan(t *testing.T) {
	f := newFixture(t)
	plan := f.seedPlanWithFeature(t, "advanced", "black_and_white")
	otherFeature := catalogdomain.Feature{ID: f.node.Generate(), Key: "essay_writer"}
	require.NoError(t, f.db.Create(&otherFeature).Error)
	userID := f.node.Generate()
	f.subscribe(t, userID, plan, time.Now().UTC().Add(24*time.Hour))

	_, err := f.checker.Check(context.Background(), &userID, "essay_writer")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCheckUnknownFeature(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()

	_, err := f.checker.Check(context.Background(), &userID, "does_not_exist")
	assert.ErrorIs(t, err, catalogdomain.ErrFeatureNotFound)
}

func TestCheckAnonymousDenied(t *testing.T) {
	f := newFixture(t)
	f.seedPlanWithFeature(t, "pro", "black_and_white")

	_, err := f.checker.Check(context.Background(), nil, "black_and_white")
	assert.ErrorIs(t, err, ErrAccessDenied)
}
