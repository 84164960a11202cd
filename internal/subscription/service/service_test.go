package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/pixomat/internal/cache"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/pixomat/internal/catalog/repository"
	"github.com/smallbiznis/pixomat/internal/subscription/domain"
	"github.com/smallbiznis/pixomat/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Feature{},
		&catalogdomain.Plan{},
		&domain.Subscription{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *snowflake.Node) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repository.Provide(),
		CatalogRepo: catalogrepository.Provide(),
		EntCache:    cache.NewEntitlementCache(),
	}).(*Service)
	return svc, node
}

func seedPlan(t *testing.T, db *gorm.DB, node *snowflake.Node, key string) catalogdomain.Plan {
	plan := catalogdomain.Plan{ID: node.Generate(), Key: key}
	require.NoError(t, db.Create(&plan).Error)
	return plan
}

func TestCreateSubscription(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	seedPlan(t, db, node, "pro")
	userID := node.Generate()

	resp, err := svc.Create(context.Background(), userID, domain.CreateRequest{PlanKey: "pro"})
	require.NoError(t, err)
	assert.Equal(t, "pro", resp.PlanKey)
	assert.True(t, resp.Active)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), resp.EndDate, time.Minute)
}

func TestCreateSubscriptionSamePlanConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	seedPlan(t, db, node, "pro")
	userID := node.Generate()

	_, err := svc.Create(context.Background(), userID, domain.CreateRequest{PlanKey: "pro"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), userID, domain.CreateRequest{PlanKey: "pro"})
	assert.ErrorIs(t, err, domain.ErrSubscriptionExists)
}

func TestCreateSubscriptionSwitchesPlan(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	seedPlan(t, db, node, "advanced")
	proPlan := seedPlan(t, db, node, "pro")
	userID := node.Generate()

	_, err := svc.Create(context.Background(), userID, domain.CreateRequest{PlanKey: "advanced", DurationDays: 7})
	require.NoError(t, err)

	resp, err := svc.Create(context.Background(), userID, domain.CreateRequest{PlanKey: "pro"})
	require.NoError(t, err)
	assert.Equal(t, "pro", resp.PlanKey)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), resp.EndDate, time.Minute)

	var count int64
	require.NoError(t, db.Model(&domain.Subscription{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored domain.Subscription
	require.NoError(t, db.Where("user_id = ?", userID).First(&stored).Error)
	assert.Equal(t, proPlan.ID, stored.PlanID)
}

func TestCreateSubscriptionUnknownPlan(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	userID := node.Generate()

	_, err := svc.Create(context.Background(), userID, domain.CreateRequest{PlanKey: "enterprise"})
	assert.ErrorIs(t, err, catalogdomain.ErrPlanNotFound)
}

func TestGetByUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)

	_, err := svc.GetByUser(context.Background(), node.Generate())
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestCancel(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	seedPlan(t, db, node, "trial")
	userID := node.Generate()

	_, err := svc.Create(context.Background(), userID, domain.CreateRequest{PlanKey: "trial"})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), userID))

	_, err = svc.GetByUser(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)

	assert.ErrorIs(t, svc.Cancel(context.Background(), userID), domain.ErrSubscriptionNotFound)
}
