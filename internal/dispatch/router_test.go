package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/pixomat/internal/cache"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/pixomat/internal/catalog/repository"
	"github.com/smallbiznis/pixomat/internal/config"
	"github.com/smallbiznis/pixomat/internal/entitlement"
	historydomain "github.com/smallbiznis/pixomat/internal/history/domain"
	historyrepository "github.com/smallbiznis/pixomat/internal/history/repository"
	historyservice "github.com/smallbiznis/pixomat/internal/history/service"
	"github.com/smallbiznis/pixomat/internal/observability/metrics"
	"github.com/smallbiznis/pixomat/internal/storage"
	subscriptiondomain "github.com/smallbiznis/pixomat/internal/subscription/domain"
	subscriptionrepository "github.com/smallbiznis/pixomat/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type routerFixture struct {
	db     *gorm.DB
	node   *snowflake.Node
	router *Router
	userID snowflake.ID
}

func newRouterFixture(t *testing.T, registry Registry) *routerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Feature{},
		&catalogdomain.Plan{},
		&subscriptiondomain.Subscription{},
		&historydomain.History{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	catalogRepo := catalogrepository.Provide()

	feature := catalogdomain.Feature{ID: node.Generate(), Key: "black_and_white"}
	require.NoError(t, db.Create(&feature).Error)
	plan := catalogdomain.Plan{ID: node.Generate(), Key: "trial", Features: []catalogdomain.Feature{feature}}
	require.NoError(t, db.Create(&plan).Error)

	userID := node.Generate()
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:        node.Generate(),
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: time.Now().UTC(),
		EndDate:   time.Now().UTC().AddDate(0, 0, 30),
	}).Error)

	store, err := storage.New(storage.Params{
		Config: config.Config{MediaRoot: t.TempDir(), MediaBaseURL: "/media"},
		Log:    zap.NewNop(),
	})
	require.NoError(t, err)

	historySvc := historyservice.New(historyservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  historyrepository.Provide(),
		Store: store,
	})

	checker := entitlement.New(entitlement.Params{
		DB:          db,
		Log:         zap.NewNop(),
		CatalogRepo: catalogRepo,
		SubRepo:     subscriptionrepository.Provide(),
		EntCache:    cache.NewEntitlementCache(),
	})

	router := NewRouter(RouterParams{
		DB:          db,
		Log:         zap.NewNop(),
		Metrics:     metrics.NewWith(prometheus.NewRegistry()),
		Checker:     checker,
		CatalogRepo: catalogRepo,
		History:     historySvc,
		Store:       store,
		Registry:    registry,
		GenID:       node,
	})

	return &routerFixture{db: db, node: node, router: router, userID: userID}
}

func (f *routerFixture) usedCount(t *testing.T, key string) int64 {
	t.Helper()
	var feature catalogdomain.Feature
	require.NoError(t, f.db.Where("key = ?", key).First(&feature).Error)
	return feature.UsedCount
}

func (f *routerFixture) historyCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&historydomain.History{}).Count(&count).Error)
	return count
}

func okHandler(artifact *Artifact, text string) Handler {
	return HandlerFunc(func(context.Context, Request) (*Result, error) {
		return &Result{Artifact: artifact, Text: text}, nil
	})
}

func TestDispatchSuccessRecordsAndCounts(t *testing.T) {
	f := newRouterFixture(t, Registry{
		"black_and_white": okHandler(&Artifact{Name: "out.jpg", MIME: "image/jpeg", Data: []byte("jpg")}, ""),
	})

	outcome, err := f.router.Dispatch(context.Background(), Request{
		FeatureKey: "black_and_white",
		UserID:     &f.userID,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.History)
	assert.Equal(t, "black_and_white", outcome.History.FeatureKey)
	assert.Contains(t, outcome.History.FileURL, "black_and_white/")

	assert.Equal(t, int64(1), f.usedCount(t, "black_and_white"))
	assert.Equal(t, int64(1), f.historyCount(t))
}

func TestDispatchDeniedWritesNothing(t *testing.T) {
	f := newRouterFixture(t, Registry{
		"black_and_white": okHandler(&Artifact{Name: "out.jpg", MIME: "image/jpeg", Data: []byte("jpg")}, ""),
	})
	stranger := f.node.Generate()

	_, err := f.router.Dispatch(context.Background(), Request{
		FeatureKey: "black_and_white",
		UserID:     &stranger,
	})
	assert.ErrorIs(t, err, entitlement.ErrAccessDenied)
	assert.Equal(t, int64(0), f.usedCount(t, "black_and_white"))
	assert.Equal(t, int64(0), f.historyCount(t))
}

func TestDispatchUnknownFeature(t *testing.T) {
	f := newRouterFixture(t, Registry{})

	_, err := f.router.Dispatch(context.Background(), Request{
		FeatureKey: "does_not_exist",
		UserID:     &f.userID,
	})
	assert.ErrorIs(t, err, catalogdomain.ErrFeatureNotFound)
}

func TestDispatchHandlerFailureWritesNothing(t *testing.T) {
	boom := errors.New("conversion exploded")
	f := newRouterFixture(t, Registry{
		"black_and_white": HandlerFunc(func(context.Context, Request) (*Result, error) {
			return nil, boom
		}),
	})

	_, err := f.router.Dispatch(context.Background(), Request{
		FeatureKey: "black_and_white",
		UserID:     &f.userID,
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), f.usedCount(t, "black_and_white"))
	assert.Equal(t, int64(0), f.historyCount(t))
}

func TestDispatchEntitledButUnbound(t *testing.T) {
	f := newRouterFixture(t, Registry{})

	_, err := f.router.Dispatch(context.Background(), Request{
		FeatureKey: "black_and_white",
		UserID:     &f.userID,
	})
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestDispatchPreviewSkipsLedger(t *testing.T) {
	f := newRouterFixture(t, Registry{
		"black_and_white": HandlerFunc(func(context.Context, Request) (*Result, error) {
			return &Result{Preview: &Preview{
				Artifact: Artifact{Name: "preview.jpg", MIME: "image/jpeg", Data: []byte("jpg")},
				Objects:  []string{"cat"},
			}}, nil
		}),
	})

	outcome, err := f.router.Dispatch(context.Background(), Request{
		FeatureKey: "black_and_white",
		UserID:     &f.userID,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Preview)
	assert.Equal(t, []string{"cat"}, outcome.Preview.Objects)
	assert.Contains(t, outcome.PreviewURL, "previews/black_and_white/")
	assert.Equal(t, int64(0), f.usedCount(t, "black_and_white"))
	assert.Equal(t, int64(0), f.historyCount(t))
}
