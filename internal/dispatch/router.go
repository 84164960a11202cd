package dispatch

import (
	"context"
	"fmt"
	"mime"
	"path"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"github.com/smallbiznis/pixomat/internal/entitlement"
	historydomain "github.com/smallbiznis/pixomat/internal/history/domain"
	"github.com/smallbiznis/pixomat/internal/observability/metrics"
	"github.com/smallbiznis/pixomat/internal/ratelimit"
	"github.com/smallbiznis/pixomat/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Outcome is the serialized response payload of one invocation.
type Outcome struct {
	History    *historydomain.Response
	Text       string
	Preview    *Preview
	PreviewURL string
}

// Router walks each request through entitlement, execution, and the
// ledger write. Requests move through fixed steps: unverified,
// entitlement checked, executing, recorded, responded; denial or a
// missing feature short-circuits before any side effect.
type Router struct {
	db       *gorm.DB
	log      *zap.Logger
	metrics  *metrics.Metrics
	checker  entitlement.Checker
	catalog  catalogdomain.Repository
	history  historydomain.Service
	store    storage.Store
	limiter  *ratelimit.InvokeLimiter
	registry Registry
	genID    *snowflake.Node
}

type RouterParams struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Metrics     *metrics.Metrics
	Checker     entitlement.Checker
	CatalogRepo catalogdomain.Repository
	History     historydomain.Service
	Store       storage.Store
	Limiter     *ratelimit.InvokeLimiter `optional:"true"`
	Registry    Registry
	GenID       *snowflake.Node
}

func NewRouter(p RouterParams) *Router {
	return &Router{
		db:       p.DB,
		log:      p.Log.Named("dispatch"),
		metrics:  p.Metrics,
		checker:  p.Checker,
		catalog:  p.CatalogRepo,
		history:  p.History,
		store:    p.Store,
		limiter:  p.Limiter,
		registry: p.Registry,
		genID:    p.GenID,
	}
}

func (r *Router) Dispatch(ctx context.Context, req Request) (*Outcome, error) {
	if err := r.limiter.Allow(ctx, callerKey(req)); err != nil {
		return nil, err
	}

	feature, err := r.checker.Check(ctx, req.UserID, req.FeatureKey)
	if err != nil {
		return nil, err
	}

	handler, ok := r.registry[req.FeatureKey]
	if !ok {
		r.log.Error("feature has no bound handler", zap.String("feature", req.FeatureKey))
		return nil, ErrNoHandler
	}

	result, err := handler.Execute(ctx, req)
	if err != nil {
		r.metrics.RecordFailure(req.FeatureKey)
		return nil, err
	}

	// Phase-1 previews are stored for the caller to fetch but skip the
	// ledger; the invocation is counted when phase 2 completes.
	if result.Preview != nil {
		rel := fmt.Sprintf("previews/%s", artifactPath(req.FeatureKey, r.genID.Generate(), &result.Preview.Artifact))
		saved, err := r.store.Save(rel, result.Preview.Artifact.Data)
		if err != nil {
			return nil, fmt.Errorf("save preview: %w", err)
		}
		return &Outcome{Preview: result.Preview, PreviewURL: r.store.URL(saved)}, nil
	}

	var filePath string
	if result.Artifact != nil {
		rel := artifactPath(req.FeatureKey, r.genID.Generate(), result.Artifact)
		filePath, err = r.store.Save(rel, result.Artifact.Data)
		if err != nil {
			return nil, fmt.Errorf("save artifact: %w", err)
		}
	}

	if err := r.catalog.IncrementUsedCount(ctx, r.db, feature.Key); err != nil {
		r.log.Warn("used_count increment failed",
			zap.String("feature", feature.Key),
			zap.Error(err),
		)
	}

	entry, err := r.history.Record(ctx, req.UserID, *feature, filePath)
	if err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}

	r.metrics.RecordInvocation(req.FeatureKey)
	r.log.Info("feature invoked",
		zap.String("feature", req.FeatureKey),
		zap.Bool("anonymous", req.UserID == nil),
	)

	return &Outcome{History: entry, Text: result.Text}, nil
}

func callerKey(req Request) string {
	if req.UserID != nil {
		return req.UserID.String()
	}
	return req.SessionKey
}

func artifactPath(featureKey string, id snowflake.ID, artifact *Artifact) string {
	ext := path.Ext(artifact.Name)
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(artifact.MIME); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return fmt.Sprintf("%s/%s%s", featureKey, id.String(), ext)
}

var Module = fx.Module("dispatch", fx.Provide(NewRouter))
