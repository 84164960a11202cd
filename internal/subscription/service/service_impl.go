package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pixomat/internal/cache"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"github.com/smallbiznis/pixomat/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultDurationDays = 30

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	repo        domain.Repository
	catalogRepo catalogdomain.Repository
	entCache    cache.EntitlementCache
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	CatalogRepo catalogdomain.Repository
	EntCache    cache.EntitlementCache
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("subscription.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		entCache:    p.EntCache,
	}
}

// Create subscribes the user to a plan. A user holds at most one
// subscription: subscribing to the plan they already hold is a conflict,
// subscribing to a different plan moves the existing subscription to the
// new plan and restarts the period.
func (s *Service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateRequest) (*domain.Response, error) {
	if req.PlanKey == "" {
		return nil, domain.ErrInvalidPlan
	}
	if req.DurationDays < 0 {
		return nil, domain.ErrInvalidDuration
	}

	plan, err := s.catalogRepo.FindPlanByKey(ctx, s.db, req.PlanKey)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, catalogdomain.ErrPlanNotFound
	}

	days := req.DurationDays
	if days == 0 {
		days = defaultDurationDays
	}

	now := time.Now().UTC()
	endDate := now.AddDate(0, 0, days)

	existing, err := s.repo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.PlanID == plan.ID {
			return nil, domain.ErrSubscriptionExists
		}
		if err := s.repo.UpdatePlan(ctx, s.db, userID, plan.ID, endDate); err != nil {
			return nil, err
		}
		s.entCache.Invalidate(userID.String())

		s.log.Info("subscription plan changed",
			zap.String("user_id", userID.String()),
			zap.String("plan", plan.Key),
		)

		existing.PlanID = plan.ID
		existing.Plan = *plan
		existing.EndDate = endDate
		return toResponse(existing, now), nil
	}

	sub := &domain.Subscription{
		ID:        s.genID.Generate(),
		UserID:    userID,
		PlanID:    plan.ID,
		Plan:      *plan,
		StartDate: now,
		EndDate:   endDate,
	}
	if err := s.repo.Create(ctx, s.db, sub); err != nil {
		return nil, err
	}
	s.entCache.Invalidate(userID.String())

	s.log.Info("subscription created",
		zap.String("user_id", userID.String()),
		zap.String("plan", plan.Key),
	)

	return toResponse(sub, now), nil
}

func (s *Service) GetByUser(ctx context.Context, userID snowflake.ID) (*domain.Response, error) {
	sub, err := s.repo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	return toResponse(sub, time.Now().UTC()), nil
}

func (s *Service) Cancel(ctx context.Context, userID snowflake.ID) error {
	err := s.repo.DeleteByUser(ctx, s.db, userID)
	if err == gorm.ErrRecordNotFound {
		return domain.ErrSubscriptionNotFound
	}
	if err == nil {
		s.entCache.Invalidate(userID.String())
	}
	return err
}

func toResponse(sub *domain.Subscription, now time.Time) *domain.Response {
	return &domain.Response{
		ID:        sub.ID.String(),
		UserID:    sub.UserID.String(),
		PlanKey:   sub.Plan.Key,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		Active:    sub.Active(now),
	}
}
