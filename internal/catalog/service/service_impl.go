package service

import (
	"context"

	"github.com/smallbiznis/pixomat/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) ListFeatures(ctx context.Context) ([]domain.FeatureResponse, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.FeatureResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toFeatureResponse(item))
	}
	return resp, nil
}

func (s *Service) ListPlans(ctx context.Context) ([]domain.PlanResponse, error) {
	items, err := s.repo.ListPlans(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.PlanResponse, 0, len(items))
	for _, plan := range items {
		features := make([]domain.FeatureResponse, 0, len(plan.Features))
		for _, f := range plan.Features {
			features = append(features, toFeatureResponse(f))
		}
		resp = append(resp, domain.PlanResponse{
			ID:       plan.ID.String(),
			Key:      plan.Key,
			Features: features,
		})
	}
	return resp, nil
}

func toFeatureResponse(f domain.Feature) domain.FeatureResponse {
	return domain.FeatureResponse{
		ID:        f.ID.String(),
		Key:       f.Key,
		UsedCount: f.UsedCount,
	}
}
