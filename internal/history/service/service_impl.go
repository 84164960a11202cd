package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"github.com/smallbiznis/pixomat/internal/history/domain"
	"github.com/smallbiznis/pixomat/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recentFeatureLimit = 5

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	store storage.Store
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Store storage.Store
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("history.service"),
		genID: p.GenID,
		repo:  p.Repo,
		store: p.Store,
	}
}

func (s *Service) Record(ctx context.Context, userID *snowflake.ID, feature catalogdomain.Feature, filePath string) (*domain.Response, error) {
	entry := &domain.History{
		ID:        s.genID.Generate(),
		UserID:    userID,
		FeatureID: feature.ID,
		Feature:   feature,
		Date:      time.Now().UTC(),
		FilePath:  filePath,
	}
	if err := s.repo.Create(ctx, s.db, entry); err != nil {
		return nil, err
	}
	return s.toResponse(entry), nil
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Response, error) {
	entries, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]domain.Response, 0, len(entries))
	for i := range entries {
		responses = append(responses, *s.toResponse(&entries[i]))
	}
	return responses, nil
}

func (s *Service) RecentFeatures(ctx context.Context, userID snowflake.ID) ([]string, error) {
	return s.repo.RecentFeatureKeys(ctx, s.db, userID, recentFeatureLimit)
}

func (s *Service) Stats(ctx context.Context) (*domain.StatsResponse, error) {
	users, err := s.repo.CountUsers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	usage, err := s.repo.UsageByFeatureKey(ctx, s.db)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[string]int64, len(catalogdomain.Groups))
	for group, keys := range catalogdomain.Groups {
		var total int64
		for _, key := range keys {
			total += usage[key]
		}
		byGroup[group] = total
	}

	return &domain.StatsResponse{
		Users:        users,
		Features:     len(usage),
		UsageByGroup: byGroup,
	}, nil
}

func (s *Service) toResponse(entry *domain.History) *domain.Response {
	resp := &domain.Response{
		ID:         entry.ID.String(),
		FeatureKey: entry.Feature.Key,
		Date:       entry.Date,
	}
	if entry.UserID != nil {
		uid := entry.UserID.String()
		resp.UserID = &uid
	}
	if entry.FilePath != "" {
		resp.FileURL = s.store.URL(entry.FilePath)
	}
	return resp
}
