package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/pixomat/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, key string) (*domain.Feature, error) {
	var f domain.Feature
	err := db.WithContext(ctx).Where("key = ?", key).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Feature, error) {
	var items []domain.Feature
	if err := db.WithContext(ctx).Order("key asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// IncrementUsedCount bumps the counter in place so concurrent invocations
// cannot lose updates to a read-modify-write race.
func (r *repo) IncrementUsedCount(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE features SET used_count = used_count + 1, updated_at = CURRENT_TIMESTAMP WHERE key = ?`,
		key,
	).Error
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB) ([]domain.Plan, error) {
	var items []domain.Plan
	if err := db.WithContext(ctx).Preload("Features").Order("key asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindPlanByKey(ctx context.Context, db *gorm.DB, key string) (*domain.Plan, error) {
	var p domain.Plan
	err := db.WithContext(ctx).Preload("Features").Where("key = ?", key).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
