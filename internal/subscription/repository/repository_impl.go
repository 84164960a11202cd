package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pixomat/internal/subscription/domain"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

func Provide() domain.Repository { return &repositoryImpl{} }

func (r *repositoryImpl) Create(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Omit("Plan").Create(sub).Error
}

func (r *repositoryImpl) FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Preload("Plan").
		Preload("Plan.Features").
		Where("user_id = ?", userID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repositoryImpl) ListActiveByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, now time.Time) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Preload("Plan").
		Preload("Plan.Features").
		Where("user_id = ? AND end_date > ?", userID, now).
		Find(&subs).Error
	return subs, err
}

func (r *repositoryImpl) UpdatePlan(ctx context.Context, db *gorm.DB, userID, planID snowflake.ID, endDate time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"plan_id":    planID,
			"end_date":   endDate,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repositoryImpl) DeleteByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) error {
	res := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
