package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByKey(ctx context.Context, db *gorm.DB, key string) (*Feature, error)
	List(ctx context.Context, db *gorm.DB) ([]Feature, error)
	IncrementUsedCount(ctx context.Context, db *gorm.DB, key string) error
	ListPlans(ctx context.Context, db *gorm.DB) ([]Plan, error)
	FindPlanByKey(ctx context.Context, db *gorm.DB, key string) (*Plan, error)
}
