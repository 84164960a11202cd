package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, entry *History) error
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]History, error)
	RecentFeatureKeys(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]string, error)
	CountUsers(ctx context.Context, db *gorm.DB) (int64, error)
	UsageByFeatureKey(ctx context.Context, db *gorm.DB) (map[string]int64, error)
}
