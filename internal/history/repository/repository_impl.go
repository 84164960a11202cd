package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pixomat/internal/history/domain"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

func Provide() domain.Repository { return &repositoryImpl{} }

func (r *repositoryImpl) Create(ctx context.Context, db *gorm.DB, entry *domain.History) error {
	return db.WithContext(ctx).Omit("Feature").Create(entry).Error
}

func (r *repositoryImpl) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.History, error) {
	var entries []domain.History
	err := db.WithContext(ctx).
		Preload("Feature").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repositoryImpl) RecentFeatureKeys(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]string, error) {
	var keys []string
	err := db.WithContext(ctx).Raw(`
		SELECT f.key
		FROM histories h
		JOIN features f ON f.id = h.feature_id
		WHERE h.user_id = ?
		GROUP BY f.key
		ORDER BY MAX(h.date) DESC
		LIMIT ?
	`, userID, limit).Scan(&keys).Error
	return keys, err
}

func (r *repositoryImpl) CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM users`).Scan(&count).Error
	return count, err
}

func (r *repositoryImpl) UsageByFeatureKey(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Key       string
		UsedCount int64
	}
	err := db.WithContext(ctx).Raw(`SELECT key, used_count FROM features`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	usage := make(map[string]int64, len(rows))
	for _, row := range rows {
		usage[row.Key] = row.UsedCount
	}
	return usage, nil
}
