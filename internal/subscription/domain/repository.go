package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Subscription, error)
	ListActiveByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, now time.Time) ([]Subscription, error)
	UpdatePlan(ctx context.Context, db *gorm.DB, userID, planID snowflake.ID, endDate time.Time) error
	DeleteByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) error
}
