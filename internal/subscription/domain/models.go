// Package domain contains persistence models for user subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
)

// Subscription grants one user the features of one plan until EndDate.
type Subscription struct {
	ID        snowflake.ID       `gorm:"primaryKey"`
	UserID    snowflake.ID       `gorm:"column:user_id;not null;uniqueIndex"`
	PlanID    snowflake.ID       `gorm:"column:plan_id;not null;index"`
	Plan      catalogdomain.Plan `gorm:"foreignKey:PlanID"`
	StartDate time.Time          `gorm:"column:start_date;not null"`
	EndDate   time.Time          `gorm:"column:end_date;not null;index"`
	CreatedAt time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string { return "subscriptions" }

// Active reports whether the subscription grants access at the given instant.
func (s Subscription) Active(now time.Time) bool {
	return s.EndDate.After(now)
}
