package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Feature is one gated transformation capability, identified by a stable key.
type Feature struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Key       string       `gorm:"type:text;not null;uniqueIndex"`
	UsedCount int64        `gorm:"column:used_count;not null;default:0"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Feature) TableName() string { return "features" }

// Plan is a named bundle of features a subscription grants.
type Plan struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Key       string       `gorm:"type:text;not null;uniqueIndex"`
	Features  []Feature    `gorm:"many2many:plan_features;"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Plan) TableName() string { return "plans" }
