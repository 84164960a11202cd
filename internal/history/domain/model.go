// Package domain contains the usage ledger model. Entries are append
// only: written once per successful invocation, never updated.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
)

type History struct {
	ID        snowflake.ID          `gorm:"primaryKey"`
	UserID    *snowflake.ID         `gorm:"column:user_id;index"`
	FeatureID snowflake.ID          `gorm:"column:feature_id;not null;index"`
	Feature   catalogdomain.Feature `gorm:"foreignKey:FeatureID"`
	Date      time.Time             `gorm:"column:date;not null;index"`
	FilePath  string                `gorm:"column:file_path"`
}

func (History) TableName() string { return "histories" }
