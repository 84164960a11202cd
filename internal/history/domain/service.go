package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
)

type Service interface {
	Record(ctx context.Context, userID *snowflake.ID, feature catalogdomain.Feature, filePath string) (*Response, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Response, error)
	RecentFeatures(ctx context.Context, userID snowflake.ID) ([]string, error)
	Stats(ctx context.Context) (*StatsResponse, error)
}

type Response struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"user_id,omitempty"`
	FeatureKey string    `json:"feature"`
	Date       time.Time `json:"date"`
	FileURL    string    `json:"file,omitempty"`
}

type StatsResponse struct {
	Users        int64            `json:"users"`
	Features     int              `json:"features"`
	UsageByGroup map[string]int64 `json:"usage_by_group"`
}
