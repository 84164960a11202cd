package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateRequest) (*Response, error)
	GetByUser(ctx context.Context, userID snowflake.ID) (*Response, error)
	Cancel(ctx context.Context, userID snowflake.ID) error
}

type CreateRequest struct {
	PlanKey      string `json:"plan_key"`
	DurationDays int    `json:"duration_days"`
}

type Response struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlanKey   string    `json:"plan_key"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Active    bool      `json:"active"`
}

var (
	ErrInvalidPlan          = errors.New("invalid_plan")
	ErrInvalidDuration      = errors.New("invalid_duration")
	ErrSubscriptionExists   = errors.New("subscription_exists")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
)
