package domain

import (
	"context"
	"errors"
)

type Service interface {
	ListFeatures(ctx context.Context) ([]FeatureResponse, error)
	ListPlans(ctx context.Context) ([]PlanResponse, error)
}

type FeatureResponse struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	UsedCount int64  `json:"used_count"`
}

type PlanResponse struct {
	ID       string            `json:"id"`
	Key      string            `json:"key"`
	Features []FeatureResponse `json:"features"`
}

var (
	ErrFeatureNotFound = errors.New("feature_not_found")
	ErrPlanNotFound    = errors.New("plan_not_found")
)
