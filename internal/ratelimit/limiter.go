package ratelimit

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/pixomat/internal/config"
	"go.uber.org/zap"
)

var ErrRateLimited = errors.New("rate_limited")

// InvokeLimiter throttles feature invocations per caller. A nil limiter
// allows everything, so deployments without redis simply run unthrottled.
type InvokeLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
	rate   float64
	burst  int
}

func NewInvokeLimiter(cfg config.Config, bucket *TokenBucket, log *zap.Logger) *InvokeLimiter {
	if !cfg.RateLimit.Enabled || bucket == nil {
		return nil
	}
	return &InvokeLimiter{
		bucket: bucket,
		log:    log.Named("ratelimit"),
		rate:   cfg.RateLimit.Rate,
		burst:  cfg.RateLimit.Burst,
	}
}

// Allow returns ErrRateLimited when the caller's bucket is empty.
// Redis failures are logged and the request is let through.
func (l *InvokeLimiter) Allow(ctx context.Context, callerKey string) error {
	if l == nil {
		return nil
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf("invoke:%s", callerKey), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed", zap.Error(err))
		return nil
	}
	if !res.Allowed {
		return ErrRateLimited
	}
	return nil
}
