package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/pixomat/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/smallbiznis/pixomat/internal/entitlement"
	"github.com/smallbiznis/pixomat/internal/ratelimit"
	subscriptiondomain "github.com/smallbiznis/pixomat/internal/subscription/domain"
	"github.com/smallbiznis/pixomat/internal/vision"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware renders the last collected error as a JSON
// body once the handler chain finishes without writing a response.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, gin.H{"error": message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, authdomain.ErrSessionNotFound):
		return http.StatusUnauthorized, "unauthorized"

	case errors.Is(err, entitlement.ErrAccessDenied):
		return http.StatusForbidden, "access_denied"

	case errors.Is(err, catalogdomain.ErrFeatureNotFound),
		errors.Is(err, catalogdomain.ErrPlanNotFound),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, "user_exists"

	case errors.Is(err, subscriptiondomain.ErrSubscriptionExists):
		return http.StatusBadRequest, "subscription_exists"

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, dispatch.ErrInvalidInput),
		errors.Is(err, vision.ErrInvalidSelection),
		errors.Is(err, vision.ErrNoObjectsDetected),
		errors.Is(err, subscriptiondomain.ErrInvalidPlan),
		errors.Is(err, subscriptiondomain.ErrInvalidDuration),
		errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, ratelimit.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"

	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
