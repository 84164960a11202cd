package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const (
	contextUserIDKey     = "user_id"
	contextSessionKeyKey = "session_key"
)

// AuthRequired rejects requests without a valid session cookie.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Set(contextSessionKeyKey, token)
		c.Next()
	}
}

// OptionalAuth resolves the session when a cookie is present but lets
// anonymous requests through. Entitlement decides later what an
// anonymous caller may do.
func (s *Server) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			c.Next()
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Set(contextSessionKeyKey, token)
		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	v, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(snowflake.ID)
	return id, ok
}

// sessionKey identifies the caller for the stash and the rate limiter.
// Anonymous callers fall back to their client IP.
func sessionKey(c *gin.Context) string {
	if v, ok := c.Get(contextSessionKeyKey); ok {
		if token, ok := v.(string); ok && token != "" {
			return token
		}
	}
	return c.ClientIP()
}
