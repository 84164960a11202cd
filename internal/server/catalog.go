package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListFeatures(c *gin.Context) {
	features, err := s.catalogsvc.ListFeatures(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": features})
}

func (s *Server) ListPlans(c *gin.Context) {
	plans, err := s.catalogsvc.ListPlans(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (s *Server) Stats(c *gin.Context) {
	stats, err := s.historysvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
