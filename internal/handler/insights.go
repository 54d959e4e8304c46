package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"home-library/internal/catalog"
	"home-library/internal/recommend"
)

func (h *Handler) HandleRecommendations(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", recommend.DefaultLimit)
	page := s.Recommendations(limit, queryInt(c, "page", 1), queryInt(c, "per_page", catalog.DefaultPerPage))
	c.JSON(http.StatusOK, gin.H{
		"recommendations": page,
		"affinity":        s.Affinity(),
		"cold_start":      len(s.State().ReadBooks) == 0,
	})
}

func (h *Handler) HandleStats(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Stats())
}
