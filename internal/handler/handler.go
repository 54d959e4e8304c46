// Package handler exposes the library as a JSON API.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"home-library/internal/library"
)

// Handler serves every route over one library.
type Handler struct {
	lib *library.Library
}

func New(lib *library.Library) *Handler {
	return &Handler{lib: lib}
}

// Register mounts the API on r. aiGuard runs in front of every /api/ai route.
func (h *Handler) Register(r gin.IRouter, aiGuard ...gin.HandlerFunc) {
	r.GET("/health", h.HandleHealth)
	r.GET("/ready", h.HandleReadiness)

	api := r.Group("/api")
	{
		api.GET("/books", h.HandleListBooks)
		api.POST("/books", h.HandleCreateBook)
		api.GET("/books/:id", h.HandleGetBook)
		api.PATCH("/books/:id", h.HandleUpdateBook)
		api.DELETE("/books/:id", h.HandleDeleteBook)
		api.GET("/genres", h.HandleGenres)
		api.GET("/authors", h.HandleAuthors)

		api.POST("/books/:id/read", h.HandleMarkRead)
		api.DELETE("/books/:id/read", h.HandleMarkUnread)
		api.PUT("/books/:id/rating", h.HandleSetRating)

		api.GET("/reading", h.HandleListReading)
		api.POST("/reading/:id", h.HandleStartReading)
		api.PUT("/reading/:id/progress", h.HandleUpdateProgress)
		api.POST("/reading/:id/finish", h.HandleFinishReading)
		api.DELETE("/reading/:id", h.HandleAbandonReading)

		api.GET("/recommendations", h.HandleRecommendations)
		api.GET("/stats", h.HandleStats)

		api.GET("/credential", h.HandleGetCredential)
		api.PUT("/credential", h.HandleSetCredential)
	}

	ai := api.Group("/ai", aiGuard...)
	{
		ai.POST("/recommend", h.HandleAIRecommend)
		ai.POST("/lookup", h.HandleAILookup)
		ai.POST("/summary", h.HandleAISummary)
		ai.POST("/cover", h.HandleAICover)
		ai.POST("/chat", h.HandleChat)
		ai.POST("/accept", h.HandleAIAccept)
	}
}

// bookID parses the :id path parameter, answering 400 itself when it is not a number.
func bookID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "INVALID_ID", "book id must be a positive integer")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// session begins a library session, answering the error itself on failure.
func (h *Handler) session(c *gin.Context) (*library.Session, bool) {
	s, err := h.lib.Begin()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}
