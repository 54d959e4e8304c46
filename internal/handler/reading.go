package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"home-library/internal/model"
)

type ratingRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

type progressRequest struct {
	PagesRead *int `json:"pages_read" binding:"required"`
}

// stateChange runs a tracker operation on the :id book and answers with the book.
func (h *Handler) stateChange(c *gin.Context, op func(id int) (*model.ReadingState, error)) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	if _, err := op(id); err != nil {
		respondError(c, err)
		return
	}
	h.respondBook(c, id)
}

func (h *Handler) HandleMarkRead(c *gin.Context) {
	h.stateChange(c, h.lib.Tracker.MarkRead)
}

func (h *Handler) HandleMarkUnread(c *gin.Context) {
	h.stateChange(c, h.lib.Tracker.MarkUnread)
}

func (h *Handler) HandleSetRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "rating is required")
		return
	}
	h.stateChange(c, func(id int) (*model.ReadingState, error) {
		return h.lib.Tracker.SetRating(id, *req.Rating)
	})
}

func (h *Handler) HandleListReading(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"reading": s.InProgress()})
}

func (h *Handler) HandleStartReading(c *gin.Context) {
	h.stateChange(c, h.lib.Tracker.StartReading)
}

func (h *Handler) HandleUpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "pages_read is required")
		return
	}
	h.stateChange(c, func(id int) (*model.ReadingState, error) {
		return h.lib.Tracker.UpdateProgress(id, *req.PagesRead)
	})
}

func (h *Handler) HandleFinishReading(c *gin.Context) {
	h.stateChange(c, h.lib.Tracker.FinishReading)
}

// HandleAbandonReading drops an in-progress entry. The book may already be
// gone from the catalog, so the answer carries no book.
func (h *Handler) HandleAbandonReading(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	if _, err := h.lib.Tracker.AbandonReading(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
