package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"home-library/internal/catalog"
	"home-library/internal/model"
)

func (h *Handler) HandleListBooks(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	filter := catalog.Filter{
		Search:  c.Query("q"),
		Genres:  c.QueryArray("genre"),
		Authors: c.QueryArray("author"),
		Status:  catalog.ParseStatus(c.Query("status")),
	}
	page := s.Browse(filter, queryInt(c, "page", 1), queryInt(c, "per_page", catalog.DefaultPerPage))
	c.JSON(http.StatusOK, page)
}

func (h *Handler) HandleGetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	book, err := s.Book(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) HandleCreateBook(c *gin.Context) {
	var req model.Book
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "Invalid book payload")
		return
	}
	req.ID = 0

	book, err := h.lib.Catalog.Add(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book.ToResponse(nil))
}

func (h *Handler) HandleUpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	var patch model.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "INVALID_REQUEST", "Invalid book payload")
		return
	}

	if _, err := h.lib.Catalog.Update(id, patch); err != nil {
		respondError(c, err)
		return
	}
	h.respondBook(c, id)
}

func (h *Handler) HandleDeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	if err := h.lib.DeleteBook(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) HandleGenres(c *gin.Context) {
	genres, err := h.lib.Catalog.Genres()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

func (h *Handler) HandleAuthors(c *gin.Context) {
	authors, err := h.lib.Catalog.Authors()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": authors})
}

// respondBook answers with the current view of one book.
func (h *Handler) respondBook(c *gin.Context, id int) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	book, err := s.Book(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}
