package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"home-library/internal/agent"
	"home-library/internal/agent/response"
	"home-library/internal/logging"
	"home-library/internal/model"
)

type lookupRequest struct {
	Query string `json:"query" binding:"required,max=500"`
}

type summaryRequest struct {
	BookID      *int   `json:"book_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Narrate     bool   `json:"narrate"`
}

type coverRequest struct {
	Description string `json:"description" binding:"required,max=1000"`
	Style       string `json:"style" binding:"required"`
}

// acceptRequest carries exactly one AI suggestion to add to the catalog.
type acceptRequest struct {
	New    *response.NewPick    `json:"new"`
	Lookup *response.BookLookup `json:"lookup"`
}

// gateway resolves the AI gateway, answering the error itself on failure.
func (h *Handler) gateway(c *gin.Context) (*agent.Gateway, bool) {
	g, err := h.lib.Gateway(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return g, true
}

func (h *Handler) HandleAIRecommend(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	g, ok := h.gateway(c)
	if !ok {
		return
	}
	rec, err := g.RecommendPair(c.Request.Context(), s.Books(), s.State())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) HandleAILookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "query is required (max 500 characters)")
		return
	}
	g, ok := h.gateway(c)
	if !ok {
		return
	}
	lookup, err := g.LookupBook(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lookup)
}

// HandleAISummary summarizes a catalog book, or a book given by its fields,
// and optionally narrates the summary. A failed narration still returns the text.
func (h *Handler) HandleAISummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "Invalid summary request")
		return
	}

	book := model.Book{
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Genre:       strings.TrimSpace(req.Genre),
		Description: strings.TrimSpace(req.Description),
	}
	if req.BookID != nil {
		found, err := h.lib.Catalog.Get(*req.BookID)
		if err != nil {
			respondError(c, err)
			return
		}
		book = found
	}
	if book.Title == "" || book.Author == "" {
		badRequest(c, "INVALID_REQUEST", "book_id or title and author are required")
		return
	}

	g, ok := h.gateway(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	summary, err := g.Summarize(ctx, book)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"title": book.Title, "summary": summary}
	if req.Narrate {
		path, err := g.Narrate(ctx, book.Title, summary)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("narration failed")
			resp["audio_error"] = "Audio could not be generated"
		} else {
			resp["audio_path"] = path
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HandleAICover(c *gin.Context) {
	var req coverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "description and style are required")
		return
	}
	g, ok := h.gateway(c)
	if !ok {
		return
	}
	img, err := g.GenerateCover(c.Request.Context(), req.Description, req.Style)
	if err != nil {
		respondError(c, err)
		return
	}
	// []byte is encoded as base64.
	c.JSON(http.StatusOK, gin.H{"mime_type": img.MIMEType, "image": img.Data})
}

// HandleAIAccept adds an AI suggestion to the catalog.
func (h *Handler) HandleAIAccept(c *gin.Context) {
	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.New == nil) == (req.Lookup == nil) {
		badRequest(c, "INVALID_REQUEST", "send exactly one of new or lookup")
		return
	}

	var candidate model.Book
	if req.New != nil {
		candidate = agent.NewPickBook(*req.New)
	} else {
		candidate = req.Lookup.Book()
	}

	book, err := h.lib.Catalog.Add(candidate)
	if err != nil {
		respondError(c, err)
		return
	}
	logging.Ctx(c.Request.Context()).Info().Int("book_id", book.ID).Msg("ai suggestion added to catalog")
	c.JSON(http.StatusCreated, book.ToResponse(nil))
}
