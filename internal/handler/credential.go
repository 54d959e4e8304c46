package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentialRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

func (h *Handler) HandleGetCredential(c *gin.Context) {
	_, cred, err := h.lib.APIKey()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cred)
}

func (h *Handler) HandleSetCredential(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", "api_key is required")
		return
	}
	cred, err := h.lib.SetAPIKey(req.APIKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cred)
}
