package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"home-library/internal/agent"
	"home-library/internal/logging"
)

// MaxMessageLength is the maximum allowed chat message length
const MaxMessageLength = 250

type ChatRequest struct {
	Message   string `json:"message" binding:"required,max=250"`
	BookID    *int   `json:"book_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponseDTO struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	SessionID   string   `json:"session_id"`
}

func (h *Handler) HandleChat(c *gin.Context) {
	startTime := time.Now()
	log := logging.Ctx(c.Request.Context())

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if strings.Contains(err.Error(), "max") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Message is too long (max 250 characters)",
				"code":  "MESSAGE_TOO_LONG",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: message is required",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	// Normalize to NFC before the injection check so lookalike encodings match.
	req.Message = norm.NFC.String(req.Message)

	if isInjectionAttempt(req.Message) {
		log.Warn().Msg("chat injection attempt blocked")
		c.JSON(http.StatusOK, ChatResponseDTO{
			Response:    "I can't help with that. Let's talk about your books!",
			Suggestions: []string{"What should I read next?", "Which genres do I read most?"},
			SessionID:   req.SessionID,
		})
		return
	}

	if req.BookID != nil {
		if _, err := h.lib.Catalog.Get(*req.BookID); err != nil {
			respondError(c, err)
			return
		}
	}

	g, ok := h.gateway(c)
	if !ok {
		return
	}

	result, err := g.Chat(c.Request.Context(), agent.ChatRequest{
		UserID:    generateUserID(c),
		SessionID: req.SessionID,
		Message:   req.Message,
		BookID:    req.BookID,
	})
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(startTime)).Msg("chat failed")
		respondError(c, err)
		return
	}

	log.Info().Dur("elapsed", time.Since(startTime)).Str("session_id", result.SessionID).Msg("chat completed")
	c.JSON(http.StatusOK, ChatResponseDTO{
		Response:    result.Response,
		Suggestions: result.Suggestions,
		SessionID:   result.SessionID,
	})
}

// generateUserID identifies the chat user by client IP, or a fresh id when unknown.
func generateUserID(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		return "user_" + uuid.NewString()
	}
	return "user_" + ip
}

// injectionPatterns block direct prompt injection before it reaches the model.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+|any\s+)?(the\s+|your\s+)?(previous|prior|above|earlier)\s+(instructions|rules|prompts?)`),
	regexp.MustCompile(`(?i)(reveal|print|show|repeat|output)\s+(me\s+)?(your|the)\s+(system\s+prompt|instructions|rules)`),
	regexp.MustCompile(`(?i)\b(jailbreak|DAN\s+mode|developer\s+mode)\b`),
	regexp.MustCompile(`(?i)you\s+are\s+(now|no\s+longer)\s+`),
	regexp.MustCompile(`(?i)</?\s*(system|assistant)\s*>`),
	regexp.MustCompile(`(?i)\[\s*(SUGGESTIONS|book::)`),
}

// isInjectionAttempt reports whether any injection pattern matches message.
func isInjectionAttempt(message string) bool {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(message) {
			return true
		}
	}
	return false
}
