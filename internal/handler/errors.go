package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"home-library/internal/agent"
	"home-library/internal/catalog"
	"home-library/internal/library"
	"home-library/internal/logging"
	"home-library/internal/reading"
	"home-library/internal/storage"
	"home-library/internal/validation"
)

// retryAfterSeconds is suggested to clients after an upstream quota error.
const retryAfterSeconds = 60

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": code})
}

// respondError maps domain and gateway errors to a status and a stable code.
func respondError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "code": "VALIDATION_ERROR", "fields": verr.Fields})
	case errors.Is(err, catalog.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found", "code": "NOT_FOUND"})
	case errors.Is(err, reading.ErrInvalidRating):
		badRequest(c, "INVALID_RATING", err.Error())
	case errors.Is(err, reading.ErrNotRead),
		errors.Is(err, reading.ErrAlreadyRead),
		errors.Is(err, reading.ErrAlreadyReading),
		errors.Is(err, reading.ErrNotReading):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "STATE_CONFLICT"})
	case errors.Is(err, library.ErrInvalidAPIKey):
		badRequest(c, "INVALID_API_KEY", err.Error())
	case errors.Is(err, agent.ErrNoAPIKey):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Configure a Gemini API key first", "code": "API_KEY_MISSING"})
	case errors.Is(err, agent.ErrNoReadingHistory):
		c.JSON(http.StatusConflict, gin.H{"error": "Mark and rate a few books as read first", "code": "NO_READING_HISTORY"})
	case errors.Is(err, agent.ErrEmptyQuery):
		badRequest(c, "EMPTY_QUERY", err.Error())
	case errors.Is(err, agent.ErrInvalidStyle):
		badRequest(c, "INVALID_STYLE", err.Error())
	case errors.Is(err, library.ErrAIDisabled), errors.Is(err, agent.ErrChatUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI service is not available", "code": "SERVICE_UNAVAILABLE"})
	case errors.Is(err, agent.ErrGateway) || errors.Is(err, agent.ErrUnavailable):
		respondGatewayError(c, err)
	case errors.Is(err, storage.ErrCorrupt):
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("data file is corrupt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Library data is corrupt", "code": "DATA_CORRUPT"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "code": "INTERNAL_ERROR"})
	}
}

// respondGatewayError reports an AI failure. The rest of the API keeps working,
// so clients get fallback: true and can carry on without the AI result.
func respondGatewayError(c *gin.Context, err error) {
	log := logging.Ctx(c.Request.Context())
	switch {
	case agent.IsRateLimitError(err):
		log.Warn().Err(err).Msg("gemini rate limit")
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":      "The AI service quota is exhausted. Please try again later.",
			"code":       "GEMINI_RATE_LIMITED",
			"fallback":   true,
			"retryAfter": retryAfterSeconds,
		})
	case errors.Is(err, agent.ErrUnavailable):
		log.Warn().Err(err).Msg("gemini circuit open")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    "The AI service is temporarily unavailable.",
			"code":     "AI_UNAVAILABLE",
			"fallback": true,
		})
	default:
		log.Error().Err(err).Msg("gemini call failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "Failed to generate a response. Please try again.",
			"code":     "GATEWAY_ERROR",
			"fallback": true,
		})
	}
}
