package agent

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrGateway wraps every failure of the generative backends.
	ErrGateway = errors.New("ai gateway error")
	// ErrUnavailable means the circuit breaker is rejecting calls.
	ErrUnavailable = errors.New("ai service temporarily unavailable")
	// ErrNoAPIKey means no Gemini key is configured.
	ErrNoAPIKey = errors.New("gemini api key is not configured")
	// ErrEmptyResponse means the backend answered with nothing usable.
	ErrEmptyResponse = errors.New("empty response from ai service")
	// ErrNoReadingHistory means a recommendation was requested before any book was read.
	ErrNoReadingHistory = errors.New("no read books to build a profile from")
	// ErrInvalidStyle means the cover style is not one of CoverStyles.
	ErrInvalidStyle = errors.New("unknown cover style")
)

// IsRateLimitError checks if the error is a Gemini API rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "ResourceExhausted") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota")
}

func gatewayError(err error) error {
	if err == nil || errors.Is(err, ErrGateway) {
		return err
	}
	return errors.Join(ErrGateway, err)
}
