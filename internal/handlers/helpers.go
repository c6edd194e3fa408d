package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/middleware"
)

const dateOnly = "2006-01-02"

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// getActor extracts the authenticated principal from the Gin context.
// Returns ErrUnauthorized if not present.
func getActor(c *gin.Context) (string, error) {
	actor := c.GetString(middleware.ActorKey)
	if actor == "" {
		return "", apperrors.ErrUnauthorized
	}
	return actor, nil
}

// parseFlexibleTime accepts either a calendar date (YYYY-MM-DD, midnight UTC)
// or a full RFC3339 timestamp. dateOnly reports which form matched.
func parseFlexibleTime(s string) (t time.Time, isDateOnly bool, err error) {
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
}

// parseRangeStart parses an inclusive range start.
func parseRangeStart(param, s string) (time.Time, error) {
	t, _, err := parseFlexibleTime(s)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, param+": "+err.Error())
	}
	return t, nil
}

// parseRangeEnd parses an inclusive range end. A bare date covers the whole day.
func parseRangeEnd(param, s string) (time.Time, error) {
	t, isDateOnly, err := parseFlexibleTime(s)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, param+": "+err.Error())
	}
	if isDateOnly {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// respondWithError attaches err to the context and aborts. The ErrorHandler
// middleware renders it as an ErrorResponse.
func respondWithError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}
