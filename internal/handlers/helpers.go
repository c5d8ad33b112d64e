package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/events"
	"dompet/internal/logger"
	"dompet/internal/models"
	"dompet/internal/services"
)

const dateOnlyLayout = "2006-01-02"

// ErrorDetail is the body of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

// getUserID extracts the authenticated owner id from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString("userID")
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	log := logger.WithRequest(c.GetString("requestID"), c.GetString("userID"))

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			log.Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	log.Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}

// parseFlexibleTime accepts RFC3339 or YYYY-MM-DD. A date without a time is
// midnight in loc, and dateOnly reports that case.
func parseFlexibleTime(value string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	value = strings.TrimSpace(value)
	if t, err = time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	if t, err = time.ParseInLocation(dateOnlyLayout, value, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q, use RFC3339 or YYYY-MM-DD", value)
}

// parseDate parses a request date, defaulting to now when empty.
func parseDate(value *string, loc *time.Location) (time.Time, error) {
	if value == nil || *value == "" {
		return time.Now(), nil
	}
	t, _, err := parseFlexibleTime(*value, loc)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return t, nil
}

// currentNotifications recomputes the owner's notifications after a ledger
// write. A failure here never fails the write that already committed.
func currentNotifications(c *gin.Context, svc services.NotificationServicer, userID string) []models.Notification {
	list, err := svc.GetNotifications(userID)
	if err != nil {
		logger.WithRequest(c.GetString("requestID"), userID).Warnw("failed to recompute notifications", "error", err)
		return []models.Notification{}
	}
	return list
}

// publish sends a ledger event, logging instead of failing on error.
func publish(c *gin.Context, pub events.Publisher, e events.Event) {
	e.OccurredAt = time.Now().UTC()
	if err := pub.Publish(c.Request.Context(), e); err != nil {
		logger.WithRequest(c.GetString("requestID"), e.UserID).Warnw("failed to publish ledger event",
			"type", e.Type,
			"error", err,
		)
	}
}

func walletIDs(wallets []models.Wallet) []string {
	ids := make([]string, len(wallets))
	for i := range wallets {
		ids[i] = wallets[i].ID
	}
	return ids
}
