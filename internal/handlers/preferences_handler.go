package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/services"
)

// PreferencesHandler handles per-user preferences.
type PreferencesHandler struct {
	preferencesService services.PreferencesServicer
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(preferencesService services.PreferencesServicer) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService}
}

// UpdatePreferencesRequest is a partial preferences merge.
type UpdatePreferencesRequest struct {
	ColorScheme        *string `json:"color_scheme" binding:"omitempty,color_scheme"`
	LegacyDailyLimit   *int64  `json:"legacy_daily_limit" binding:"omitempty,min=0"`
	LegacyWeeklyLimit  *int64  `json:"legacy_weekly_limit" binding:"omitempty,min=0"`
	LegacyMonthlyLimit *int64  `json:"legacy_monthly_limit" binding:"omitempty,min=0"`
	SetupCompleted     *bool   `json:"setup_completed"`
}

// GetPreferences returns the caller's preferences
// @Summary     Get preferences
// @Tags        preferences
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserPreferences "Preferences"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /preferences [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	prefs, err := h.preferencesService.GetPreferences(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// UpdatePreferences merges the given fields
// @Summary     Update preferences
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePreferencesRequest true "Fields to change"
// @Success     200 {object} models.UserPreferences "Preferences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /preferences [patch]
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	prefs, err := h.preferencesService.UpdatePreferences(userID, services.PreferencesUpdateFields{
		ColorScheme:        req.ColorScheme,
		LegacyDailyLimit:   req.LegacyDailyLimit,
		LegacyWeeklyLimit:  req.LegacyWeeklyLimit,
		LegacyMonthlyLimit: req.LegacyMonthlyLimit,
		SetupCompleted:     req.SetupCompleted,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
