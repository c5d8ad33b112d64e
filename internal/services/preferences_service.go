package services

import (
	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
)

var colorSchemes = map[string]bool{"system": true, "light": true, "dark": true}

// preferencesService handles per-user preferences.
type preferencesService struct {
	db *gorm.DB
}

// NewPreferencesService creates a new PreferencesServicer.
func NewPreferencesService(db *gorm.DB) PreferencesServicer {
	return &preferencesService{db: db}
}

// GetPreferences returns the user's preferences, creating the defaults on
// first access.
func (s *preferencesService) GetPreferences(userID string) (*models.UserPreferences, error) {
	prefs := models.UserPreferences{}
	if err := s.db.
		Where(models.UserPreferences{UserID: userID}).
		Attrs(models.UserPreferences{ColorScheme: "system"}).
		FirstOrCreate(&prefs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &prefs, nil
}

// UpdatePreferences merges the given fields into the stored preferences.
func (s *preferencesService) UpdatePreferences(userID string, fields PreferencesUpdateFields) (*models.UserPreferences, error) {
	prefs, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.ColorScheme != nil {
		if !colorSchemes[*fields.ColorScheme] {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "color scheme must be system, light or dark")
		}
		updates["color_scheme"] = *fields.ColorScheme
	}
	for column, limit := range map[string]*int64{
		"legacy_daily_limit":   fields.LegacyDailyLimit,
		"legacy_weekly_limit":  fields.LegacyWeeklyLimit,
		"legacy_monthly_limit": fields.LegacyMonthlyLimit,
	} {
		if limit == nil {
			continue
		}
		if *limit < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limits cannot be negative")
		}
		updates[column] = *limit
	}
	if fields.SetupCompleted != nil {
		updates["setup_completed"] = *fields.SetupCompleted
	}

	if len(updates) == 0 {
		return prefs, nil
	}
	if err := s.db.Model(&models.UserPreferences{}).
		Where("user_id = ?", userID).
		Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetPreferences(userID)
}
