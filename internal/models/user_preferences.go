package models

import "time"

// UserPreferences holds per-user settings. The global limits predate the
// per-wallet limits and are kept only so older clients can read them back.
type UserPreferences struct {
	UserID             string    `gorm:"primaryKey" json:"user_id"`
	ColorScheme        string    `gorm:"not null;default:'system'" json:"color_scheme"`
	LegacyDailyLimit   int64     `gorm:"type:bigint;not null;default:0" json:"legacy_daily_limit"`
	LegacyWeeklyLimit  int64     `gorm:"type:bigint;not null;default:0" json:"legacy_weekly_limit"`
	LegacyMonthlyLimit int64     `gorm:"type:bigint;not null;default:0" json:"legacy_monthly_limit"`
	SetupCompleted     bool      `gorm:"not null;default:false" json:"setup_completed"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
