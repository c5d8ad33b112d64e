package models

import "time"

// NotificationType identifies which limit period a notification is about.
type NotificationType string

const (
	NotificationLimitDaily   NotificationType = "limit-daily"
	NotificationLimitWeekly  NotificationType = "limit-weekly"
	NotificationLimitMonthly NotificationType = "limit-monthly"
)

// Notification is derived from wallets and transactions on demand and is
// never persisted. Its ID is stable for the same wallet within one period.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	WalletID  string           `json:"wallet_id"`
	Message   string           `json:"message"`
	Spent     int64            `json:"spent"`
	Limit     int64            `json:"limit"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}
