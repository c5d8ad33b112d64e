package services

import (
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/notify"
)

// notificationService recomputes limit notifications from the store on
// every call. Read and dismissed state lives in the session store only.
type notificationService struct {
	db      *gorm.DB
	engine  *notify.Engine
	session *notify.SessionStore
	now     func() time.Time
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB, engine *notify.Engine, session *notify.SessionStore) NotificationServicer {
	return &notificationService{
		db:      db,
		engine:  engine,
		session: session,
		now:     time.Now,
	}
}

// GetNotifications returns the user's current limit breaches, minus the
// dismissed ones, with read flags applied.
func (s *notificationService) GetNotifications(userID string) ([]models.Notification, error) {
	now := s.now()

	var (
		wallets  []models.Wallet
		expenses []models.Transaction
		g        errgroup.Group
	)
	g.Go(func() error {
		return s.db.
			Where("user_id = ? AND (daily_limit > 0 OR weekly_limit > 0 OR monthly_limit > 0)", userID).
			Order("created_at ASC").
			Find(&wallets).Error
	})
	g.Go(func() error {
		return s.db.
			Where("user_id = ? AND type = ? AND date >= ?", userID, models.TransactionTypeExpense, s.engine.EarliestStart(now).UTC()).
			Find(&expenses).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	list := s.engine.Compute(wallets, expenses, now, s.session.Dismissed(userID))

	read := s.session.Read(userID)
	live := make(map[string]struct{}, len(list))
	for i := range list {
		live[list[i].ID] = struct{}{}
		if _, ok := read[list[i].ID]; ok {
			list[i].Read = true
		}
	}
	s.session.Retain(userID, live)
	return list, nil
}

// MarkRead flags one live notification as read.
func (s *notificationService) MarkRead(userID, notificationID string) error {
	list, err := s.GetNotifications(userID)
	if err != nil {
		return err
	}
	if !contains(list, notificationID) {
		return apperrors.ErrNotificationNotFound
	}
	s.session.MarkRead(userID, notificationID)
	return nil
}

// MarkAllRead flags every live notification as read.
func (s *notificationService) MarkAllRead(userID string) error {
	list, err := s.GetNotifications(userID)
	if err != nil {
		return err
	}
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	s.session.MarkRead(userID, ids...)
	return nil
}

// Dismiss hides a notification for the rest of its period. Dismissing an
// already dismissed id is a no-op.
func (s *notificationService) Dismiss(userID, notificationID string) error {
	if _, done := s.session.Dismissed(userID)[notificationID]; done {
		return nil
	}
	list, err := s.GetNotifications(userID)
	if err != nil {
		return err
	}
	if !contains(list, notificationID) {
		return apperrors.ErrNotificationNotFound
	}
	s.session.Dismiss(userID, notificationID)
	return nil
}

func contains(list []models.Notification, id string) bool {
	for i := range list {
		if list[i].ID == id {
			return true
		}
	}
	return false
}
