package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/services"
)

var _ services.NotificationServicer = (*mockNotificationService)(nil)

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/notifications", handler.GetNotifications)
	auth.POST("/notifications/read-all", handler.MarkAllRead)
	auth.POST("/notifications/:id/read", handler.MarkRead)
	auth.POST("/notifications/:id/dismiss", handler.Dismiss)
	return r
}

func TestNotificationHandler_GetNotifications(t *testing.T) {
	t.Run("counts unread", func(t *testing.T) {
		svc := &mockNotificationService{
			getNotificationsFn: func(string) ([]models.Notification, error) {
				return []models.Notification{
					{ID: "limit-daily:w1:2024-03-13", Read: true},
					{ID: "limit-weekly:w1:2024-W11"},
					{ID: "limit-monthly:w1:2024-03"},
				}, nil
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "GET", "/notifications", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["unread"].(float64) != 2 {
			t.Errorf("expected 2 unread, got %v", result["unread"])
		}
		if len(result["notifications"].([]interface{})) != 3 {
			t.Errorf("expected 3 notifications, got %v", result["notifications"])
		}
	})

	t.Run("returns 500 on service failure", func(t *testing.T) {
		svc := &mockNotificationService{
			getNotificationsFn: func(string) ([]models.Notification, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "GET", "/notifications", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	t.Run("passes the id", func(t *testing.T) {
		var gotID string
		svc := &mockNotificationService{
			markReadFn: func(_, id string) error {
				gotID = id
				return nil
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "POST", "/notifications/limit-daily:w1:2024-03-13/read", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != "limit-daily:w1:2024-03-13" {
			t.Errorf("unexpected id %q", gotID)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		svc := &mockNotificationService{
			markReadFn: func(_, _ string) error { return apperrors.ErrNotificationNotFound },
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "POST", "/notifications/nope/read", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOTIFICATION_NOT_FOUND")
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	called := false
	svc := &mockNotificationService{
		markAllReadFn: func(userID string) error {
			called = userID == testUserID
			return nil
		},
	}
	r := setupNotificationRouter(NewNotificationHandler(svc))

	rec := doRequest(r, "POST", "/notifications/read-all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Error("expected MarkAllRead for the caller")
	}
}

func TestNotificationHandler_Dismiss(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))

		rec := doRequest(r, "POST", "/notifications/limit-weekly:w1:2024-W11/dismiss", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewNotificationHandler(&mockNotificationService{})
		r := gin.New()
		r.POST("/notifications/:id/dismiss", handler.Dismiss)

		rec := doRequest(r, "POST", "/notifications/x/dismiss", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
