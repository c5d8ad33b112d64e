package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dompet/internal/events"
	"dompet/internal/logger"
	"dompet/internal/models"
	"dompet/internal/validator"
)

const testUserID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// --- shared mocks ---

type auditEntry struct {
	action     string
	resourceID string
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) Log(_ string, action, _ string, resourceID string, _ string, _ map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{action: action, resourceID: resourceID})
}

type mockNotificationService struct {
	getNotificationsFn func(userID string) ([]models.Notification, error)
	markReadFn         func(userID, id string) error
	markAllReadFn      func(userID string) error
	dismissFn          func(userID, id string) error
}

func (m *mockNotificationService) GetNotifications(userID string) ([]models.Notification, error) {
	if m.getNotificationsFn != nil {
		return m.getNotificationsFn(userID)
	}
	return []models.Notification{}, nil
}

func (m *mockNotificationService) MarkRead(userID, id string) error {
	if m.markReadFn != nil {
		return m.markReadFn(userID, id)
	}
	return nil
}

func (m *mockNotificationService) MarkAllRead(userID string) error {
	if m.markAllReadFn != nil {
		return m.markAllReadFn(userID)
	}
	return nil
}

func (m *mockNotificationService) Dismiss(userID, id string) error {
	if m.dismissFn != nil {
		return m.dismissFn(userID, id)
	}
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, e events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

// --- test helpers ---

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func TestParseFlexibleTime(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	t.Run("rfc3339 keeps offset", func(t *testing.T) {
		got, dateOnly, err := parseFlexibleTime("2024-03-13T10:00:00Z", jakarta)
		if err != nil || dateOnly {
			t.Fatalf("unexpected result %v %v", dateOnly, err)
		}
		if !got.Equal(time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected time %v", got)
		}
	})

	t.Run("date only is midnight in location", func(t *testing.T) {
		got, dateOnly, err := parseFlexibleTime("2024-03-13", jakarta)
		if err != nil || !dateOnly {
			t.Fatalf("unexpected result %v %v", dateOnly, err)
		}
		if !got.Equal(time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected instant %v", got.UTC())
		}
	})

	t.Run("rejects other formats", func(t *testing.T) {
		if _, _, err := parseFlexibleTime("13/03/2024", jakarta); err == nil {
			t.Error("expected error")
		}
	})
}
