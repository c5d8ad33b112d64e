package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dompet/internal/cardvault"
	"dompet/internal/config"
	"dompet/internal/events"
	"dompet/internal/handlers"
	"dompet/internal/logger"
	"dompet/internal/middleware"
	"dompet/internal/notify"
	"dompet/internal/services"
	"dompet/internal/testutil"
	"dompet/internal/validator"
)

const testSecret = "integration-secret"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	prev := config.Get()
	config.Set(&config.Config{JWTSecret: testSecret, LedgerLocation: time.UTC})
	t.Cleanup(func() { config.Set(prev) })

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	sealer, err := cardvault.New(make([]byte, 32))
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	notificationService := services.NewNotificationService(db, notify.NewEngine(time.UTC), notify.NewSessionStore())
	auditService := services.NewAuditService(db)

	routes := &handlers.Set{
		Wallet:   handlers.NewWalletHandler(services.NewWalletService(db), notificationService, auditService),
		Category: handlers.NewCategoryHandler(services.NewCategoryService(db), auditService),
		Transaction: handlers.NewTransactionHandler(
			services.NewTransactionService(db),
			services.NewTransferService(db, false),
			notificationService,
			events.NewNop(),
			auditService,
			time.UTC,
		),
		Notification: handlers.NewNotificationHandler(notificationService),
		Card:         handlers.NewCardHandler(services.NewCardService(db, sealer), auditService),
		Preferences:  handlers.NewPreferencesHandler(services.NewPreferencesService(db)),
		Stats:        handlers.NewStatsHandler(services.NewStatsService(db, time.UTC), time.UTC),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())
	routes.Register(v1)

	return &testApp{DB: db, Router: router}
}

// tokenFor signs an access token the way the identity provider would.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.IssueToken(userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// newUser returns a fresh owner id and a token for it.
func newUser(t *testing.T) (string, string) {
	t.Helper()
	userID := testutil.NewUserID()
	return userID, tokenFor(t, userID)
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// expectStatus fails the test when the response code differs.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// errorCode extracts error.code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// createWallet creates a wallet and returns its id.
func (app *testApp) createWallet(t *testing.T, token, body string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/wallets", body, token)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["wallet"].(map[string]interface{})["id"].(string)
}

// createCategory creates a category and returns its id.
func (app *testApp) createCategory(t *testing.T, token, name, categoryType string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories",
		fmt.Sprintf(`{"name":%q,"type":%q}`, name, categoryType), token)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)
}

// walletBalance reads a wallet's current balance through the API.
func (app *testApp) walletBalance(t *testing.T, token, walletID string) int64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/wallets/"+walletID, "", token)
	expectStatus(t, rec, http.StatusOK)
	return int64(parseJSON(t, rec)["wallet"].(map[string]interface{})["balance"].(float64))
}
