package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/services"
)

type mockStatsService struct {
	getSummaryFn        func(userID string, from, to time.Time) (*services.PeriodSummary, error)
	getMonthlySummaryFn func(userID string, year int) ([]services.MonthTotal, error)
}

func (m *mockStatsService) GetSummary(userID string, from, to time.Time) (*services.PeriodSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID, from, to)
	}
	return &services.PeriodSummary{From: from, To: to, Categories: []services.CategoryTotal{}}, nil
}

func (m *mockStatsService) GetMonthlySummary(userID string, year int) ([]services.MonthTotal, error) {
	if m.getMonthlySummaryFn != nil {
		return m.getMonthlySummaryFn(userID, year)
	}
	return make([]services.MonthTotal, 12), nil
}

var _ services.StatsServicer = (*mockStatsService)(nil)

func setupStatsRouter(handler *StatsHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/stats/summary", handler.GetSummary)
	auth.GET("/stats/monthly", handler.GetMonthlySummary)
	return r
}

func TestStatsHandler_GetSummary(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)

	t.Run("defaults to current month", func(t *testing.T) {
		var from, to time.Time
		svc := &mockStatsService{
			getSummaryFn: func(_ string, f, tt time.Time) (*services.PeriodSummary, error) {
				from, to = f, tt
				return &services.PeriodSummary{}, nil
			},
		}
		r := setupStatsRouter(NewStatsHandler(svc, wib))

		rec := doRequest(r, "GET", "/stats/summary", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		now := time.Now().In(wib)
		if from.In(wib).Day() != 1 || from.In(wib).Month() != now.Month() {
			t.Errorf("expected start of month, got %v", from)
		}
		if !to.Equal(from.AddDate(0, 1, 0)) {
			t.Errorf("expected one month range, got %v to %v", from, to)
		}
	})

	t.Run("date-only to includes the whole day", func(t *testing.T) {
		var from, to time.Time
		svc := &mockStatsService{
			getSummaryFn: func(_ string, f, tt time.Time) (*services.PeriodSummary, error) {
				from, to = f, tt
				return &services.PeriodSummary{}, nil
			},
		}
		r := setupStatsRouter(NewStatsHandler(svc, wib))

		rec := doRequest(r, "GET", "/stats/summary?from=2024-03-01&to=2024-03-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !from.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, wib)) {
			t.Errorf("unexpected from %v", from)
		}
		if !to.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, wib)) {
			t.Errorf("unexpected to %v", to)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupStatsRouter(NewStatsHandler(&mockStatsService{}, time.UTC))

		rec := doRequest(r, "GET", "/stats/summary?from=March", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("passes service validation errors", func(t *testing.T) {
		svc := &mockStatsService{
			getSummaryFn: func(_ string, _, _ time.Time) (*services.PeriodSummary, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be before to")
			},
		}
		r := setupStatsRouter(NewStatsHandler(svc, time.UTC))

		rec := doRequest(r, "GET", "/stats/summary?from=2024-04-01&to=2024-03-01", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStatsHandler_GetMonthlySummary(t *testing.T) {
	t.Run("uses requested year", func(t *testing.T) {
		var gotYear int
		svc := &mockStatsService{
			getMonthlySummaryFn: func(_ string, year int) ([]services.MonthTotal, error) {
				gotYear = year
				return make([]services.MonthTotal, 12), nil
			},
		}
		r := setupStatsRouter(NewStatsHandler(svc, time.UTC))

		rec := doRequest(r, "GET", "/stats/monthly?year=2024", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotYear != 2024 {
			t.Errorf("expected 2024, got %d", gotYear)
		}
		result := parseJSON(t, rec)
		if len(result["months"].([]interface{})) != 12 {
			t.Errorf("expected 12 months, got %v", result["months"])
		}
	})

	t.Run("returns 400 on non-numeric year", func(t *testing.T) {
		r := setupStatsRouter(NewStatsHandler(&mockStatsService{}, time.UTC))

		rec := doRequest(r, "GET", "/stats/monthly?year=last", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
