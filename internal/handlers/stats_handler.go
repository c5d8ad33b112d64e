package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/services"
)

// StatsHandler serves aggregated ledger statistics.
type StatsHandler struct {
	statsService services.StatsServicer
	loc          *time.Location
}

// NewStatsHandler creates a new StatsHandler. Default ranges and date-only
// bounds are taken in loc.
func NewStatsHandler(statsService services.StatsServicer, loc *time.Location) *StatsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsHandler{statsService: statsService, loc: loc}
}

// GetSummary aggregates income, expense and per-category totals
// @Summary     Period summary
// @Description Defaults to the current month. A date-only "to" includes that whole day. Transfers are excluded.
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "RFC3339 or YYYY-MM-DD"
// @Param       to   query string false "RFC3339 or YYYY-MM-DD"
// @Success     200 {object} services.PeriodSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /stats/summary [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now().In(h.loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.loc)
	to := from.AddDate(0, 1, 0)

	if v := c.Query("from"); v != "" {
		t, _, err := parseFlexibleTime(v, h.loc)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from, use RFC3339 or YYYY-MM-DD"))
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, dateOnly, err := parseFlexibleTime(v, h.loc)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to, use RFC3339 or YYYY-MM-DD"))
			return
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		to = t
	}

	summary, err := h.statsService.GetSummary(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetMonthlySummary returns twelve monthly totals
// @Summary     Monthly totals
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Calendar year (default current)"
// @Success     200 {array}  services.MonthTotal "Months"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /stats/monthly [get]
func (h *StatsHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year := time.Now().In(h.loc).Year()
	if v := c.Query("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year"))
			return
		}
	}

	months, err := h.statsService.GetMonthlySummary(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "months": months})
}
