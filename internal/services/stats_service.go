package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
)

// statsService aggregates ledger data for reporting. Transfer legs only
// move money between a user's own wallets, so they are left out of
// income and expense figures.
type statsService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewStatsService creates a new StatsServicer. Month buckets are computed
// in loc.
func NewStatsService(db *gorm.DB, loc *time.Location) StatsServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{db: db, loc: loc}
}

type categoryRow struct {
	CategoryID string
	Type       string
	Total      int64
	Count      int64
}

// GetSummary aggregates transactions dated in [from, to).
func (s *statsService) GetSummary(userID string, from, to time.Time) (*PeriodSummary, error) {
	if !to.After(from) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be after from")
	}

	var (
		rows         []categoryRow
		totalBalance int64
		g            errgroup.Group
	)
	g.Go(func() error {
		return s.db.Model(&models.Transaction{}).
			Select("category_id, type, SUM(amount) AS total, COUNT(*) AS count").
			Where("user_id = ? AND transfer_id IS NULL AND date >= ? AND date < ?", userID, from.UTC(), to.UTC()).
			Group("category_id, type").
			Scan(&rows).Error
	})
	g.Go(func() error {
		return s.db.Model(&models.Wallet{}).
			Select("COALESCE(SUM(balance), 0)").
			Where("user_id = ?", userID).
			Scan(&totalBalance).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	names, err := s.categoryNames(userID, rows)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{From: from, To: to, TotalBalance: totalBalance}
	for _, r := range rows {
		if r.Type == string(models.TransactionTypeIncome) {
			summary.Income += r.Total
		} else {
			summary.Expense += r.Total
		}
	}
	summary.Net = summary.Income - summary.Expense

	summary.Categories = make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		typeTotal := summary.Expense
		if r.Type == string(models.TransactionTypeIncome) {
			typeTotal = summary.Income
		}
		summary.Categories = append(summary.Categories, CategoryTotal{
			CategoryID: r.CategoryID,
			Name:       names[r.CategoryID],
			Type:       r.Type,
			Total:      r.Total,
			Count:      r.Count,
			Percentage: percentage(r.Total, typeTotal),
		})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.CategoryID < b.CategoryID
	})
	return summary, nil
}

func (s *statsService) categoryNames(userID string, rows []categoryRow) (map[string]string, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CategoryID)
	}
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var categories []models.Category
	if err := s.db.Where("user_id = ? AND id IN ?", userID, ids).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// percentage returns part/whole*100 rounded to two decimals.
func percentage(part, whole int64) string {
	if whole == 0 {
		return decimal.Zero.StringFixed(2)
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole)).
		StringFixed(2)
}

// GetMonthlySummary returns twelve month totals for year.
func (s *statsService) GetMonthlySummary(userID string, year int) ([]MonthTotal, error) {
	if year < 1970 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year out of range")
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	end := start.AddDate(1, 0, 0)

	var txs []models.Transaction
	if err := s.db.Select("type, amount, date").
		Where("user_id = ? AND transfer_id IS NULL AND date >= ? AND date < ?", userID, start.UTC(), end.UTC()).
		Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	months := make([]MonthTotal, 12)
	for i := range months {
		months[i].Month = fmt.Sprintf("%04d-%02d", year, i+1)
	}
	for _, t := range txs {
		m := &months[t.Date.In(s.loc).Month()-1]
		if t.Type == models.TransactionTypeIncome {
			m.Income += t.Amount
		} else {
			m.Expense += t.Amount
		}
	}
	for i := range months {
		months[i].Net = months[i].Income - months[i].Expense
	}
	return months, nil
}
