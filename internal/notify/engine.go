// Package notify derives spend-limit notifications from wallets and their
// expense history. Nothing here touches the store; the same inputs always
// produce the same notifications.
package notify

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dompet/internal/models"
)

// Period is one of the calendar windows a wallet limit applies to.
type Period struct {
	Kind  models.NotificationType
	Label string
	Start time.Time
	Key   string
}

// Engine evaluates wallet limits against a calendar in a fixed location.
type Engine struct {
	loc     *time.Location
	printer *message.Printer
}

// NewEngine returns an Engine whose day, week and month boundaries are
// taken in loc. A nil loc means UTC.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		loc:     loc,
		printer: message.NewPrinter(language.Indonesian),
	}
}

// Location returns the calendar location used for period boundaries.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Periods returns the daily, weekly and monthly windows containing now.
// Weeks start on Monday and are keyed by ISO week number.
func (e *Engine) Periods(now time.Time) [3]Period {
	local := now.In(e.loc)
	y, m, d := local.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	offset := (int(day.Weekday()) + 6) % 7
	week := day.AddDate(0, 0, -offset)
	month := time.Date(y, m, 1, 0, 0, 0, 0, e.loc)
	isoYear, isoWeek := local.ISOWeek()

	return [3]Period{
		{Kind: models.NotificationLimitDaily, Label: "daily", Start: day, Key: day.Format("2006-01-02")},
		{Kind: models.NotificationLimitWeekly, Label: "weekly", Start: week, Key: fmt.Sprintf("%04d-W%02d", isoYear, isoWeek)},
		{Kind: models.NotificationLimitMonthly, Label: "monthly", Start: month, Key: month.Format("2006-01")},
	}
}

// EarliestStart returns the oldest period start for now, which bounds the
// expenses Compute needs to see.
func (e *Engine) EarliestStart(now time.Time) time.Time {
	p := e.Periods(now)
	if p[1].Start.Before(p[2].Start) {
		return p[1].Start
	}
	return p[2].Start
}

// ID builds the stable notification id for a wallet within a period.
func ID(kind models.NotificationType, walletID, key string) string {
	return fmt.Sprintf("%s:%s:%s", kind, walletID, key)
}

// FormatIDR renders an amount as "Rp 1.000.000".
func (e *Engine) FormatIDR(amount int64) string {
	return e.printer.Sprintf("Rp %d", amount)
}

// Compute returns one notification per wallet and period whose expenses
// exceed a configured limit. Ids in dismissed are left out. Transactions
// that are not expenses, or belong to wallets without limits, are ignored.
func (e *Engine) Compute(wallets []models.Wallet, txs []models.Transaction, now time.Time, dismissed map[string]struct{}) []models.Notification {
	periods := e.Periods(now)

	spent := make(map[string]*[3]int64, len(wallets))
	for i := range wallets {
		if wallets[i].HasLimits() {
			spent[wallets[i].ID] = &[3]int64{}
		}
	}
	if len(spent) == 0 {
		return []models.Notification{}
	}

	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		sums, ok := spent[tx.WalletID]
		if !ok {
			continue
		}
		for p := range periods {
			if !tx.Date.Before(periods[p].Start) {
				sums[p] += tx.Amount
			}
		}
	}

	out := []models.Notification{}
	for i := range wallets {
		w := &wallets[i]
		sums, ok := spent[w.ID]
		if !ok {
			continue
		}
		limits := [3]int64{w.DailyLimit, w.WeeklyLimit, w.MonthlyLimit}
		for p, period := range periods {
			if limits[p] <= 0 || sums[p] <= limits[p] {
				continue
			}
			id := ID(period.Kind, w.ID, period.Key)
			if _, skip := dismissed[id]; skip {
				continue
			}
			out = append(out, models.Notification{
				ID:       id,
				Type:     period.Kind,
				WalletID: w.ID,
				Message: fmt.Sprintf("%s has exceeded its %s limit of %s (spent %s)",
					w.Name, period.Label, e.FormatIDR(limits[p]), e.FormatIDR(sums[p])),
				Spent:     sums[p],
				Limit:     limits[p],
				Timestamp: now,
			})
		}
	}
	return out
}
