// Package aggregate builds the read side of the journal: summaries, the
// yearly P/L chart and the calendar listings.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/2492dfd/stockLog-final/calc"
	"github.com/2492dfd/stockLog-final/models"
	"github.com/2492dfd/stockLog-final/trace"
)

const dayLayout = "2006-01-02"

type Aggregator struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// MonthRange returns the first and last day of a month.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, &calc.ValidationError{Field: "month", Reason: "invalid_request"}
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1), nil
}

func YearRange(year int) (time.Time, time.Time) {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
}

// between loads the user's records with start <= trade date <= end.
func (a *Aggregator) between(ctx context.Context, userID string, start, end time.Time, sellsOnly bool) ([]models.TradeLog, error) {
	q := a.db.WithContext(ctx).
		Where("user_id = ? AND trade_date BETWEEN ? AND ?", userID, start, end)
	if sellsOnly {
		q = q.Where("direction = ?", models.Sell)
	}

	logs := []models.TradeLog{}
	if err := q.Order("trade_date, created_at").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load trade logs: %w", err)
	}
	return logs, nil
}

// Summary totals realized P/L and averages the rate of return over a range.
func (a *Aggregator) Summary(ctx context.Context, userID string, start, end time.Time) (models.TradeSummary, error) {
	ctx, span := trace.StartSpan(ctx, "aggregate.Summary")
	defer span.End()

	logs, err := a.between(ctx, userID, start, end, false)
	if err != nil {
		return models.TradeSummary{}, err
	}

	pl := make([]decimal.NullDecimal, len(logs))
	rates := make([]decimal.NullDecimal, len(logs))
	for i, log := range logs {
		pl[i] = log.RealizedPL
		rates[i] = log.RateOfReturn
	}
	return models.TradeSummary{
		TotalRealizedPL:     SumPresent(pl),
		AverageRateOfReturn: AveragePresent(rates),
		TradeCount:          len(logs),
	}, nil
}

func (a *Aggregator) MonthlySummary(ctx context.Context, userID string, year, month int) (models.TradeSummary, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return models.TradeSummary{}, err
	}
	return a.Summary(ctx, userID, start, end)
}

func (a *Aggregator) YearlySummary(ctx context.Context, userID string, year int) (models.TradeSummary, error) {
	start, end := YearRange(year)
	return a.Summary(ctx, userID, start, end)
}

// MonthlyBreakdown returns realized P/L per month for the twelve months of
// year. Sells without a P/L count as zero here.
func (a *Aggregator) MonthlyBreakdown(ctx context.Context, userID string, year int) ([]models.MonthlyPL, error) {
	start, end := YearRange(year)
	logs, err := a.between(ctx, userID, start, end, true)
	if err != nil {
		return nil, err
	}

	var byMonth [12][]decimal.NullDecimal
	for _, log := range logs {
		m := int(log.TradeDate.Month()) - 1
		byMonth[m] = append(byMonth[m], log.RealizedPL)
	}

	out := make([]models.MonthlyPL, 12)
	for i := range out {
		out[i] = models.MonthlyPL{Month: i + 1, RealizedPL: SumWithZeroFill(byMonth[i])}
	}
	return out, nil
}

// Simple lists the sells in a range as id, name, P/L and return.
func (a *Aggregator) Simple(ctx context.Context, userID string, start, end time.Time) ([]models.SimpleTradeLog, error) {
	logs, err := a.between(ctx, userID, start, end, true)
	if err != nil {
		return nil, err
	}
	out := make([]models.SimpleTradeLog, len(logs))
	for i, log := range logs {
		out[i] = models.SimpleTradeLog{
			ID:           log.ID,
			StockName:    log.StockName,
			RealizedPL:   log.RealizedPL,
			RateOfReturn: log.RateOfReturn,
		}
	}
	return out, nil
}

// Detail lists every record in a range.
func (a *Aggregator) Detail(ctx context.Context, userID string, start, end time.Time) ([]models.TradeLog, error) {
	return a.between(ctx, userID, start, end, false)
}

func (a *Aggregator) MonthlySimple(ctx context.Context, userID string, year, month int) ([]models.SimpleTradeLog, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	return a.Simple(ctx, userID, start, end)
}

func (a *Aggregator) MonthlyDetail(ctx context.Context, userID string, year, month int) ([]models.TradeLog, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	return a.Detail(ctx, userID, start, end)
}

func (a *Aggregator) YearlySimple(ctx context.Context, userID string, year int) ([]models.SimpleTradeLog, error) {
	start, end := YearRange(year)
	return a.Simple(ctx, userID, start, end)
}

func (a *Aggregator) YearlyDetail(ctx context.Context, userID string, year int) ([]models.TradeLog, error) {
	start, end := YearRange(year)
	return a.Detail(ctx, userID, start, end)
}

// Daily lists the records of one day.
func (a *Aggregator) Daily(ctx context.Context, userID string, date time.Time) ([]models.TradeLog, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return a.between(ctx, userID, day, day, false)
}

// ByStock lists the user's records for one stock, newest first.
func (a *Aggregator) ByStock(ctx context.Context, userID, stockName string) ([]models.TradeLog, error) {
	logs := []models.TradeLog{}
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND stock_name = ?", userID, stockName).
		Order("trade_date DESC, created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load trade logs: %w", err)
	}
	return logs, nil
}

// Journal lists all of the user's records, newest first.
func (a *Aggregator) Journal(ctx context.Context, userID string) ([]models.TradeLog, error) {
	logs := []models.TradeLog{}
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("trade_date DESC, created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load trade logs: %w", err)
	}
	return logs, nil
}

// DaysWithTrades returns the sorted days of month that have any record.
func (a *Aggregator) DaysWithTrades(ctx context.Context, userID string, year, month int) ([]int, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	logs, err := a.between(ctx, userID, start, end, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	days := []int{}
	for _, log := range logs {
		if d := log.TradeDate.Day(); !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days, nil
}

// DirectionsByDay maps each traded day ("2006-01-02") of a month to the
// sides traded that day, BUY before SELL.
func (a *Aggregator) DirectionsByDay(ctx context.Context, userID string, year, month int) (map[string][]models.Direction, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	logs, err := a.between(ctx, userID, start, end, false)
	if err != nil {
		return nil, err
	}

	sides := make(map[string]map[models.Direction]bool)
	for _, log := range logs {
		day := log.TradeDate.Format(dayLayout)
		if sides[day] == nil {
			sides[day] = make(map[models.Direction]bool)
		}
		sides[day][log.Direction] = true
	}

	out := make(map[string][]models.Direction, len(sides))
	for day, set := range sides {
		for _, d := range []models.Direction{models.Buy, models.Sell} {
			if set[d] {
				out[day] = append(out[day], d)
			}
		}
	}
	return out, nil
}
