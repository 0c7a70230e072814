package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/2492dfd/stockLog-final/calc"
	"github.com/2492dfd/stockLog-final/database/dbtest"
	"github.com/2492dfd/stockLog-final/models"
)

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }

func day(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

func TestSumPresent(t *testing.T) {
	if got := SumPresent(nil); got.Valid {
		t.Errorf("Expected absent sum for no values, got %v", got)
	}
	if got := SumPresent([]decimal.NullDecimal{{}, {}}); got.Valid {
		t.Errorf("Expected absent sum for all-absent values, got %v", got)
	}
	got := SumPresent([]decimal.NullDecimal{nd("5"), {}, nd("-3")})
	if !got.Valid || !got.Decimal.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected 2, got %v", got)
	}
}

func TestSumWithZeroFill(t *testing.T) {
	if got := SumWithZeroFill([]decimal.NullDecimal{{}, {}}); !got.IsZero() {
		t.Errorf("Expected 0, got %s", got)
	}
	if got := SumWithZeroFill([]decimal.NullDecimal{nd("1.5"), {}, nd("2.25")}); !got.Equal(decimal.RequireFromString("3.75")) {
		t.Errorf("Expected 3.75, got %s", got)
	}
}

func TestAveragePresent(t *testing.T) {
	tests := []struct {
		name string
		vals []decimal.NullDecimal
		want string
	}{
		{"absent values are skipped", []decimal.NullDecimal{nd("5"), {}, nd("-3")}, "1"},
		{"rounded", []decimal.NullDecimal{nd("1"), nd("1"), nd("2")}, "1.33"},
		{"single", []decimal.NullDecimal{nd("11.73")}, "11.73"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AveragePresent(tt.vals)
			if !got.Valid || !got.Decimal.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Expected %s, got %v", tt.want, got)
			}
		})
	}
	if got := AveragePresent([]decimal.NullDecimal{{}}); got.Valid {
		t.Errorf("Expected absent average, got %v", got)
	}
}

func insert(t *testing.T, db *gorm.DB, userID string, direction models.Direction, name string, date time.Time, pl, rate decimal.NullDecimal) string {
	t.Helper()
	log := models.TradeLog{
		ID:               uuid.NewString(),
		UserID:           userID,
		Market:           models.Domestic,
		Broker:           models.OtherBroker,
		Direction:        direction,
		StockName:        name,
		ExecutionPrice:   decimal.NewFromInt(100),
		ExecutedQuantity: decimal.NewFromInt(1),
		BaseAmount:       decimal.NewFromInt(100),
		TotalCost:        decimal.NewFromInt(100),
		RealizedPL:       pl,
		RateOfReturn:     rate,
		TradeDate:        date,
		Tags:             models.Tags{},
		EvaluationStatus: models.StatusPending,
	}
	if err := db.Create(&log).Error; err != nil {
		t.Fatalf("failed to insert trade log: %v", err)
	}
	return log.ID
}

func seed(t *testing.T) (*Aggregator, string) {
	db := dbtest.Open(t)
	user := dbtest.CreateUser(t, db, "user-1")
	other := dbtest.CreateUser(t, db, "user-2")

	insert(t, db, user, models.Buy, "삼성전자", day(2024, 3, 5), decimal.NullDecimal{}, decimal.NullDecimal{})
	insert(t, db, user, models.Sell, "삼성전자", day(2024, 3, 5), nd("5000"), nd("5"))
	insert(t, db, user, models.Sell, "카카오", day(2024, 3, 20), decimal.NullDecimal{}, decimal.NullDecimal{})
	insert(t, db, user, models.Sell, "NAVER", day(2024, 3, 31), nd("-3000"), nd("-3"))
	insert(t, db, user, models.Sell, "삼성전자", day(2024, 7, 1), nd("1000"), nd("2"))
	insert(t, db, user, models.Buy, "LG화학", day(2024, 12, 31), decimal.NullDecimal{}, decimal.NullDecimal{})
	insert(t, db, user, models.Sell, "LG화학", day(2023, 12, 31), nd("999"), nd("9"))
	insert(t, db, other, models.Sell, "삼성전자", day(2024, 3, 5), nd("777"), nd("7"))

	return New(db), user
}

func TestMonthlySummary(t *testing.T) {
	agg, user := seed(t)
	ctx := context.Background()

	sum, err := agg.MonthlySummary(ctx, user, 2024, 3)
	if err != nil {
		t.Fatalf("MonthlySummary failed: %v", err)
	}
	if sum.TradeCount != 4 {
		t.Errorf("Expected 4 trades, got %d", sum.TradeCount)
	}
	if !sum.TotalRealizedPL.Valid || !sum.TotalRealizedPL.Decimal.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected total 2000, got %v", sum.TotalRealizedPL)
	}
	if !sum.AverageRateOfReturn.Valid || !sum.AverageRateOfReturn.Decimal.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected average 1, got %v", sum.AverageRateOfReturn)
	}
}

func TestSummaryWithoutProfitIsAbsent(t *testing.T) {
	agg, user := seed(t)

	sum, err := agg.Summary(context.Background(), user, day(2024, 12, 1), day(2024, 12, 31))
	if err != nil {
		t.Fatal(err)
	}
	if sum.TradeCount != 1 {
		t.Errorf("Expected 1 trade, got %d", sum.TradeCount)
	}
	if sum.TotalRealizedPL.Valid || sum.AverageRateOfReturn.Valid {
		t.Errorf("Expected absent total and average, got %v / %v", sum.TotalRealizedPL, sum.AverageRateOfReturn)
	}

	empty, err := agg.Summary(context.Background(), user, day(2020, 1, 1), day(2020, 12, 31))
	if err != nil {
		t.Fatal(err)
	}
	if empty.TradeCount != 0 || empty.TotalRealizedPL.Valid {
		t.Errorf("Expected empty summary, got %+v", empty)
	}
}

func TestYearlySummaryBoundaries(t *testing.T) {
	agg, user := seed(t)

	sum, err := agg.YearlySummary(context.Background(), user, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if sum.TradeCount != 6 {
		t.Errorf("Expected 6 trades in 2024, got %d", sum.TradeCount)
	}
	if !sum.TotalRealizedPL.Decimal.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected 3000, got %v", sum.TotalRealizedPL)
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	agg, user := seed(t)

	months, err := agg.MonthlyBreakdown(context.Background(), user, 2024)
	if err != nil {
		t.Fatalf("MonthlyBreakdown failed: %v", err)
	}
	if len(months) != 12 {
		t.Fatalf("Expected 12 months, got %d", len(months))
	}
	for i, m := range months {
		if m.Month != i+1 {
			t.Errorf("Entry %d has month %d", i, m.Month)
		}
	}
	if !months[2].RealizedPL.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("March: expected 2000, got %s", months[2].RealizedPL)
	}
	if !months[6].RealizedPL.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("July: expected 1000, got %s", months[6].RealizedPL)
	}
	if !months[11].RealizedPL.IsZero() {
		t.Errorf("December has only a BUY, expected 0, got %s", months[11].RealizedPL)
	}
}

func TestSimpleListsSellsOnly(t *testing.T) {
	agg, user := seed(t)

	logs, err := agg.MonthlySimple(context.Background(), user, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Fatalf("Expected 3 sells, got %d", len(logs))
	}
	if logs[0].StockName != "삼성전자" || logs[2].StockName != "NAVER" {
		t.Errorf("Unexpected order: %+v", logs)
	}
	if logs[1].RealizedPL.Valid {
		t.Errorf("Expected absent P/L for 카카오, got %v", logs[1].RealizedPL)
	}

	detail, err := agg.MonthlyDetail(context.Background(), user, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail) != 4 {
		t.Errorf("Expected 4 records in detail view, got %d", len(detail))
	}
}

func TestInvalidMonth(t *testing.T) {
	agg, user := seed(t)
	for _, month := range []int{0, 13} {
		_, err := agg.MonthlySummary(context.Background(), user, 2024, month)
		if !errors.Is(err, calc.ErrInvalidInput) {
			t.Errorf("month %d: expected ErrInvalidInput, got %v", month, err)
		}
	}
}

func TestDailyAndCalendar(t *testing.T) {
	agg, user := seed(t)
	ctx := context.Background()

	daily, err := agg.Daily(ctx, user, day(2024, 3, 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(daily) != 2 {
		t.Errorf("Expected 2 trades on 2024-03-05, got %d", len(daily))
	}

	days, err := agg.DaysWithTrades(ctx, user, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{5, 20, 31}; len(days) != len(want) || days[0] != 5 || days[1] != 20 || days[2] != 31 {
		t.Errorf("Expected %v, got %v", want, days)
	}

	sides, err := agg.DirectionsByDay(ctx, user, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := sides["2024-03-05"]; len(got) != 2 || got[0] != models.Buy || got[1] != models.Sell {
		t.Errorf("Expected [BUY SELL] on 03-05, got %v", got)
	}
	if got := sides["2024-03-20"]; len(got) != 1 || got[0] != models.Sell {
		t.Errorf("Expected [SELL] on 03-20, got %v", got)
	}
	if len(sides) != 3 {
		t.Errorf("Expected 3 days, got %d", len(sides))
	}
}

func TestByStockAndJournalNewestFirst(t *testing.T) {
	agg, user := seed(t)
	ctx := context.Background()

	logs, err := agg.ByStock(ctx, user, "삼성전자")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(logs))
	}
	if !logs[0].TradeDate.Equal(day(2024, 7, 1)) {
		t.Errorf("Expected newest first, got %s", logs[0].TradeDate)
	}

	journal, err := agg.Journal(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if len(journal) != 7 {
		t.Fatalf("Expected 7 records, got %d", len(journal))
	}
	if !journal[0].TradeDate.Equal(day(2024, 12, 31)) || !journal[6].TradeDate.Equal(day(2023, 12, 31)) {
		t.Errorf("Unexpected journal order: first %s last %s", journal[0].TradeDate, journal[6].TradeDate)
	}
}
