package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/2492dfd/stockLog-final/config"
	"github.com/2492dfd/stockLog-final/database/dbtest"
	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/models"
)

func newTestProcessor(t *testing.T) (*Processor, string) {
	db := dbtest.Open(t)
	user := dbtest.CreateUser(t, db, "user-1")
	return NewProcessor(db, config.IngestConfig{BatchSize: 2, FileWorkers: 2}), user
}

func TestProcessReaderKoreanHeader(t *testing.T) {
	p, user := newTestProcessor(t)

	csv := "종목,수량,단가,날짜,구분\n삼성전자,10,70000,2024-01-15,매수\n"
	report, err := p.ProcessReader(context.Background(), strings.NewReader(csv), user)
	if err != nil {
		t.Fatalf("ProcessReader failed: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 0 {
		t.Fatalf("Expected 1 imported and 0 skipped, got %+v", report)
	}

	var logs []models.TradeLog
	if err := p.db.Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 trade log, got %d", len(logs))
	}
	log := logs[0]
	if log.StockName != "삼성전자" {
		t.Errorf("Expected stock name 삼성전자, got %s", log.StockName)
	}
	if !log.ExecutedQuantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected quantity 10, got %s", log.ExecutedQuantity)
	}
	if !log.ExecutionPrice.Equal(decimal.NewFromInt(70000)) {
		t.Errorf("Expected price 70000, got %s", log.ExecutionPrice)
	}
	if !log.TradeDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected trade date %v", log.TradeDate)
	}
	if log.Direction != models.Buy {
		t.Errorf("Expected BUY, got %s", log.Direction)
	}
	if !log.TotalCost.Equal(decimal.NewFromInt(700000)) || !log.Fee.IsZero() {
		t.Errorf("Expected total cost 700000 with no fee, got %s / %s", log.TotalCost, log.Fee)
	}
	if log.RealizedPL.Valid || log.RateOfReturn.Valid {
		t.Error("Expected absent P/L on an imported buy")
	}
	if log.EvaluationStatus != models.StatusPending {
		t.Errorf("Expected PENDING, got %s", log.EvaluationStatus)
	}
}

func TestProcessReaderSkipsIncompleteRows(t *testing.T) {
	p, user := newTestProcessor(t)

	csv := strings.Join([]string{
		"\ufeffStock,Qty,Price,Date,Side,PurchasePrice,Note",
		"NAVER,5,200000,2024-03-02,SELL,180000,take profit",
		"카카오,,50000,2024-03-03,BUY,,",
		"",
		"SK하이닉스,3,150000,2024.03.04,매수,,",
		"셀트리온,2,180000,not-a-date,매도,,",
		"현대차,1,240000,2024-03-05,sell,,",
	}, "\n")

	report, err := p.ProcessReader(context.Background(), strings.NewReader(csv), user)
	if err != nil {
		t.Fatalf("ProcessReader failed: %v", err)
	}
	if report.Imported != 3 || report.Skipped != 2 {
		t.Fatalf("Expected 3 imported and 2 skipped, got %+v", report)
	}
	if len(report.SkippedLines) != 2 || report.SkippedLines[0] != 3 || report.SkippedLines[1] != 6 {
		t.Errorf("Unexpected skipped lines %v", report.SkippedLines)
	}

	var naver models.TradeLog
	if err := p.db.First(&naver, "stock_name = ?", "NAVER").Error; err != nil {
		t.Fatal(err)
	}
	if !naver.RealizedPL.Valid || !naver.RealizedPL.Decimal.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Expected realized P/L 100000, got %v", naver.RealizedPL)
	}
	if !naver.RateOfReturn.Valid || !naver.RateOfReturn.Decimal.Equal(decimal.RequireFromString("11.11")) {
		t.Errorf("Expected return 11.11, got %v", naver.RateOfReturn)
	}
	if naver.ReasonForBuy != "take profit" {
		t.Errorf("Expected memo in reason for buy, got %q", naver.ReasonForBuy)
	}

	// a sell without a purchase price keeps P/L absent
	var hyundai models.TradeLog
	if err := p.db.First(&hyundai, "stock_name = ?", "현대차").Error; err != nil {
		t.Fatal(err)
	}
	if hyundai.Direction != models.Sell || hyundai.RealizedPL.Valid {
		t.Errorf("Expected SELL with absent P/L, got %s / %v", hyundai.Direction, hyundai.RealizedPL)
	}
}

func TestProcessReaderUnknownUser(t *testing.T) {
	p, _ := newTestProcessor(t)

	_, err := p.ProcessReader(context.Background(), strings.NewReader("종목,수량\n"), "ghost")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProcessReaderHeaderOnly(t *testing.T) {
	p, user := newTestProcessor(t)

	report, err := p.ProcessReader(context.Background(), strings.NewReader("종목,수량,단가,날짜\n\n"), user)
	if err != nil {
		t.Fatalf("ProcessReader failed: %v", err)
	}
	if report.Imported != 0 || report.Skipped != 0 {
		t.Errorf("Expected empty report, got %+v", report)
	}
}

func TestProcessDirectory(t *testing.T) {
	p, user := newTestProcessor(t)

	dir := t.TempDir()
	files := map[string]string{
		"jan.csv":   "종목,수량,단가,날짜\n삼성전자,1,70000,2024-01-02\nNAVER,1,200000,2024-01-03\n",
		"feb.csv":   "종목,수량,단가,날짜\n카카오,2,50000,2024-02-02\n카카오,,50000,2024-02-03\n",
		"notes.txt": "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	report, err := p.ProcessDirectory(context.Background(), dir, user)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if report.Files != 2 || report.Failed != 0 || report.Imported != 3 || report.Skipped != 1 {
		t.Errorf("Unexpected directory report %+v", report)
	}

	if _, err := p.ProcessDirectory(context.Background(), t.TempDir(), user); err == nil {
		t.Error("Expected error for a directory without CSV files")
	}
}

func TestProcessDirectoryLogsPerRunTotals(t *testing.T) {
	p, user := newTestProcessor(t)

	first := t.TempDir()
	for name, content := range map[string]string{
		"jan.csv": "종목,수량,단가,날짜\n삼성전자,1,70000,2024-01-02\nNAVER,1,200000,2024-01-03\n",
		"feb.csv": "종목,수량,단가,날짜\n카카오,2,50000,2024-02-02\n",
	} {
		if err := os.WriteFile(filepath.Join(first, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	second := t.TempDir()
	if err := os.WriteFile(filepath.Join(second, "mar.csv"), []byte("종목,수량,단가,날짜\n카카오,1,52000,2024-03-04\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := p.ProcessDirectory(context.Background(), first, user); err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	if _, err := p.ProcessDirectory(context.Background(), second, user); err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	var completed string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "Directory import completed") {
			completed = line
		}
	}
	if !strings.Contains(completed, "files=1 rows=1") {
		t.Errorf("Expected totals for the second run only, got %q", completed)
	}
}

func TestProcessReaderRollsBackOnPersistFailure(t *testing.T) {
	p, user := newTestProcessor(t)

	boom := errors.New("boom")
	createCalls := 0
	err := p.db.Callback().Create().Before("gorm:create").Register("test:fail_second_batch", func(tx *gorm.DB) {
		if tx.Statement.Table != "trade_logs" {
			return
		}
		createCalls++
		if createCalls == 2 {
			tx.AddError(boom)
		}
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}

	csv := strings.Join([]string{
		"종목,수량,단가,날짜,구분",
		"삼성전자,10,70000,2024-01-15,매수",
		"카카오,5,50000,2024-01-16,매수",
		"NAVER,2,200000,2024-01-17,매도",
		"LG화학,1,400000,2024-01-18,매수",
	}, "\n")
	if _, err := p.ProcessReader(context.Background(), strings.NewReader(csv), user); !errors.Is(err, boom) {
		t.Fatalf("Expected persist error, got %v", err)
	}
	if createCalls != 2 {
		t.Errorf("Expected the second batch to fail, got %d create calls", createCalls)
	}

	var count int64
	if err := p.db.Model(&models.TradeLog{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected the first batch to be rolled back, found %d rows", count)
	}
}
