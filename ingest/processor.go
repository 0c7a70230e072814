package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/2492dfd/stockLog-final/calc"
	"github.com/2492dfd/stockLog-final/config"
	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/metrics"
	"github.com/2492dfd/stockLog-final/models"
	"github.com/2492dfd/stockLog-final/trace"
)

const (
	DefaultBatchSize   = 500
	DefaultFileWorkers = 4

	maxLineSize = 1 << 20
	utf8BOM     = "\ufeff"
)

// Report describes the outcome of one import.
type Report struct {
	Imported     int   `json:"imported"`
	Skipped      int   `json:"skipped"`
	SkippedLines []int `json:"skipped_lines,omitempty"`
}

// DirectoryReport sums the reports of every file in a directory import.
type DirectoryReport struct {
	Files    int `json:"files"`
	Failed   int `json:"failed"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Processor struct {
	db          *gorm.DB
	batchSize   int
	fileWorkers int
}

func NewProcessor(db *gorm.DB, cfg config.IngestConfig) *Processor {
	p := &Processor{
		db:          db,
		batchSize:   cfg.BatchSize,
		fileWorkers: cfg.FileWorkers,
	}
	if p.batchSize <= 0 {
		p.batchSize = DefaultBatchSize
	}
	if p.fileWorkers <= 0 {
		p.fileWorkers = DefaultFileWorkers
	}
	return p
}

// ProcessDirectory imports every *.csv file in dataDir for userID. Files run
// concurrently, bounded by the configured number of file workers, and each
// file is its own transaction: a failing file does not stop the others.
func (p *Processor) ProcessDirectory(ctx context.Context, dataDir, userID string) (DirectoryReport, error) {
	startTime := time.Now()

	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv"))
	if err != nil {
		return DirectoryReport{}, fmt.Errorf("failed to find CSV files: %w", err)
	}
	if len(files) == 0 {
		return DirectoryReport{}, fmt.Errorf("no CSV files found in directory: %s", dataDir)
	}

	logger.Info(ctx, "Found CSV files to process", "count", len(files), "file_workers", p.fileWorkers)

	semaphore := make(chan struct{}, p.fileWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var processed, failed, imported, skipped int

	for _, file := range files {
		wg.Add(1)
		go func(filename string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			report, err := p.ProcessFile(ctx, filename, userID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.ErrorWithErr(ctx, "Error processing file", err, "file", filename)
				failed++
				return
			}
			processed++
			imported += report.Imported
			skipped += report.Skipped
			logger.Info(ctx, "Successfully processed file",
				"file", filename,
				"imported", report.Imported,
				"skipped", report.Skipped,
				"took", time.Since(fileStart).String())
		}(file)
	}
	wg.Wait()

	if failed > 0 {
		logger.Warn(ctx, "Some files had processing errors", "failed", failed)
	}
	logger.Info(ctx, "Directory import completed",
		"duration", time.Since(startTime).String(),
		"files", processed,
		"rows", imported)

	return DirectoryReport{Files: len(files), Failed: failed, Imported: imported, Skipped: skipped}, nil
}

func (p *Processor) ProcessFile(ctx context.Context, filename, userID string) (Report, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.ProcessReader(ctx, file, userID)
}

// ProcessReader imports one CSV stream. The first non-empty line is the
// header. Cells are split on every comma: quoted fields are not supported,
// so a comma inside a memo shifts the remaining columns.
//
// Rows missing a required value are skipped and reported; the remaining rows
// are written in a single transaction, so either all of them land or none.
func (p *Processor) ProcessReader(ctx context.Context, r io.Reader, userID string) (Report, error) {
	ctx, span := trace.StartSpan(ctx, "ingest.ProcessReader")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	if err := p.ensureUser(ctx, userID); err != nil {
		return Report{}, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		report  Report
		cols    ColumnMap
		logs    []models.TradeLog
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := strings.Split(line, ",")
		if cols == nil {
			cols = MapColumns(cells)
			logger.Debug(ctx, "Mapped CSV header", "columns", fmt.Sprint(cols))
			continue
		}

		log, err := p.parseRow(cols, cells, userID)
		if err != nil {
			logger.Warn(ctx, "Skipping CSV row", "line", lineNum, "reason", err.Error())
			metrics.RecordSkippedRow()
			report.Skipped++
			report.SkippedLines = append(report.SkippedLines, lineNum)
			continue
		}
		logs = append(logs, log)
	}
	if err := scanner.Err(); err != nil {
		return Report{}, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(logs) == 0 {
		return report, nil
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&logs, p.batchSize).Error
	})
	metrics.RecordImportBatch(err)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist import batch", err, "rows", len(logs))
		return Report{}, fmt.Errorf("failed to persist %d trade logs: %w", len(logs), err)
	}

	report.Imported = len(logs)
	metrics.RecordImportedRows(len(logs))
	span.SetAttributes(
		attribute.Int("imported", report.Imported),
		attribute.Int("skipped", report.Skipped),
	)
	logger.Info(ctx, "CSV import committed", "user_id", userID, "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}

func (p *Processor) ensureUser(ctx context.Context, userID string) error {
	var user models.User
	err := p.db.WithContext(ctx).Select("id").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	return nil
}

// parseRow builds a trade log from one data row. Imported rows carry no
// broker or market, so fee and tax stay zero and total cost equals the base
// amount.
func (p *Processor) parseRow(cols ColumnMap, row []string, userID string) (models.TradeLog, error) {
	value := func(f Field) string {
		v, _ := cols.Value(row, f)
		return strings.TrimSpace(v)
	}

	in := calc.Input{
		Direction:        ParseDirection(value(FieldTradeType)),
		Market:           models.Domestic,
		Broker:           models.OtherBroker,
		StockName:        value(FieldStockName),
		ExecutionPrice:   ParseNumeric(value(FieldExecutionPrice)),
		ExecutedQuantity: ParseNumeric(value(FieldExecutedQuantity)),
	}
	if _, ok := cols[FieldPurchasePrice]; ok {
		in.PurchasePrice = ParseNumeric(value(FieldPurchasePrice))
	}

	if err := calc.Validate(in); err != nil {
		return models.TradeLog{}, err
	}
	tradeDate, ok := ParseDate(value(FieldTradeDate))
	if !ok {
		return models.TradeLog{}, fmt.Errorf("invalid date format: %q", value(FieldTradeDate))
	}

	price := in.ExecutionPrice.Decimal
	qty := in.ExecutedQuantity.Decimal
	base := calc.BaseAmount(price, qty)
	realizedPL, rateOfReturn := calc.Profit(in.Direction, price, qty, in.PurchasePrice)

	return models.TradeLog{
		ID:               uuid.NewString(),
		UserID:           userID,
		Market:           in.Market,
		Broker:           in.Broker,
		Direction:        in.Direction,
		StockName:        in.StockName,
		ExecutionPrice:   price,
		ExecutedQuantity: qty,
		PurchasePrice:    in.PurchasePrice,
		BaseAmount:       base,
		Fee:              decimal.Zero,
		Tax:              decimal.Zero,
		TotalCost:        base,
		RealizedPL:       realizedPL,
		RateOfReturn:     rateOfReturn,
		TradeDate:        tradeDate,
		ReasonForBuy:     value(FieldMemo),
		Tags:             models.Tags{},
		EvaluationStatus: models.StatusPending,
	}, nil
}
