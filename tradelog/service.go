// Package tradelog writes, updates and deletes trade logs for their owners.
package tradelog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/2492dfd/stockLog-final/calc"
	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/models"
	"github.com/2492dfd/stockLog-final/pricing"
	"github.com/2492dfd/stockLog-final/trace"
)

var (
	ErrNotFound  = models.ErrNotFound
	ErrForbidden = models.ErrForbidden
)

const searchLimit = 10

type Service struct {
	db     *gorm.DB
	calc   *calc.Calculator
	prices pricing.Source
}

// NewService wires the service. prices may be nil, in which case stock names
// are only corrected from the stock master.
func NewService(db *gorm.DB, calculator *calc.Calculator, prices pricing.Source) *Service {
	if calculator == nil {
		calculator = calc.New()
	}
	return &Service{db: db, calc: calculator, prices: prices}
}

// Write validates and stores a new trade log, returning its id.
func (s *Service) Write(ctx context.Context, userID string, req Request) (string, error) {
	ctx, span := trace.StartSpan(ctx, "tradelog.Write")
	defer span.End()

	if err := s.ensureUser(ctx, userID); err != nil {
		return "", err
	}

	patch, err := req.Patch()
	if err != nil {
		return "", err
	}
	log := ApplyPatch(models.TradeLog{
		Market:    models.Domestic,
		Broker:    models.OtherBroker,
		Direction: models.Buy,
		TradeDate: today(),
		Tags:      models.Tags{},
	}, patch)

	res, err := s.calc.Calculate(inputOf(log))
	if err != nil {
		return "", err
	}
	applyResult(&log, res)

	log.StockName = s.correctStockName(ctx, log.Ticker, log.StockName)
	log.ID = uuid.NewString()
	log.UserID = userID
	log.EvaluationStatus = models.StatusPending

	if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
		return "", fmt.Errorf("failed to save trade log: %w", err)
	}
	span.SetAttributes(attribute.String("trade_log_id", log.ID))
	logger.Info(ctx, "Trade log written", "id", log.ID, "user_id", userID, "direction", log.Direction)
	return log.ID, nil
}

// Update merges req into the stored record. Descriptive fields change only
// when present in req; fee, tax, total cost, P/L and return are always
// recomputed from the merged inputs, and the analysis status goes back to
// PENDING. The chart image URL is kept as written.
func (s *Service) Update(ctx context.Context, userID, id string, req Request) (models.TradeLog, error) {
	ctx, span := trace.StartSpan(ctx, "tradelog.Update")
	defer span.End()

	old, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.TradeLog{}, err
	}
	patch, err := req.Patch()
	if err != nil {
		return models.TradeLog{}, err
	}
	// the chart image is set on write only
	patch.ChartImageURL = nil

	merged := ApplyPatch(old, patch)
	res, err := s.calc.Calculate(inputOf(merged))
	if err != nil {
		return models.TradeLog{}, err
	}
	applyResult(&merged, res)
	merged.EvaluationStatus = models.StatusPending

	if err := s.db.WithContext(ctx).Save(&merged).Error; err != nil {
		return models.TradeLog{}, fmt.Errorf("failed to update trade log: %w", err)
	}
	logger.Info(ctx, "Trade log updated", "id", id, "user_id", userID)
	return merged, nil
}

// Delete removes a trade log together with its AI analysis.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	ctx, span := trace.StartSpan(ctx, "tradelog.Delete")
	defer span.End()

	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trade_log_id = ?", id).Delete(&models.AiAnalysis{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TradeLog{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete trade log: %w", err)
	}
	logger.Info(ctx, "Trade log deleted", "id", id, "user_id", userID)
	return nil
}

// Get loads a trade log owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (models.TradeLog, error) {
	var log models.TradeLog
	err := s.db.WithContext(ctx).First(&log, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TradeLog{}, fmt.Errorf("trade log %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.TradeLog{}, fmt.Errorf("failed to load trade log: %w", err)
	}
	if log.UserID != userID {
		return models.TradeLog{}, fmt.Errorf("trade log %s: %w", id, ErrForbidden)
	}
	return log, nil
}

// SearchStocks returns up to ten stock masters whose name contains keyword.
func (s *Service) SearchStocks(ctx context.Context, keyword string) ([]models.StockMaster, error) {
	stocks := []models.StockMaster{}
	err := s.db.WithContext(ctx).
		Where("stock_name LIKE ?", "%"+keyword+"%").
		Order("stock_name").
		Limit(searchLimit).
		Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search stocks: %w", err)
	}
	return stocks, nil
}

// Quote looks up the current price. ok is false when no source knows it.
func (s *Service) Quote(ctx context.Context, ticker string) (pricing.Quote, bool) {
	if s.prices == nil {
		return pricing.Quote{}, false
	}
	return s.prices.GetPrice(ctx, ticker)
}

// CreateUser registers an owner for trade logs. Creating an existing id
// keeps the stored nickname.
func (s *Service) CreateUser(ctx context.Context, id, nickname string) error {
	if strings.TrimSpace(id) == "" {
		return &calc.ValidationError{Field: "user_id", Reason: "invalid_request"}
	}
	user := models.User{ID: id, Nickname: nickname}
	if err := s.db.WithContext(ctx).FirstOrCreate(&user, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Service) ensureUser(ctx context.Context, userID string) error {
	var user models.User
	err := s.db.WithContext(ctx).Select("id").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	return nil
}

// correctStockName prefers the name the price source reports for ticker,
// then the stock master entry, then what the user typed.
func (s *Service) correctStockName(ctx context.Context, ticker, input string) string {
	if ticker == "" {
		return input
	}
	if q, ok := s.Quote(ctx, ticker); ok && q.Name != "" {
		return q.Name
	}
	var master models.StockMaster
	if err := s.db.WithContext(ctx).First(&master, "ticker = ?", ticker).Error; err == nil {
		return master.StockName
	}
	return input
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
