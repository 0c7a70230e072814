package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/models"
)

var defaultStocks = []models.StockMaster{
	{Ticker: "005930.KS", StockName: "삼성전자", MarketType: "KOSPI"},
	{Ticker: "000660.KS", StockName: "SK하이닉스", MarketType: "KOSPI"},
	{Ticker: "035420.KS", StockName: "NAVER", MarketType: "KOSPI"},
	{Ticker: "035720.KS", StockName: "카카오", MarketType: "KOSPI"},
	{Ticker: "005380.KS", StockName: "현대차", MarketType: "KOSPI"},
	{Ticker: "068270.KS", StockName: "셀트리온", MarketType: "KOSPI"},
	{Ticker: "105560.KS", StockName: "KB금융", MarketType: "KOSPI"},
	{Ticker: "055550.KS", StockName: "신한지주", MarketType: "KOSPI"},
}

// SeedStockMaster fills stock_masters with the default tickers when it is empty.
func SeedStockMaster(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.StockMaster{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count stock masters: %w", err)
	}
	if count > 0 {
		return nil
	}

	stocks := make([]models.StockMaster, len(defaultStocks))
	copy(stocks, defaultStocks)
	if err := db.WithContext(ctx).Create(&stocks).Error; err != nil {
		return fmt.Errorf("failed to seed stock masters: %w", err)
	}
	logger.Info(ctx, "Seeded stock master", "count", len(stocks))
	return nil
}
