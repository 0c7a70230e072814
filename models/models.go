package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// TradeLog is one journal entry: a single buy or sell execution owned by a user.
type TradeLog struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"index:idx_trade_logs_user_date;size:36;not null" json:"user_id"`

	Market    Market    `gorm:"size:10" json:"market"`
	Broker    Broker    `gorm:"size:30" json:"broker"`
	Direction Direction `gorm:"size:10" json:"direction"`

	StockName string `gorm:"size:100;not null;index" json:"stock_name"`
	Ticker    string `gorm:"size:20" json:"ticker"`

	ExecutionPrice   decimal.Decimal     `gorm:"type:numeric(20,4)" json:"execution_price"`
	ExecutedQuantity decimal.Decimal     `gorm:"type:numeric(20,4)" json:"executed_quantity"`
	PurchasePrice    decimal.NullDecimal `gorm:"type:numeric(20,4)" json:"purchase_price"`
	BaseAmount       decimal.Decimal     `gorm:"type:numeric(20,2)" json:"base_amount"`
	Fee              decimal.Decimal     `gorm:"type:numeric(20,2)" json:"fee"`
	Tax              decimal.Decimal     `gorm:"type:numeric(20,2)" json:"tax"`
	TotalCost        decimal.Decimal     `gorm:"type:numeric(20,2)" json:"total_cost"`
	RealizedPL       decimal.NullDecimal `gorm:"column:realized_pl;type:numeric(20,2)" json:"realized_pl"`
	RateOfReturn     decimal.NullDecimal `gorm:"type:numeric(20,2)" json:"rate_of_return"`

	TradeDate     time.Time  `gorm:"type:date;index:idx_trade_logs_user_date" json:"trade_date"`
	BuyDate       *time.Time `json:"buy_date,omitempty"`
	SellDate      *time.Time `json:"sell_date,omitempty"`
	HoldingPeriod int        `json:"holding_period"`

	ReasonForBuy  string `gorm:"type:text" json:"reason_for_buy"`
	ReasonForSale string `gorm:"type:text" json:"reason_for_sale"`
	Tags          Tags   `gorm:"type:text" json:"tags"`
	ChartImageURL string `gorm:"size:500" json:"chart_image_url"`

	EvaluationStatus AnalysisStatus `gorm:"size:20" json:"evaluation_status"`
	AIFeedback       string         `gorm:"type:text" json:"ai_feedback"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AiAnalysis keeps the latest AI feedback for a trade log.
type AiAnalysis struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TradeLogID string    `gorm:"uniqueIndex;size:36" json:"trade_log_id"`
	Content    string    `gorm:"type:text" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StockMaster is the ticker reference table used for search and name correction.
type StockMaster struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Ticker     string `gorm:"uniqueIndex;size:20;not null" json:"ticker"`
	StockName  string `gorm:"size:100;not null" json:"stock_name"`
	MarketType string `gorm:"size:20" json:"market_type"`
}

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Nickname  string    `gorm:"size:50" json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

// SimpleTradeLog is the list projection used by the monthly/yearly simple views.
type SimpleTradeLog struct {
	ID           string              `json:"log_id"`
	StockName    string              `json:"stock_name"`
	RealizedPL   decimal.NullDecimal `json:"realized_pl"`
	RateOfReturn decimal.NullDecimal `json:"rate_of_return"`
}

// TradeSummary is the aggregate over a date range.
type TradeSummary struct {
	TotalRealizedPL     decimal.NullDecimal `json:"total_realized_pl"`
	AverageRateOfReturn decimal.NullDecimal `json:"average_rate_of_return"`
	TradeCount          int                 `json:"trade_count"`
}

// MonthlyPL is one bar of the yearly realized P/L chart.
type MonthlyPL struct {
	Month      int             `json:"month"`
	RealizedPL decimal.Decimal `json:"realized_pl"`
}
