package tradelog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/2492dfd/stockLog-final/calc"
	"github.com/2492dfd/stockLog-final/models"
)

const dateLayout = "2006-01-02"

// Date accepts "2006-01-02" or RFC 3339 and keeps only the calendar day.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return err
		}
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// Request is the body of a write or update. Every field is optional; a
// missing field means "keep what is there" on update.
type Request struct {
	Market           *string             `json:"market"`
	Broker           *string             `json:"broker"`
	Direction        *string             `json:"direction"`
	StockName        *string             `json:"stock_name"`
	Ticker           *string             `json:"ticker"`
	ExecutionPrice   decimal.NullDecimal `json:"execution_price"`
	ExecutedQuantity decimal.NullDecimal `json:"executed_quantity"`
	PurchasePrice    decimal.NullDecimal `json:"purchase_price"`
	TradeDate        *Date               `json:"trade_date"`
	BuyDate          *Date               `json:"buy_date"`
	SellDate         *Date               `json:"sell_date"`
	HoldingPeriod    *int                `json:"holding_period"`
	ReasonForBuy     *string             `json:"reason_for_buy"`
	ReasonForSale    *string             `json:"reason_for_sale"`
	Tags             []string            `json:"tags"`
	ChartImageURL    *string             `json:"chart_image_url"`
}

// Patch is a Request with its enumerations resolved.
type Patch struct {
	Market           *models.Market
	Broker           *models.Broker
	Direction        *models.Direction
	StockName        *string
	Ticker           *string
	ExecutionPrice   decimal.NullDecimal
	ExecutedQuantity decimal.NullDecimal
	PurchasePrice    decimal.NullDecimal
	TradeDate        *time.Time
	BuyDate          *time.Time
	SellDate         *time.Time
	HoldingPeriod    *int
	ReasonForBuy     *string
	ReasonForSale    *string
	Tags             models.Tags
	ChartImageURL    *string
}

// Patch resolves codes and labels. Unknown brokers become ETC; an unknown
// direction, market or tag is a validation error.
func (r Request) Patch() (Patch, error) {
	p := Patch{
		StockName:        trimmed(r.StockName),
		Ticker:           trimmed(r.Ticker),
		ExecutionPrice:   r.ExecutionPrice,
		ExecutedQuantity: r.ExecutedQuantity,
		PurchasePrice:    r.PurchasePrice,
		TradeDate:        dateOf(r.TradeDate),
		BuyDate:          dateOf(r.BuyDate),
		SellDate:         dateOf(r.SellDate),
		HoldingPeriod:    r.HoldingPeriod,
		ReasonForBuy:     r.ReasonForBuy,
		ReasonForSale:    r.ReasonForSale,
		ChartImageURL:    r.ChartImageURL,
	}

	if r.Market != nil {
		m, err := models.ParseMarket(*r.Market)
		if err != nil {
			return Patch{}, &calc.ValidationError{Field: "market", Reason: "invalid_market"}
		}
		p.Market = &m
	}
	if r.Broker != nil {
		b := models.ParseBroker(*r.Broker)
		p.Broker = &b
	}
	if r.Direction != nil {
		d, err := models.ParseDirectionCode(*r.Direction)
		if err != nil {
			return Patch{}, &calc.ValidationError{Field: "direction", Reason: "invalid_direction"}
		}
		p.Direction = &d
	}
	if r.Tags != nil {
		p.Tags = make(models.Tags, 0, len(r.Tags))
		for _, s := range r.Tags {
			tag, err := models.ParseTag(s)
			if err != nil {
				return Patch{}, &calc.ValidationError{Field: "tags", Reason: "invalid_tag"}
			}
			p.Tags = append(p.Tags, tag)
		}
	}
	return p, nil
}

// ApplyPatch returns old with every present patch field replacing its
// counterpart. Derived money fields are left alone; callers recompute them.
func ApplyPatch(old models.TradeLog, p Patch) models.TradeLog {
	merged := old
	if p.Market != nil {
		merged.Market = *p.Market
	}
	if p.Broker != nil {
		merged.Broker = *p.Broker
	}
	if p.Direction != nil {
		merged.Direction = *p.Direction
	}
	if p.StockName != nil {
		merged.StockName = *p.StockName
	}
	if p.Ticker != nil {
		merged.Ticker = *p.Ticker
	}
	if p.ExecutionPrice.Valid {
		merged.ExecutionPrice = p.ExecutionPrice.Decimal
	}
	if p.ExecutedQuantity.Valid {
		merged.ExecutedQuantity = p.ExecutedQuantity.Decimal
	}
	if p.PurchasePrice.Valid {
		merged.PurchasePrice = p.PurchasePrice
	}
	if p.TradeDate != nil {
		merged.TradeDate = *p.TradeDate
	}
	if p.BuyDate != nil {
		merged.BuyDate = p.BuyDate
	}
	if p.SellDate != nil {
		merged.SellDate = p.SellDate
	}
	if p.HoldingPeriod != nil {
		merged.HoldingPeriod = *p.HoldingPeriod
	}
	if p.ReasonForBuy != nil {
		merged.ReasonForBuy = *p.ReasonForBuy
	}
	if p.ReasonForSale != nil {
		merged.ReasonForSale = *p.ReasonForSale
	}
	if p.Tags != nil {
		merged.Tags = append(models.Tags(nil), p.Tags...)
	}
	if p.ChartImageURL != nil {
		merged.ChartImageURL = *p.ChartImageURL
	}
	return merged
}

// inputOf extracts the calculator input from a record. Stored quantity and
// price are always present; zero still fails validation.
func inputOf(log models.TradeLog) calc.Input {
	return calc.Input{
		Direction:        log.Direction,
		Market:           log.Market,
		Broker:           log.Broker,
		StockName:        log.StockName,
		ExecutionPrice:   decimal.NewNullDecimal(log.ExecutionPrice),
		ExecutedQuantity: decimal.NewNullDecimal(log.ExecutedQuantity),
		PurchasePrice:    log.PurchasePrice,
	}
}

func applyResult(log *models.TradeLog, res calc.Result) {
	log.BaseAmount = res.BaseAmount
	log.Fee = res.Fee
	log.Tax = res.Tax
	log.TotalCost = res.TotalCost
	log.RealizedPL = res.RealizedPL
	log.RateOfReturn = res.RateOfReturn
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func dateOf(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
