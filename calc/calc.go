// Package calc turns the inputs of a single trade into its derived money
// fields. Manual writes, updates and the CSV importer all go through here.
package calc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/2492dfd/stockLog-final/metrics"
	"github.com/2492dfd/stockLog-final/models"
)

// ErrInvalidInput is matched by every validation failure.
var ErrInvalidInput = errors.New("invalid trade input")

// ValidationError names the offending field. Reason is an i18n message id.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

var hundred = decimal.NewFromInt(100)

// Input is what a caller knows about a trade before calculation.
type Input struct {
	Direction        models.Direction
	Market           models.Market
	Broker           models.Broker
	StockName        string
	ExecutionPrice   decimal.NullDecimal
	ExecutedQuantity decimal.NullDecimal
	PurchasePrice    decimal.NullDecimal
}

type Result struct {
	BaseAmount   decimal.Decimal
	Fee          decimal.Decimal
	Tax          decimal.Decimal
	TotalCost    decimal.Decimal
	RealizedPL   decimal.NullDecimal
	RateOfReturn decimal.NullDecimal
}

// TaxPolicy computes the tax owed on a trade with the given base amount.
type TaxPolicy interface {
	Tax(in Input, baseAmount decimal.Decimal) decimal.Decimal
}

// TaxFunc adapts a plain function to TaxPolicy.
type TaxFunc func(in Input, baseAmount decimal.Decimal) decimal.Decimal

func (f TaxFunc) Tax(in Input, baseAmount decimal.Decimal) decimal.Decimal {
	return f(in, baseAmount)
}

// ZeroTax charges nothing on either side.
var ZeroTax TaxPolicy = TaxFunc(func(Input, decimal.Decimal) decimal.Decimal { return decimal.Zero })

type Calculator struct {
	Tax TaxPolicy
}

type Option func(*Calculator)

func WithTaxPolicy(p TaxPolicy) Option {
	return func(c *Calculator) { c.Tax = p }
}

func New(opts ...Option) *Calculator {
	c := &Calculator{Tax: ZeroTax}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate rejects inputs that cannot produce a record.
func Validate(in Input) error {
	if !in.ExecutedQuantity.Valid || !in.ExecutedQuantity.Decimal.IsPositive() {
		return &ValidationError{Field: "executed_quantity", Reason: "invalid_quantity"}
	}
	if !in.ExecutionPrice.Valid || !in.ExecutionPrice.Decimal.IsPositive() {
		return &ValidationError{Field: "execution_price", Reason: "invalid_price"}
	}
	if strings.TrimSpace(in.StockName) == "" {
		return &ValidationError{Field: "stock_name", Reason: "missing_stock_name"}
	}
	return nil
}

// Calculate validates in and computes every derived field. Each value is
// rounded to 2 decimals as soon as it is computed.
func (c *Calculator) Calculate(in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}

	price := in.ExecutionPrice.Decimal
	qty := in.ExecutedQuantity.Decimal

	var res Result
	res.BaseAmount = BaseAmount(price, qty)
	res.Fee = Round2(res.BaseAmount.Mul(in.Broker.Rate(in.Market)))

	tax := ZeroTax
	if c.Tax != nil {
		tax = c.Tax
	}
	res.Tax = Round2(tax.Tax(in, res.BaseAmount))
	if res.Tax.IsNegative() {
		res.Tax = decimal.Zero
	}

	res.TotalCost = TotalCost(in.Direction, res.BaseAmount, res.Fee, res.Tax)
	res.RealizedPL, res.RateOfReturn = Profit(in.Direction, price, qty, in.PurchasePrice)

	metrics.RecordCalculation(string(in.Direction))
	return res, nil
}

// Profit returns realized P/L and rate of return (percent). Both are absent
// unless the trade is a SELL with a positive purchase price.
func Profit(direction models.Direction, executionPrice, quantity decimal.Decimal, purchasePrice decimal.NullDecimal) (realizedPL, rateOfReturn decimal.NullDecimal) {
	if direction != models.Sell || !purchasePrice.Valid || !purchasePrice.Decimal.IsPositive() {
		return decimal.NullDecimal{}, decimal.NullDecimal{}
	}
	diff := executionPrice.Sub(purchasePrice.Decimal)
	realizedPL = decimal.NewNullDecimal(Round2(diff.Mul(quantity)))
	rateOfReturn = decimal.NewNullDecimal(Round2(diff.Div(purchasePrice.Decimal).Mul(hundred)))
	return realizedPL, rateOfReturn
}

// BaseAmount is price × quantity rounded to 2 decimals.
func BaseAmount(price, quantity decimal.Decimal) decimal.Decimal {
	return Round2(price.Mul(quantity))
}

// TotalCost adds fee and tax on a BUY and takes them off on a SELL.
func TotalCost(direction models.Direction, baseAmount, fee, tax decimal.Decimal) decimal.Decimal {
	if direction == models.Sell {
		return baseAmount.Sub(fee).Sub(tax)
	}
	return baseAmount.Add(fee).Add(tax)
}

// Round2 rounds half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
