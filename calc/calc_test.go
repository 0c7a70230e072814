package calc

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/2492dfd/stockLog-final/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func input(direction models.Direction, price, qty string) Input {
	return Input{
		Direction:        direction,
		Market:           models.Domestic,
		Broker:           models.Kiwoom,
		StockName:        "삼성전자",
		ExecutionPrice:   nd(price),
		ExecutedQuantity: nd(qty),
	}
}

func TestBuyHasNoProfit(t *testing.T) {
	c := New()
	in := input(models.Buy, "70000", "10")
	in.PurchasePrice = nd("60000")

	res, err := c.Calculate(in)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if res.RealizedPL.Valid || res.RateOfReturn.Valid {
		t.Errorf("Expected absent P/L and return for BUY, got %v / %v", res.RealizedPL, res.RateOfReturn)
	}
}

func TestSellWithoutPurchasePriceHasNoProfit(t *testing.T) {
	c := New()
	for _, purchase := range []decimal.NullDecimal{{}, nd("0"), nd("-5")} {
		in := input(models.Sell, "70000", "10")
		in.PurchasePrice = purchase

		res, err := c.Calculate(in)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}
		if res.RealizedPL.Valid || res.RateOfReturn.Valid {
			t.Errorf("purchase %v: expected absent P/L and return", purchase)
		}
	}
}

func TestSellProfit(t *testing.T) {
	tests := []struct {
		price, qty, purchase string
		wantPL, wantRate     string
	}{
		{"12000", "10", "10000", "20000", "20"},
		{"9000", "3", "10000", "-3000", "-10"},
		{"100.555", "3", "90", "31.67", "11.73"},
		{"10", "1", "3", "7", "233.33"},
	}
	c := New()
	for _, tt := range tests {
		in := input(models.Sell, tt.price, tt.qty)
		in.PurchasePrice = nd(tt.purchase)

		res, err := c.Calculate(in)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}
		if !res.RealizedPL.Valid || !res.RealizedPL.Decimal.Equal(d(tt.wantPL)) {
			t.Errorf("%s→%s x%s: expected P/L %s, got %v", tt.purchase, tt.price, tt.qty, tt.wantPL, res.RealizedPL)
		}
		if !res.RateOfReturn.Valid || !res.RateOfReturn.Decimal.Equal(d(tt.wantRate)) {
			t.Errorf("%s→%s: expected return %s, got %v", tt.purchase, tt.price, tt.wantRate, res.RateOfReturn)
		}
	}
}

func TestTotalCostIdentity(t *testing.T) {
	tax := TaxFunc(func(in Input, base decimal.Decimal) decimal.Decimal {
		return base.Mul(d("0.0018"))
	})
	c := New(WithTaxPolicy(tax))

	buy, err := c.Calculate(input(models.Buy, "70100", "13"))
	if err != nil {
		t.Fatal(err)
	}
	if want := buy.BaseAmount.Add(buy.Fee).Add(buy.Tax); !buy.TotalCost.Equal(want) {
		t.Errorf("BUY total cost %s, want %s", buy.TotalCost, want)
	}

	sell, err := c.Calculate(input(models.Sell, "70100", "13"))
	if err != nil {
		t.Fatal(err)
	}
	if want := sell.BaseAmount.Sub(sell.Fee).Sub(sell.Tax); !sell.TotalCost.Equal(want) {
		t.Errorf("SELL total cost %s, want %s", sell.TotalCost, want)
	}
	if !sell.Tax.Equal(d("1640.34")) {
		t.Errorf("Expected tax 1640.34, got %s", sell.Tax)
	}
}

func TestDefaultTaxIsZero(t *testing.T) {
	res, err := New().Calculate(input(models.Sell, "70000", "10"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Tax.IsZero() {
		t.Errorf("Expected zero tax, got %s", res.Tax)
	}
}

func TestNegativeTaxIsClamped(t *testing.T) {
	c := New(WithTaxPolicy(TaxFunc(func(Input, decimal.Decimal) decimal.Decimal { return d("-10") })))
	res, err := c.Calculate(input(models.Buy, "100", "1"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Tax.IsZero() {
		t.Errorf("Expected clamped tax 0, got %s", res.Tax)
	}
}

func TestFeeFollowsBrokerAndMarket(t *testing.T) {
	c := New()

	in := input(models.Buy, "50000", "20") // base 1,000,000
	res, err := c.Calculate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fee.Equal(d("150")) {
		t.Errorf("Kiwoom domestic fee: expected 150, got %s", res.Fee)
	}

	in.Market = models.Foreign
	res, _ = c.Calculate(in)
	if !res.Fee.Equal(d("1000")) {
		t.Errorf("Kiwoom foreign fee: expected 1000, got %s", res.Fee)
	}

	in.Broker = models.Samsung
	res, _ = c.Calculate(in)
	if !res.Fee.Equal(d("2500")) {
		t.Errorf("Samsung foreign fee: expected 2500, got %s", res.Fee)
	}

	// doubling the base doubles the fee
	in.ExecutedQuantity = nd("40")
	doubled, _ := c.Calculate(in)
	if !doubled.Fee.Equal(res.Fee.Mul(decimal.NewFromInt(2))) {
		t.Errorf("Expected fee to scale with base amount, got %s and %s", res.Fee, doubled.Fee)
	}
	if !doubled.BaseAmount.Equal(res.BaseAmount.Mul(decimal.NewFromInt(2))) {
		t.Errorf("Unexpected base amount %s", doubled.BaseAmount)
	}

	in.Broker = models.OtherBroker
	res, _ = c.Calculate(in)
	if !res.Fee.IsZero() {
		t.Errorf("ETC broker should charge nothing, got %s", res.Fee)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Input)
		field string
	}{
		{"missing quantity", func(in *Input) { in.ExecutedQuantity = decimal.NullDecimal{} }, "executed_quantity"},
		{"zero quantity", func(in *Input) { in.ExecutedQuantity = nd("0") }, "executed_quantity"},
		{"negative price", func(in *Input) { in.ExecutionPrice = nd("-1") }, "execution_price"},
		{"missing price", func(in *Input) { in.ExecutionPrice = decimal.NullDecimal{} }, "execution_price"},
		{"blank name", func(in *Input) { in.StockName = "   " }, "stock_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input(models.Buy, "100", "1")
			tt.mod(&in)

			_, err := New().Calculate(in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("Expected field %s, got %v", tt.field, err)
			}
		})
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	c := New()
	in := input(models.Sell, "71234.5", "7")
	in.PurchasePrice = nd("65000")

	first, err := c.Calculate(in)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := c.Calculate(in)
	if !first.TotalCost.Equal(second.TotalCost) || !first.Fee.Equal(second.Fee) ||
		!first.RealizedPL.Decimal.Equal(second.RealizedPL.Decimal) ||
		!first.RateOfReturn.Decimal.Equal(second.RateOfReturn.Decimal) {
		t.Errorf("Recalculation changed the result: %+v vs %+v", first, second)
	}
}
