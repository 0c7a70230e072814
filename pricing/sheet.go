package pricing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SheetProvider reads a published spreadsheet exported as CSV with the
// columns name, ticker, domestic price, foreign price. Tickers match when
// either contains the other, so "005930" in the sheet serves "005930.KS".
type SheetProvider struct {
	cli *http.Client
	url string
}

func NewSheetProvider(url string, timeout time.Duration) *SheetProvider {
	return &SheetProvider{cli: &http.Client{Timeout: timeout}, url: url}
}

func (p *SheetProvider) Name() string { return "sheet" }

func (p *SheetProvider) Quote(ctx context.Context, ticker string) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Quote{}, err
	}
	resp, err := p.cli.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("sheet http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, err
	}

	lines := strings.Split(string(body), "\n")
	for _, line := range lines[1:] {
		cols := strings.Split(strings.TrimRight(line, "\r"), ",")
		if len(cols) < 2 {
			continue
		}
		sheetTicker := strings.ToUpper(strings.TrimSpace(cols[1]))
		if sheetTicker == "" || !(strings.Contains(ticker, sheetTicker) || strings.Contains(sheetTicker, ticker)) {
			continue
		}

		var price decimal.Decimal
		for _, col := range []int{2, 3} {
			if col < len(cols) {
				if v, ok := parseSheetNumber(cols[col]); ok {
					price = v
					break
				}
			}
		}
		if !price.IsPositive() {
			return Quote{}, ErrPriceNotFound
		}
		return Quote{
			Ticker: sheetTicker,
			Name:   strings.TrimSpace(cols[0]),
			Price:  price,
			AsOf:   time.Now().UTC(),
		}, nil
	}
	return Quote{}, ErrPriceNotFound
}

func parseSheetNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\"", ""))
	if s == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
