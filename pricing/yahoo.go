package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const yahooBaseURL = "https://query2.finance.yahoo.com"

var ErrYahooNoResult = errors.New("yahoo: no result")

// YahooProvider reads the v8 chart endpoint. Korean tickers use the
// exchange suffix, e.g. 005930.KS.
type YahooProvider struct {
	cli     *http.Client
	baseURL string
}

func NewYahooProvider(timeout time.Duration) *YahooProvider {
	return &YahooProvider{
		cli:     &http.Client{Timeout: timeout},
		baseURL: yahooBaseURL,
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) Quote(ctx context.Context, ticker string) (Quote, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1m&range=1d", p.baseURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("User-Agent", "stocklog/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					Symbol             string  `json:"symbol"`
					ShortName          string  `json:"shortName"`
					LongName           string  `json:"longName"`
					RegularMarketPrice float64 `json:"regularMarketPrice"`
					RegularMarketTime  int64   `json:"regularMarketTime"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Quote{}, err
	}
	if len(raw.Chart.Result) == 0 {
		return Quote{}, ErrYahooNoResult
	}

	r := raw.Chart.Result[0]
	price := r.Meta.RegularMarketPrice
	asOf := time.Unix(r.Meta.RegularMarketTime, 0)

	// fall back to the last non-empty close when meta has no price
	if (price <= 0 || r.Meta.RegularMarketTime == 0) && len(r.Indicators.Quote) > 0 && len(r.Indicators.Quote[0].Close) == len(r.Timestamp) {
		closes := r.Indicators.Quote[0].Close
		for i := len(r.Timestamp) - 1; i >= 0; i-- {
			if c := closes[i]; c != nil && *c > 0 {
				price = *c
				asOf = time.Unix(r.Timestamp[i], 0)
				break
			}
		}
	}
	if price <= 0 {
		return Quote{}, ErrPriceNotFound
	}
	if asOf.Unix() <= 0 {
		asOf = time.Now()
	}

	name := r.Meta.LongName
	if name == "" {
		name = r.Meta.ShortName
	}
	return Quote{
		Ticker: ticker,
		Name:   name,
		Price:  decimal.NewFromFloat(price),
		AsOf:   asOf.UTC(),
	}, nil
}
