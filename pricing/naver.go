package pricing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const naverBaseURL = "https://finance.naver.com"

// NaverProvider scrapes the Naver Finance item page. It only knows domestic
// six digit codes; a .KS or .KQ suffix is dropped.
type NaverProvider struct {
	cli     *http.Client
	baseURL string
}

func NewNaverProvider(timeout time.Duration) *NaverProvider {
	return &NaverProvider{
		cli:     &http.Client{Timeout: timeout},
		baseURL: naverBaseURL,
	}
}

func (p *NaverProvider) Name() string { return "naver" }

func (p *NaverProvider) Quote(ctx context.Context, ticker string) (Quote, error) {
	code := ticker
	if i := strings.IndexByte(code, '.'); i != -1 {
		code = code[:i]
	}
	if len(code) != 6 {
		return Quote{}, fmt.Errorf("naver: %q is not a domestic code", ticker)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/item/main.naver?code="+code, nil)
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
		return Quote{}, fmt.Errorf("naver http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("naver: failed to parse page: %w", err)
	}

	raw := strings.ReplaceAll(strings.TrimSpace(doc.Find("p.no_today span.blind").First().Text()), ",", "")
	if raw == "" {
		return Quote{}, ErrPriceNotFound
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || !price.IsPositive() {
		return Quote{}, ErrPriceNotFound
	}

	return Quote{
		Ticker: ticker,
		Name:   strings.TrimSpace(doc.Find("div.wrap_company h2 a").First().Text()),
		Price:  price,
		AsOf:   time.Now().UTC(),
	}, nil
}
