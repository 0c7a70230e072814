// Package pricing looks up current stock prices. Lookups never fail loudly:
// any error resolves to "no price".
package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/2492dfd/stockLog-final/logger"
)

var ErrPriceNotFound = errors.New("price not found")

type Quote struct {
	Ticker string          `json:"ticker"`
	Name   string          `json:"stock_name,omitempty"`
	Price  decimal.Decimal `json:"price"`
	AsOf   time.Time       `json:"as_of"`
}

// Source is what callers use. ok is false whenever no price is known.
type Source interface {
	GetPrice(ctx context.Context, ticker string) (q Quote, ok bool)
}

// Provider is one upstream. It reports why a lookup failed.
type Provider interface {
	Name() string
	Quote(ctx context.Context, ticker string) (Quote, error)
}

type resolved struct {
	p Provider
}

// Resolve turns a Provider into a Source, logging and swallowing errors.
func Resolve(p Provider) Source {
	return resolved{p: p}
}

func (r resolved) GetPrice(ctx context.Context, ticker string) (Quote, bool) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return Quote{}, false
	}
	q, err := r.p.Quote(ctx, ticker)
	if err != nil {
		logger.Warn(ctx, "Price lookup failed", "provider", r.p.Name(), "ticker", ticker, "error", err)
		return Quote{}, false
	}
	return q, true
}

// Chain tries providers in order and returns the first price found.
type Chain []Provider

func (c Chain) Name() string { return "chain" }

func (c Chain) Quote(ctx context.Context, ticker string) (Quote, error) {
	var errs []error
	for _, p := range c {
		q, err := p.Quote(ctx, ticker)
		if err == nil {
			return q, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return Quote{}, ErrPriceNotFound
	}
	return Quote{}, errors.Join(errs...)
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
