package pricing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/metrics"
	"github.com/2492dfd/stockLog-final/trace"
)

type observableProvider struct {
	next Provider
}

var _ Provider = (*observableProvider)(nil)

// Observe wraps a provider with tracing, metrics and debug logging.
func Observe(p Provider) Provider {
	return &observableProvider{next: p}
}

func (o *observableProvider) Name() string { return o.next.Name() }

func (o *observableProvider) Quote(ctx context.Context, ticker string) (Quote, error) {
	ctx, span := trace.StartSpan(ctx, "pricing."+o.next.Name())
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	start := time.Now()
	q, err := o.next.Quote(ctx, ticker)
	metrics.RecordPriceLookup(o.next.Name(), err == nil, time.Since(start))

	if err != nil {
		logger.Debug(ctx, "Price provider miss", "provider", o.next.Name(), "ticker", ticker, "error", err)
		return Quote{}, err
	}
	logger.Debug(ctx, "Price provider hit", "provider", o.next.Name(), "ticker", ticker, "price", q.Price.String())
	return q, nil
}
