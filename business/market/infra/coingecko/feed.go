// Package coingecko implements the BTC/USD spot feed.
package coingecko

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/optrack/business/market/app"
	"github.com/fd1az/optrack/business/market/domain"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/httpclient"
)

const (
	// BaseURL is the public CoinGecko API.
	BaseURL = "https://api.coingecko.com"

	priceEndpoint = "/api/v3/simple/price"
	tracerName    = "coingecko"
	httpTimeout   = 10 * time.Second
)

var _ app.Feed = (*Feed)(nil)

// Feed reads the BTC/USD price.
type Feed struct {
	client *httpclient.Client
	tracer trace.Tracer
}

// NewFeed creates a feed against baseURL (empty = BaseURL).
func NewFeed(baseURL string, timeout time.Duration) (*Feed, error) {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = httpTimeout
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.New(
		httpclient.WithName("coingecko"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithTimeout(timeout),
		httpclient.WithTracer(tracer, true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Feed{client: client, tracer: tracer}, nil
}

// Kind implements app.Feed.
func (f *Feed) Kind() domain.Kind {
	return domain.KindBTCUSD
}

// priceResponse is {"bitcoin":{"usd":97000}}.
type priceResponse map[string]map[string]float64

// Fetch returns the BTC price in USD.
func (f *Feed) Fetch(ctx context.Context) (float64, error) {
	ctx, span := f.tracer.Start(ctx, "coingecko.fetch_btc_price")
	defer span.End()

	resp, err := f.client.Get(ctx, priceEndpoint,
		httpclient.Endpoint("simple_price"),
		httpclient.Query("ids", "bitcoin"),
		httpclient.Query("vs_currencies", "usd"),
		httpclient.OnResponse(httpclient.StatusErrorHandler(apperror.CodeCoinGeckoAPIError)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return 0, apperror.Wrap(err, apperror.CodeCoinGeckoAPIError, "btc price")
	}

	var result priceResponse
	if err := resp.JSON(&result); err != nil {
		span.RecordError(err)
		return 0, apperror.New(apperror.CodeInvalidFeedData,
			apperror.WithCause(err),
			apperror.WithContext("coingecko: decode simple price"))
	}

	price := result["bitcoin"]["usd"]
	if !(price > 0) {
		span.SetStatus(codes.Error, "missing price")
		return 0, apperror.New(apperror.CodeInvalidFeedData,
			apperror.WithContext("coingecko: bitcoin.usd missing or not positive"))
	}

	span.SetAttributes(attribute.Float64("btc_usd", price))
	return price, nil
}
