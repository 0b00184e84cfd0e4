// Package magiceden implements the Ordinals collection floor feed.
package magiceden

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/optrack/business/market/app"
	"github.com/fd1az/optrack/business/market/domain"
	valuation "github.com/fd1az/optrack/business/valuation/domain"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/httpclient"
)

const (
	// BaseURL is the public Magic Eden API.
	BaseURL = "https://api-mainnet.magiceden.dev"
	// DefaultCollection is the Motocats collection symbol.
	DefaultCollection = "motocats"

	statEndpoint = "/v2/ord/btc/stat"
	tracerName   = "magiceden"
	httpTimeout  = 10 * time.Second
)

var _ app.Feed = (*Feed)(nil)

// Feed reads a collection floor and reports it in sats.
type Feed struct {
	client     *httpclient.Client
	collection string
	tracer     trace.Tracer
}

// NewFeed creates a feed for collection against baseURL (empty = BaseURL).
func NewFeed(baseURL, collection string, timeout time.Duration) (*Feed, error) {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if collection == "" {
		collection = DefaultCollection
	}
	if timeout <= 0 {
		timeout = httpTimeout
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.New(
		httpclient.WithName("magiceden"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithTimeout(timeout),
		httpclient.WithTracer(tracer, true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Feed{client: client, collection: collection, tracer: tracer}, nil
}

// Kind implements app.Feed.
func (f *Feed) Kind() domain.Kind {
	return domain.KindFloorSats
}

// btcAmount decodes a JSON number or a numeric string.
type btcAmount float64

func (a *btcAmount) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*a = btcAmount(v)
	return nil
}

type statResponse struct {
	FloorPrice btcAmount `json:"floorPrice"`
}

// Fetch returns the collection floor in sats.
func (f *Feed) Fetch(ctx context.Context) (float64, error) {
	ctx, span := f.tracer.Start(ctx, "magiceden.fetch_floor",
		trace.WithAttributes(attribute.String("collection", f.collection)),
	)
	defer span.End()

	resp, err := f.client.Get(ctx, statEndpoint,
		httpclient.Endpoint("stat"),
		httpclient.Query("collectionSymbol", f.collection),
		httpclient.OnResponse(httpclient.StatusErrorHandler(apperror.CodeMagicEdenAPIError)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return 0, apperror.Wrap(err, apperror.CodeMagicEdenAPIError, f.collection)
	}

	var result statResponse
	if err := resp.JSON(&result); err != nil {
		span.RecordError(err)
		return 0, apperror.New(apperror.CodeInvalidFeedData,
			apperror.WithCause(err),
			apperror.WithContext("magiceden: decode stat"))
	}

	if !(result.FloorPrice > 0) {
		span.SetStatus(codes.Error, "missing floor")
		return 0, apperror.New(apperror.CodeInvalidFeedData,
			apperror.WithContext("magiceden: floorPrice missing for "+f.collection))
	}

	sats := valuation.BTCToSats(float64(result.FloorPrice))
	span.SetAttributes(attribute.Int64("floor_sats", sats))
	return float64(sats), nil
}
