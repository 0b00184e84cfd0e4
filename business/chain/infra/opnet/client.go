// Package opnet reads OP_NET contracts over the node's JSON-RPC interface.
package opnet

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/optrack/business/chain/app"
	"github.com/fd1az/optrack/business/chain/domain"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/circuitbreaker"
	"github.com/fd1az/optrack/internal/logger"
)

const (
	tracerName = "opnet"
	meterName  = "opnet"

	methodCall        = "btc_call"
	methodBlockNumber = "btc_blockNumber"
)

var _ app.ContractCaller = (*Client)(nil)

// errorSelector prefixes string revert reasons.
var errorSelector = domain.Selector("Error(string)")

// callResult is the btc_call response body.
type callResult struct {
	Result       string `json:"result"`
	Revert       string `json:"revert,omitempty"`
	EstimatedGas string `json:"estimatedGas,omitempty"`
}

type clientMetrics struct {
	calls       metric.Int64Counter
	callLatency metric.Float64Histogram
	callErrors  metric.Int64Counter
}

// Client is a ContractCaller over go-ethereum's rpc client.
type Client struct {
	rpc    *rpc.Client
	logger logger.LoggerInterface

	callCB *circuitbreaker.CircuitBreaker[*callResult]
	headCB *circuitbreaker.CircuitBreaker[uint64]

	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient wraps an rpc client connected to an OP_NET node.
func NewClient(c *rpc.Client, log logger.LoggerInterface) (*Client, error) {
	client := &Client{
		rpc:    c,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}

	if err := client.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	client.initCircuitBreakers()

	return client, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.calls, err = meter.Int64Counter(
		"opnet_rpc_calls_total",
		metric.WithDescription("Total OP_NET RPC calls"),
	)
	if err != nil {
		return err
	}

	c.metrics.callLatency, err = meter.Float64Histogram(
		"opnet_rpc_latency_ms",
		metric.WithDescription("OP_NET RPC latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	c.metrics.callErrors, err = meter.Int64Counter(
		"opnet_rpc_errors_total",
		metric.WithDescription("Total failed or reverted OP_NET RPC calls"),
	)
	return err
}

func (c *Client) initCircuitBreakers() {
	onChange := func(name string, from, to gobreaker.State) {
		c.logger.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	callCfg := circuitbreaker.DefaultConfig("opnet-call")
	callCfg.OnStateChange = onChange
	c.callCB = circuitbreaker.New[*callResult](callCfg)

	headCfg := circuitbreaker.DefaultConfig("opnet-head")
	headCfg.OnStateChange = onChange
	c.headCB = circuitbreaker.New[uint64](headCfg)
}

// Call executes a view call. A revert is returned as CodeContractReverted;
// it does not count against the breaker.
func (c *Client) Call(ctx context.Context, contract common.Hash, calldata []byte) ([]byte, error) {
	selector := ""
	if len(calldata) >= domain.SelectorSize {
		selector = hex.EncodeToString(calldata[:domain.SelectorSize])
	}

	ctx, span := c.tracer.Start(ctx, "opnet.call",
		trace.WithAttributes(
			attribute.String("contract", contract.Hex()),
			attribute.String("selector", selector),
		),
	)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("method", methodCall), attribute.String("selector", selector))
	start := time.Now()
	c.metrics.calls.Add(ctx, 1, attrs)
	defer func() {
		c.metrics.callLatency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}()

	res, err := c.callCB.Execute(func() (*callResult, error) {
		var r callResult
		if err := c.rpc.CallContext(ctx, &r, methodCall, contract.Hex(), hex.EncodeToString(calldata)); err != nil {
			return nil, err
		}
		return &r, nil
	})
	if err != nil {
		c.metrics.callErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "call failed")
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s selector %s", contract.Hex(), selector)))
	}

	if res.Revert != "" {
		reason := revertReason(res.Revert)
		c.metrics.callErrors.Add(ctx, 1, attrs)
		span.SetStatus(codes.Error, "reverted")
		span.SetAttributes(attribute.String("revert", reason))
		return nil, apperror.New(apperror.CodeContractReverted,
			apperror.WithContext(fmt.Sprintf("%s selector %s: %s", contract.Hex(), selector, reason)))
	}

	out, err := base64.StdEncoding.DecodeString(res.Result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad result encoding")
		return nil, apperror.New(apperror.CodeInvalidCallResult,
			apperror.WithCause(err),
			apperror.WithContext("result is not base64"))
	}

	span.SetStatus(codes.Ok, "called")
	return out, nil
}

// BlockNumber returns the node's current height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, span := c.tracer.Start(ctx, "opnet.block_number")
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("method", methodBlockNumber))
	start := time.Now()
	c.metrics.calls.Add(ctx, 1, attrs)
	defer func() {
		c.metrics.callLatency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}()

	height, err := c.headCB.Execute(func() (uint64, error) {
		var h hexutil.Uint64
		if err := c.rpc.CallContext(ctx, &h, methodBlockNumber); err != nil {
			return 0, err
		}
		return uint64(h), nil
	})
	if err != nil {
		c.metrics.callErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "block number failed")
		if apperror.IsAppError(err) {
			return 0, err
		}
		return 0, apperror.New(apperror.CodeOPNetRPCError,
			apperror.WithCause(err),
			apperror.WithContext(methodBlockNumber))
	}

	span.SetAttributes(attribute.Int64("height", int64(height)))
	span.SetStatus(codes.Ok, "fetched")
	return height, nil
}

// revertReason decodes a base64 revert payload into something readable.
func revertReason(b64 string) string {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return b64
	}

	if len(raw) > domain.SelectorSize && [domain.SelectorSize]byte(raw[:domain.SelectorSize]) == errorSelector {
		if msg, err := domain.NewReader(raw[domain.SelectorSize:]).ReadString(); err == nil {
			return msg
		}
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return "0x" + hex.EncodeToString(raw)
}
