package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"

	"signal_bot/internal/modules/config"
)

const contractPrefix = "tinkoff.public.invest.api.contract.v1."

const (
	instrumentsService = "InstrumentsService"
	marketDataService  = "MarketDataService"
)

// Client talks to the T-Invest REST gateway. Every RPC is a POST of a JSON
// body to {base}/tinkoff.public.invest.api.contract.v1.{Service}/{Method}.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	timeout time.Duration

	instrumentType   string
	instrumentStatus string

	now func() time.Time
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:             &http.Client{},
		baseURL:          strings.TrimRight(cfg.TInvest.BaseURL, "/") + "/",
		token:            cfg.TInvest.Token,
		timeout:          cfg.TInvest.RequestTimeout,
		instrumentType:   cfg.Assets.InstrumentType,
		instrumentStatus: cfg.Assets.InstrumentStatus,
		now:              time.Now,
	}
}

// APIError is a non-2xx answer of the gateway.
type APIError struct {
	Method string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Method, e.Status, e.Body)
}

func (c *Client) call(ctx context.Context, service, method string, in, out any) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "tinvest."+method)
	defer span.Finish()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := sonic.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "%s: marshal", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+contractPrefix+service+"/"+method, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "%s: build request", method)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		ext.Error.Set(span, true)
		return errors.Wrapf(err, "%s: do request", method)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s: read body", method)
	}
	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))

	if resp.StatusCode/100 != 2 {
		ext.Error.Set(span, true)
		return &APIError{Method: method, Status: resp.StatusCode, Body: string(body)}
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "%s: decode", method)
	}
	return nil
}
