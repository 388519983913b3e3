package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/httpclient"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 15 * time.Second

	// maxBodySize bounds how much of an upstream response is read
	maxBodySize = 8 << 20
)

// Config configures the upstream procurement API client
type Config struct {
	BaseURL       string
	ServiceKey    string
	Timeout       time.Duration
	RatePerSecond float64 // 0 disables pacing
	Burst         int
}

// Client queries the public procurement API for bid notices, pre-notices
// and contracts. It is stateless apart from the optional rate limiter and
// never retries; callers decide what to do with a failure.
type Client struct {
	baseURL string
	auth    httpclient.AuthProvider
	client  *httpclient.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		auth:    &httpclient.QueryKeyAuth{Param: "serviceKey", Key: cfg.ServiceKey},
		client:  httpclient.NewClient("procurement-upstream", timeout),
	}

	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return c
}

// Fetch retrieves one page of kind. Every failure is returned as *Error.
func (c *Client) Fetch(ctx context.Context, kind model.DataKind, params model.Params) (model.Payload, error) {
	entry, ok := kinds[kind]
	if !ok {
		return model.Payload{}, newError(kind, 0, fmt.Errorf("unsupported data kind %q", kind))
	}
	params = params.Normalize()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.Payload{}, newError(kind, 0, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	slog.DebugContext(ctx, "upstream_request",
		"kind", kind,
		"operation", entry.operation,
		"page_no", params.PageNo,
		"num_of_rows", params.NumOfRows,
	)

	resp, err := httpclient.NewRequest(http.MethodGet, c.baseURL).
		Path(entry.operation).
		Query("type", "json").
		Query("pageNo", strconv.Itoa(params.PageNo)).
		Query("numOfRows", strconv.Itoa(params.NumOfRows)).
		QueryIf("fromDt", params.FromDate).
		QueryIf("toDt", params.ToDate).
		Auth(c.auth).
		Context(ctx).
		Execute(c.client)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return model.Payload{}, newError(kind, httpErr.StatusCode, err)
		}
		return model.Payload{}, newError(kind, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.Payload{}, newError(kind, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	payload, err := parseEnvelope(kind, entry.build, body, params)
	if err != nil {
		return model.Payload{}, newError(kind, resp.StatusCode, err)
	}

	return payload, nil
}
