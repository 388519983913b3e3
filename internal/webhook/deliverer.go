package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/httpclient"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
)

const DefaultTimeout = 30 * time.Second

var ErrInvalidEndpoint = errors.New("invalid outbound endpoint")

// DeliveryError records why an envelope did not reach the outbound endpoint
type DeliveryError struct {
	Kind       model.DataKind
	StatusCode int // 0 when no HTTP response was received
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("deliver %s: HTTP %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("deliver %s: %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Config configures the outbound endpoint
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Retry   httpclient.RetryConfig
}

// Deliverer POSTs relay envelopes to a single configured endpoint
type Deliverer struct {
	url    string
	logURL string
	auth   httpclient.AuthProvider
	client *httpclient.Client
	now    func() time.Time
}

// NewDeliverer validates the endpoint. A missing or relative URL is a
// configuration problem and is reported here rather than on every delivery.
func NewDeliverer(cfg Config) (*Deliverer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: url is empty", ErrInvalidEndpoint)
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute http(s) url", ErrInvalidEndpoint, cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	d := &Deliverer{
		url:    cfg.URL,
		logURL: httpclient.RedactURL(u),
		client: httpclient.NewClientWithRetry("relay-webhook", timeout, cfg.Retry),
		now:    time.Now,
	}
	if cfg.APIKey != "" {
		d.auth = &httpclient.BearerTokenAuth{Token: cfg.APIKey}
	}
	return d, nil
}

// Endpoint returns the configured URL without its query string
func (d *Deliverer) Endpoint() string {
	return d.logURL
}

// Deliver sends payload. Only a 2xx answer counts as delivered; anything
// else is returned as *DeliveryError after being logged.
func (d *Deliverer) Deliver(ctx context.Context, payload model.Payload) error {
	envelope := NewEnvelope(payload, d.now())

	b := httpclient.NewRequest(http.MethodPost, d.url).
		JSON(envelope).
		Header("X-Relay-Type", string(payload.Kind)).
		Context(ctx)
	if d.auth != nil {
		b = b.Auth(d.auth)
	}

	resp, err := b.Execute(d.client)
	if err != nil {
		derr := &DeliveryError{Kind: payload.Kind, Err: err}
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			derr.StatusCode = httpErr.StatusCode
			derr.Body = string(httpErr.Body)
			slog.WarnContext(ctx, "webhook_error",
				"url", d.logURL,
				"type", payload.Kind,
				"status", httpErr.StatusCode,
				"body", derr.Body,
			)
		} else {
			slog.WarnContext(ctx, "webhook_failed",
				"url", d.logURL,
				"type", payload.Kind,
				"error", err,
			)
		}
		return derr
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	slog.InfoContext(ctx, "webhook_delivered",
		"type", payload.Kind,
		"status", resp.StatusCode,
		"items", len(payload.Items),
	)
	return nil
}
