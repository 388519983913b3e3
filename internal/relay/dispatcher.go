// Package relay moves procurement data from the upstream API to the outbound
// endpoint. Each dispatch fetches one kind, falls back to substitute data when
// the upstream fails, and delivers the result. Dispatch never returns an
// error; failures are reported through the RelayOutcome.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/substitute"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/upstream"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 3

var ErrNotConfigured = errors.New("relay not configured")

// Fetcher retrieves one page of a kind from the upstream
type Fetcher interface {
	Fetch(ctx context.Context, kind model.DataKind, params model.Params) (model.Payload, error)
}

// Deliverer sends a payload to the outbound endpoint
type Deliverer interface {
	Deliver(ctx context.Context, payload model.Payload) error
}

// Observer receives every outcome. metrics.Recorder satisfies it.
type Observer interface {
	ObserveDispatch(outcome model.RelayOutcome)
}

type route struct {
	operation  string
	substitute func(kind model.DataKind) model.Payload
}

func defaultRoutes() map[model.DataKind]route {
	routes := make(map[model.DataKind]route)
	for _, kind := range model.AllKinds() {
		op, _ := upstream.Operation(kind)
		routes[kind] = route{operation: op, substitute: substitute.Generate}
	}
	return routes
}

type Option func(*Dispatcher)

// WithConcurrency bounds how many kinds RelayAll dispatches at once. 1 runs
// them sequentially.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

type Dispatcher struct {
	fetcher     Fetcher
	deliverer   Deliverer
	routes      map[model.DataKind]route
	concurrency int
	observer    Observer
	now         func() time.Time
}

func NewDispatcher(fetcher Fetcher, deliverer Deliverer, opts ...Option) (*Dispatcher, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("%w: fetcher is nil", ErrNotConfigured)
	}
	if deliverer == nil {
		return nil, fmt.Errorf("%w: deliverer is nil", ErrNotConfigured)
	}

	d := &Dispatcher{
		fetcher:     fetcher,
		deliverer:   deliverer,
		routes:      defaultRoutes(),
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Resolve returns a live page of kind, or the substitute page together with
// the upstream error that caused the fallback.
func (d *Dispatcher) Resolve(ctx context.Context, kind model.DataKind, params model.Params) (model.Payload, model.PayloadSource, error) {
	r, ok := d.routes[kind]
	if !ok {
		return model.Payload{}, "", fmt.Errorf("unsupported data kind %q", kind)
	}

	payload, err := d.fetcher.Fetch(ctx, kind, params)
	if err == nil {
		slog.InfoContext(ctx, "upstream_live",
			"kind", kind,
			"operation", r.operation,
			"items", len(payload.Items),
			"total_count", payload.TotalCount,
		)
		return payload, model.SourceLive, nil
	}

	attrs := []any{"kind", kind, "operation", r.operation, "error", err}
	var upErr *upstream.Error
	if errors.As(err, &upErr) && upErr.StatusCode != 0 {
		attrs = append(attrs, "status", upErr.StatusCode)
	}
	slog.WarnContext(ctx, "upstream_fallback", attrs...)

	return r.substitute(kind), model.SourceSubstitute, err
}

// Dispatch relays one kind and reports what happened
func (d *Dispatcher) Dispatch(ctx context.Context, kind model.DataKind, params model.Params) (outcome model.RelayOutcome) {
	start := d.now()
	outcome.Kind = kind

	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "relay_panic", "kind", kind, "panic", rec)
			outcome.Delivered = false
			outcome.Error = fmt.Sprintf("panic: %v", rec)
		}
		end := d.now()
		outcome.DurationMs = end.Sub(start).Milliseconds()
		outcome.CompletedAt = end.UTC()
		d.observe(outcome)
	}()

	payload, source, err := d.Resolve(ctx, kind, params)
	if source == "" {
		outcome.Error = err.Error()
		slog.WarnContext(ctx, "relay_skipped", "kind", kind, "error", err)
		return outcome
	}
	outcome.Source = source
	outcome.ItemCount = len(payload.Items)

	if err := d.deliverer.Deliver(ctx, payload); err != nil {
		outcome.Error = err.Error()
		slog.WarnContext(ctx, "relay_undelivered",
			"kind", kind,
			"source", source,
			"error", err,
		)
		return outcome
	}

	outcome.Delivered = true
	slog.InfoContext(ctx, "relay_delivered",
		"kind", kind,
		"source", source,
		"items", outcome.ItemCount,
	)
	return outcome
}

// RelayAll dispatches every kind and collects the outcomes in
// model.AllKinds order. It returns after all dispatches finish.
func (d *Dispatcher) RelayAll(ctx context.Context, params model.Params) model.AggregateResult {
	kinds := model.AllKinds()
	outcomes := make([]model.RelayOutcome, len(kinds))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, kind := range kinds {
		g.Go(func() error {
			outcomes[i] = d.Dispatch(ctx, kind, params)
			return nil
		})
	}
	_ = g.Wait()

	result := model.AggregateResult{
		RunID:        uuid.NewString(),
		Outcomes:     outcomes,
		SuccessCount: model.CountDelivered(outcomes),
	}

	slog.InfoContext(ctx, "relay_completed",
		"run_id", result.RunID,
		"success_count", result.SuccessCount,
		"total", len(outcomes),
	)
	return result
}

func (d *Dispatcher) observe(outcome model.RelayOutcome) {
	if d.observer != nil {
		d.observer.ObserveDispatch(outcome)
	}
}
