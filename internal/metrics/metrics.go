package metrics

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
)

const (
	Namespace = "procurement_relay."

	DispatchCount   = "relay_dispatch_count"
	DispatchLatency = "relay_dispatch_latency"
	RelaySuccess    = "relay_success_count"

	TagKind      = "kind"
	TagSource    = "source"
	TagDelivered = "delivered"
	TagTrigger   = "trigger"
	TagEnv       = "env"
	TagService   = "service"
)

// Recorder emits relay metrics to statsd. It is safe for concurrent use.
type Recorder struct {
	client statsd.ClientInterface
}

// New returns a Recorder sending to addr, or a no-op Recorder when addr is empty
func New(addr, service, env string) (*Recorder, error) {
	if addr == "" {
		return NewNoop(), nil
	}
	client, err := statsd.New(addr,
		statsd.WithNamespace(Namespace),
		statsd.WithTags([]string{TagAsString(TagService, service), TagAsString(TagEnv, env)}),
	)
	if err != nil {
		return nil, fmt.Errorf("statsd client: %w", err)
	}
	return &Recorder{client: client}, nil
}

// NewNoop returns a Recorder that drops everything
func NewNoop() *Recorder {
	return &Recorder{client: &statsd.NoOpClient{}}
}

// ObserveDispatch records one dispatch outcome
func (r *Recorder) ObserveDispatch(outcome model.RelayOutcome) {
	tags := []string{
		TagAsString(TagKind, string(outcome.Kind)),
		TagAsString(TagSource, string(outcome.Source)),
		TagAsString(TagDelivered, strconv.FormatBool(outcome.Delivered)),
	}
	if err := r.client.Incr(DispatchCount, tags, 1); err != nil {
		slog.Debug("statsd count failed", "metric", DispatchCount, "error", err)
	}
	latency := time.Duration(outcome.DurationMs) * time.Millisecond
	if err := r.client.Timing(DispatchLatency, latency, tags, 1); err != nil {
		slog.Debug("statsd timing failed", "metric", DispatchLatency, "error", err)
	}
}

// ObserveRun records how many kinds a relay run delivered
func (r *Recorder) ObserveRun(trigger model.RelayTrigger, result model.AggregateResult) {
	tags := []string{TagAsString(TagTrigger, string(trigger))}
	if err := r.client.Gauge(RelaySuccess, float64(result.SuccessCount), tags, 1); err != nil {
		slog.Debug("statsd gauge failed", "metric", RelaySuccess, "error", err)
	}
}

// Close flushes buffered metrics
func (r *Recorder) Close() error {
	return r.client.Close()
}

func TagAsString(key, value string) string {
	return key + ":" + value
}
