package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/relay"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/store"
)

const storeTimeout = 5 * time.Second

// RunObserver receives every finished relay run. metrics.Recorder satisfies it.
type RunObserver interface {
	ObserveRun(trigger model.RelayTrigger, result model.AggregateResult)
}

// Service records relay runs around a Dispatcher. Recording is best effort:
// a store failure is logged and never changes a relay result.
type Service struct {
	relay    *relay.Dispatcher
	store    store.StatusStore
	observer RunObserver
	now      func() time.Time
}

func New(d *relay.Dispatcher, st store.StatusStore, observer RunObserver) *Service {
	return &Service{
		relay:    d,
		store:    st,
		observer: observer,
		now:      time.Now,
	}
}

// RelayAll relays every kind
func (s *Service) RelayAll(ctx context.Context, params model.Params) model.AggregateResult {
	return s.relayAll(ctx, params, model.TriggerManual)
}

func (s *Service) relayAll(ctx context.Context, params model.Params, trigger model.RelayTrigger) model.AggregateResult {
	started := s.now()
	result := s.relay.RelayAll(ctx, params)

	s.record(ctx, model.RelayRun{
		ID:           result.RunID,
		Trigger:      trigger,
		StartedAt:    started.UTC(),
		Outcomes:     result.Outcomes,
		SuccessCount: result.SuccessCount,
	})
	if s.observer != nil {
		s.observer.ObserveRun(trigger, result)
	}
	return result
}

// Dispatch relays one kind
func (s *Service) Dispatch(ctx context.Context, kind model.DataKind, params model.Params) model.AggregateResult {
	started := s.now()
	outcome := s.relay.Dispatch(ctx, kind, params)

	result := model.AggregateResult{
		RunID:        uuid.NewString(),
		Outcomes:     []model.RelayOutcome{outcome},
		SuccessCount: model.CountDelivered([]model.RelayOutcome{outcome}),
	}
	s.record(ctx, model.RelayRun{
		ID:           result.RunID,
		Trigger:      model.TriggerSingle,
		StartedAt:    started.UTC(),
		Outcomes:     result.Outcomes,
		SuccessCount: result.SuccessCount,
	})
	if s.observer != nil {
		s.observer.ObserveRun(model.TriggerSingle, result)
	}
	return result
}

// Status returns the last delivery result per kind. Kinds never relayed
// report false.
func (s *Service) Status(ctx context.Context) (model.RelayStatus, error) {
	latest, err := s.store.LatestOutcomes(ctx)
	if err != nil {
		return model.RelayStatus{}, err
	}
	var status model.RelayStatus
	for kind, o := range latest {
		status.Set(kind, o.Delivered)
	}
	return status, nil
}

func (s *Service) Runs(ctx context.Context, limit int) ([]model.RelayRun, error) {
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []model.RelayRun{}
	}
	return runs, nil
}

// Lookup fetches one page for a caller without delivering it, substituting
// when the upstream fails
func (s *Service) Lookup(ctx context.Context, kind model.DataKind, params model.Params) model.LookupResult {
	payload, source, err := s.relay.Resolve(ctx, kind, params)
	result := model.LookupResult{
		Kind:    kind,
		Source:  source,
		Payload: payload,
	}
	if err != nil {
		result.UpstreamError = err.Error()
	}
	return result
}

// RunScheduled relays every kind each interval until ctx is done
func (s *Service) RunScheduled(ctx context.Context, interval time.Duration, params model.Params) {
	if interval <= 0 {
		return
	}
	slog.InfoContext(ctx, "relay_scheduler_started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "relay_scheduler_stopped")
			return
		case <-ticker.C:
			s.relayAll(ctx, params, model.TriggerScheduled)
		}
	}
}

func (s *Service) record(ctx context.Context, run model.RelayRun) {
	// The caller's context may already be cancelled; the run still happened
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	if err := s.store.RecordRun(ctx, run); err != nil {
		slog.WarnContext(ctx, "relay_record_failed", "run_id", run.ID, "error", err)
	}
}
