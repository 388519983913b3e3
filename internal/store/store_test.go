package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/testutil"
)

var base = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newRun(id string, offset time.Duration, delivered ...bool) model.RelayRun {
	run := model.RelayRun{
		ID:        id,
		Trigger:   model.TriggerManual,
		StartedAt: base.Add(offset),
	}
	for i, kind := range model.AllKinds() {
		if i >= len(delivered) {
			break
		}
		run.Outcomes = append(run.Outcomes, model.RelayOutcome{
			Kind:        kind,
			Source:      model.SourceLive,
			Delivered:   delivered[i],
			ItemCount:   3,
			DurationMs:  40,
			CompletedAt: base.Add(offset + time.Second),
		})
	}
	run.SuccessCount = model.CountDelivered(run.Outcomes)
	return run
}

// testStatusStore runs the behaviour every StatusStore shares
func testStatusStore(t *testing.T, s StatusStore) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		latest, err := s.LatestOutcomes(ctx)
		if err != nil {
			t.Fatalf("LatestOutcomes() error: %v", err)
		}
		if len(latest) != 0 {
			t.Errorf("latest = %v, want empty", latest)
		}
		runs, err := s.ListRuns(ctx, 10)
		if err != nil {
			t.Fatalf("ListRuns() error: %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("runs = %d, want 0", len(runs))
		}
	})

	t.Run("rejects run without id", func(t *testing.T) {
		if err := s.RecordRun(ctx, newRun("", 0, true)); !errors.Is(err, ErrInvalidRun) {
			t.Errorf("RecordRun() error = %v, want ErrInvalidRun", err)
		}
	})

	t.Run("latest outcome per kind", func(t *testing.T) {
		if err := s.RecordRun(ctx, newRun("run-1", 0, true, true, true)); err != nil {
			t.Fatalf("RecordRun() error: %v", err)
		}
		// single-kind run only replaces bidNotice
		if err := s.RecordRun(ctx, newRun("run-2", time.Minute, false)); err != nil {
			t.Fatalf("RecordRun() error: %v", err)
		}

		latest, err := s.LatestOutcomes(ctx)
		if err != nil {
			t.Fatalf("LatestOutcomes() error: %v", err)
		}
		want := map[model.DataKind]bool{
			model.KindBidNotice: false,
			model.KindPreNotice: true,
			model.KindContract:  true,
		}
		for kind, delivered := range want {
			got, ok := latest[kind]
			if !ok {
				t.Errorf("latest[%v] missing", kind)
				continue
			}
			if got.Delivered != delivered {
				t.Errorf("latest[%v].Delivered = %v, want %v", kind, got.Delivered, delivered)
			}
		}
	})

	t.Run("runs newest first with limit", func(t *testing.T) {
		if err := s.RecordRun(ctx, newRun("run-3", 2*time.Minute, true, false, true)); err != nil {
			t.Fatalf("RecordRun() error: %v", err)
		}

		runs, err := s.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("ListRuns() error: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("runs = %d, want 2", len(runs))
		}
		if runs[0].ID != "run-3" || runs[1].ID != "run-2" {
			t.Errorf("run order = [%s %s], want [run-3 run-2]", runs[0].ID, runs[1].ID)
		}
		if runs[0].SuccessCount != 2 || len(runs[0].Outcomes) != 3 {
			t.Errorf("run-3 = %+v, want 3 outcomes with 2 successes", runs[0])
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStatusStore(t, NewMemoryStore(0))
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	for i, id := range []string{"a", "b", "c"} {
		if err := s.RecordRun(ctx, newRun(id, time.Duration(i)*time.Minute, true)); err != nil {
			t.Fatalf("RecordRun(%s) error: %v", id, err)
		}
	}

	runs, _ := s.ListRuns(ctx, 0)
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("runs = %+v, want [c b]", runs)
	}
}

func TestMemoryStore_CopiesOutcomes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	run := newRun("a", 0, true)
	if err := s.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}
	run.Outcomes[0].Delivered = false

	runs, _ := s.ListRuns(ctx, 1)
	if !runs[0].Outcomes[0].Delivered {
		t.Error("stored run changed after caller mutated its outcomes")
	}
}

func TestMongoStatusStore(t *testing.T) {
	db := testutil.NewMongoDatabase(t)

	s := NewMongoStatusStore(db.Client, db.DBName, "relay_runs", "relay_status")
	if err := s.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("EnsureIndexes() error: %v", err)
	}

	testStatusStore(t, s)
}
