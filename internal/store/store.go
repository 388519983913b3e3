package store

import (
	"context"
	"errors"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
)

const DefaultListLimit = 20

var ErrInvalidRun = errors.New("invalid relay run")

// StatusStore keeps relay history and the latest outcome for each kind
type StatusStore interface {
	// RecordRun saves run and replaces the latest outcome of every kind it contains
	RecordRun(ctx context.Context, run model.RelayRun) error
	LatestOutcomes(ctx context.Context) (map[model.DataKind]model.RelayOutcome, error)
	// ListRuns returns runs newest first
	ListRuns(ctx context.Context, limit int) ([]model.RelayRun, error)
	Close() error
}

func validateRun(run model.RelayRun) error {
	if run.ID == "" {
		return errors.Join(ErrInvalidRun, errors.New("run id is empty"))
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
