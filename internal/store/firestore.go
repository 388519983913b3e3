package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"google.golang.org/api/iterator"
)

type FirestoreStatusStore struct {
	client     *firestore.Client
	runsColl   string
	statusColl string
}

func NewFirestoreStatusStore(ctx context.Context, projectID, runsColl, statusColl string) (*FirestoreStatusStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStatusStore{
		client:     client,
		runsColl:   runsColl,
		statusColl: statusColl,
	}, nil
}

func (s *FirestoreStatusStore) RecordRun(ctx context.Context, run model.RelayRun) error {
	if err := validateRun(run); err != nil {
		return err
	}

	batch := s.client.Batch()
	batch.Set(s.client.Collection(s.runsColl).Doc(run.ID), run)
	for _, o := range run.Outcomes {
		batch.Set(s.client.Collection(s.statusColl).Doc(string(o.Kind)), o)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *FirestoreStatusStore) LatestOutcomes(ctx context.Context) (map[model.DataKind]model.RelayOutcome, error) {
	iter := s.client.Collection(s.statusColl).Documents(ctx)
	defer iter.Stop()

	out := make(map[model.DataKind]model.RelayOutcome)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate status: %w", err)
		}

		var o model.RelayOutcome
		if err := doc.DataTo(&o); err != nil {
			return nil, fmt.Errorf("decode status: %w", err)
		}
		out[o.Kind] = o
	}
	return out, nil
}

func (s *FirestoreStatusStore) ListRuns(ctx context.Context, limit int) ([]model.RelayRun, error) {
	iter := s.client.Collection(s.runsColl).
		OrderBy("started_at", firestore.Desc).
		Limit(listLimit(limit)).
		Documents(ctx)
	defer iter.Stop()

	var runs []model.RelayRun
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate runs: %w", err)
		}

		var run model.RelayRun
		if err := doc.DataTo(&run); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *FirestoreStatusStore) Close() error {
	return s.client.Close()
}
