package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 5 * time.Second

type statusDoc struct {
	Kind    model.DataKind     `bson:"_id"`
	Outcome model.RelayOutcome `bson:"outcome"`
}

// MongoStatusStore keeps runs in one collection and one status document per
// kind in another
type MongoStatusStore struct {
	runs   *mongo.Collection
	status *mongo.Collection
}

func NewMongoStatusStore(client *mongo.Client, dbName, runsColl, statusColl string) *MongoStatusStore {
	db := client.Database(dbName)
	return &MongoStatusStore{
		runs:   db.Collection(runsColl),
		status: db.Collection(statusColl),
	}
}

func (s *MongoStatusStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "started_at", Value: -1}},
		},
	}
	_, err := s.runs.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *MongoStatusStore) RecordRun(ctx context.Context, run model.RelayRun) error {
	if err := validateRun(run); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	if _, err := s.runs.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, o := range run.Outcomes {
		_, err := s.status.ReplaceOne(ctx,
			bson.M{"_id": o.Kind},
			statusDoc{Kind: o.Kind, Outcome: o},
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("upsert status %s: %w", o.Kind, err)
		}
	}
	return nil
}

func (s *MongoStatusStore) LatestOutcomes(ctx context.Context) (map[model.DataKind]model.RelayOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	cur, err := s.status.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find status: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	out := make(map[model.DataKind]model.RelayOutcome)
	for cur.Next(ctx) {
		var doc statusDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode status: %w", err)
		}
		out[doc.Kind] = doc.Outcome
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStatusStore) ListRuns(ctx context.Context, limit int) ([]model.RelayRun, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(listLimit(limit)))

	cur, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find runs: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var runs []model.RelayRun
	for cur.Next(ctx) {
		var run model.RelayRun
		if err := cur.Decode(&run); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *MongoStatusStore) Close() error {
	// MongoDB client is shared, no need to close here
	return nil
}
