package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEnv names the variable holding a test MongoDB URI
const MongoEnv = "MONGO_TEST_URI"

// MongoDatabase is a throwaway database on the MongoDB named by MONGO_TEST_URI
type MongoDatabase struct {
	Client *mongo.Client
	DBName string
}

// NewMongoDatabase skips the test when no test MongoDB is configured or
// reachable. The database is dropped on cleanup.
func NewMongoDatabase(t *testing.T) *MongoDatabase {
	t.Helper()

	uri := os.Getenv(MongoEnv)
	if uri == "" {
		t.Skipf("set %s to run MongoDB tests", MongoEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB not available for testing: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("MongoDB not responding: %v", err)
	}

	m := &MongoDatabase{
		Client: client,
		DBName: "relay_test_" + time.Now().Format("20060102_150405_000000"),
	}
	t.Cleanup(func() { m.cleanup(t) })
	return m
}

func (m *MongoDatabase) cleanup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Database(m.DBName).Drop(ctx); err != nil {
		t.Logf("Warning: failed to drop test database %s: %v", m.DBName, err)
	}
	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("Warning: failed to disconnect from MongoDB: %v", err)
	}
}
