// Package results provides an optional MongoDB archive of benchmark runs
// for tracking performance across runs and machines.
package results

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spatialbench/spatialbench-go/internal/bench"
)

// Run is one archived benchmark run.
type Run struct {
	RunID       string        `bson:"run_id" json:"run_id"`
	Benchmark   string        `bson:"benchmark" json:"benchmark"`
	Version     string        `bson:"version" json:"version"`
	GeneratedAt string        `bson:"generated_at" json:"generated_at"`
	Suites      []bench.Suite `bson:"suites" json:"suites"`
	ArchivedAt  time.Time     `bson:"archived_at" json:"archived_at"`
}

// Store archives benchmark runs in MongoDB.
type Store struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewStore connects to MongoDB and prepares the runs collection.
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := &Store{
		client: client,
		runs:   client.Database(dbName).Collection("benchmark_runs"),
	}

	if err := store.createIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	_, err := s.runs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "archived_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "suites.engine", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create benchmark_runs indexes: %w", err)
	}
	return nil
}

// Archive stores the results of a completed run.
func (s *Store) Archive(ctx context.Context, file *bench.File) error {
	run := Run{
		RunID:       file.RunID,
		Benchmark:   file.Benchmark,
		Version:     file.Version,
		GeneratedAt: file.GeneratedAt,
		Suites:      file.Results,
		ArchivedAt:  time.Now().UTC(),
	}
	if _, err := s.runs.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to archive run %s: %w", file.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int64) ([]Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "archived_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.runs.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// Get fetches one archived run by ID.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	var run Run
	err := s.runs.FindOne(ctx, bson.D{{Key: "run_id", Value: runID}}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return &run, nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
