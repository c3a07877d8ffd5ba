package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/invmis/internal/domain/models"
)

const snapshotCollection = "alert_snapshots"

// ErrSnapshotNotFound is returned when no scan has been recorded yet.
var ErrSnapshotNotFound = errors.New("alert snapshot not found")

// Repository defines the interface for alert snapshot storage.
type Repository interface {
	SaveSnapshot(ctx context.Context, snapshot models.AlertSnapshot) error
	LatestSnapshot(ctx context.Context) (models.AlertSnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: snapshotCollection,
	}

	index := mongo.IndexModel{Keys: bson.D{{Key: "taken_at", Value: -1}}}
	if _, err := repo.collection().Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("failed to create snapshot index: %w", err)
	}

	return repo, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveSnapshot stores the result of one alert scan.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.AlertSnapshot) error {
	if _, err := r.collection().InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert alert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent scan.
func (r *MongoDBRepository) LatestSnapshot(ctx context.Context) (models.AlertSnapshot, error) {
	var snapshot models.AlertSnapshot

	opts := options.FindOne().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	err := r.collection().FindOne(ctx, bson.D{}, opts).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AlertSnapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return models.AlertSnapshot{}, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	return snapshot, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
