package repository

import (
	"context"
	"fmt"
	"time"

	"planche-service/internal/domain/entity"
	"planche-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUpdateRepository implements UpdateRepository
type MongoUpdateRepository struct {
	collection *mongo.Collection
}

// NewMongoUpdateRepository creates a new update audit repository
func NewMongoUpdateRepository(ctx context.Context, db *mongo.Database) (repository.UpdateRepository, error) {
	collection := db.Collection("roster_updates")

	// Unique index on updateId so a re-sent update is stored once
	updateIDIndex := mongo.IndexModel{
		Keys:    bson.M{"updateId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Compound index for re-send queries on one day
	dateIssuedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "issuedAt", Value: 1},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{updateIDIndex, dateIssuedIndex}); err != nil {
		return nil, fmt.Errorf("failed to create update indexes: %w", err)
	}

	return &MongoUpdateRepository{
		collection: collection,
	}, nil
}

// Save stores an applied update, ignoring duplicates of an already stored one
func (r *MongoUpdateRepository) Save(ctx context.Context, cmd entity.UpdateCommand) error {
	_, err := r.collection.InsertOne(ctx, cmd)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save update: %w", err)
	}
	return nil
}

// FindSince returns the updates of date issued after since, oldest first
func (r *MongoUpdateRepository) FindSince(ctx context.Context, date entity.Date, since time.Time) ([]entity.UpdateCommand, error) {
	filter := bson.M{
		"date":     date.String(),
		"issuedAt": bson.M{"$gt": since},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "issuedAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find updates: %w", err)
	}
	defer cursor.Close(ctx)

	updates := make([]entity.UpdateCommand, 0)
	if err := cursor.All(ctx, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	return updates, nil
}

// DeleteOlderThan removes every update issued before cutoff
func (r *MongoUpdateRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"issuedAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale updates: %w", err)
	}
	return result.DeletedCount, nil
}
