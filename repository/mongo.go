package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

var indexes = map[string][]mongo.IndexModel{
	EventsCollection: {
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	},
	AchievementsCollection: {
		{Keys: bson.D{{Key: "date", Value: -1}, {Key: "isHighlighted", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	},
	FAQsCollection: {
		{Keys: bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}}},
	},
	TestimonialsCollection: {
		{Keys: bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
}

// EnsureIndexes creates the indexes the list queries sort and filter on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, specs := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
