package repository

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// One logical collection per persisted entity.
const (
	ColUsers          = "users"
	ColSocialAccounts = "social_accounts"
	ColScheduledPosts = "scheduled_posts"
	ColPublishedPosts = "published_posts"
	ColActivityLogs   = "activity_logs"
	ColCommandLogs    = "command_logs"
	ColMediaAssets    = "media_assets"
	ColApiKeys        = "api_keys"
)

var ErrNotFound = errors.New("not found")

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	log.Println("Connected to MongoDB")
	return client, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ColUsers: {
			{Keys: bson.D{{Key: "discord_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColSocialAccounts: {
			{Keys: bson.D{{Key: "platform", Value: 1}}},
			{Keys: bson.D{{Key: "account_name", Value: 1}}},
			{Keys: bson.D{{Key: "tokens.expires_at", Value: 1}}},
		},
		ColScheduledPosts: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "scheduled_time", Value: 1}}},
		},
		ColActivityLogs: {
			{Keys: bson.D{{Key: "discord_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
		ColApiKeys: {
			{Keys: bson.D{{Key: "api_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}
