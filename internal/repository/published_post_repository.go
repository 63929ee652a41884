package repository

import (
	"context"
	"log/slog"
	"time"

	"discord-social-bot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PublishedPostRepository interface {
	Create(ctx context.Context, post *models.PublishedPost) (primitive.ObjectID, error)
	ListByRequester(ctx context.Context, discordID string) ([]*models.PublishedPost, error)
}

type publishedPostRepository struct {
	col *mongo.Collection
}

func NewPublishedPostRepository(db *mongo.Database) PublishedPostRepository {
	return &publishedPostRepository{col: db.Collection(ColPublishedPosts)}
}

func (r *publishedPostRepository) Create(ctx context.Context, post *models.PublishedPost) (primitive.ObjectID, error) {
	if post.PublishedAt.IsZero() {
		post.PublishedAt = time.Now().UTC()
	}
	if post.MediaURLs == nil {
		post.MediaURLs = []string{}
	}

	result, err := r.col.InsertOne(ctx, post)
	if err != nil {
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *publishedPostRepository) ListByRequester(ctx context.Context, discordID string) ([]*models.PublishedPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{"requested_by_discord_id": discordID}, opts)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*models.PublishedPost
	if err := cursor.All(ctx, &posts); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}
