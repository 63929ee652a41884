package repository

import (
	"context"
	"log/slog"
	"time"

	"discord-social-bot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ApiKeyRepository interface {
	GetByKey(ctx context.Context, apiKey string) (string, bool, error)
	GetByDiscordID(ctx context.Context, discordID string) ([]*models.ApiKey, error)
	Create(ctx context.Context, apiKey *models.ApiKey) (primitive.ObjectID, error)
	CheckByDiscordID(ctx context.Context, keyID primitive.ObjectID, discordID string) (bool, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
}

type apiKeyRepository struct {
	col *mongo.Collection
}

func NewApiKeyRepository(db *mongo.Database) ApiKeyRepository {
	return &apiKeyRepository{col: db.Collection(ColApiKeys)}
}

func (r *apiKeyRepository) GetByKey(ctx context.Context, apiKey string) (string, bool, error) {
	var key models.ApiKey
	err := r.col.FindOne(ctx, bson.M{"api_key": apiKey}).Decode(&key)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}
	return key.DiscordID, true, nil
}

func (r *apiKeyRepository) GetByDiscordID(ctx context.Context, discordID string) ([]*models.ApiKey, error) {
	cursor, err := r.col.Find(ctx, bson.M{"discord_id": discordID})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var keys []*models.ApiKey
	if err := cursor.All(ctx, &keys); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepository) Create(ctx context.Context, apiKey *models.ApiKey) (primitive.ObjectID, error) {
	if apiKey.CreatedAt.IsZero() {
		apiKey.CreatedAt = time.Now().UTC()
	}

	result, err := r.col.InsertOne(ctx, apiKey)
	if err != nil {
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *apiKeyRepository) CheckByDiscordID(ctx context.Context, keyID primitive.ObjectID, discordID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": keyID, "discord_id": discordID})
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return count > 0, nil
}

func (r *apiKeyRepository) Remove(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
