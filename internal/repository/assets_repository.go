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

type MediaAssetRepository interface {
	Create(ctx context.Context, ma *models.MediaAsset) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.MediaAsset, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
}

type mediaAssetRepository struct {
	col *mongo.Collection
}

func NewMediaAssetRepository(db *mongo.Database) MediaAssetRepository {
	return &mediaAssetRepository{col: db.Collection(ColMediaAssets)}
}

func (r *mediaAssetRepository) Create(ctx context.Context, ma *models.MediaAsset) (primitive.ObjectID, error) {
	if ma.CreatedAt.IsZero() {
		ma.CreatedAt = time.Now().UTC()
	}

	result, err := r.col.InsertOne(ctx, ma)
	if err != nil {
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MediaAsset, error) {
	var ma models.MediaAsset
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ma)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &ma, nil
}

func (r *mediaAssetRepository) Remove(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
