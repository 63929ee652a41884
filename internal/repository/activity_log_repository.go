package repository

import (
	"context"
	"log/slog"
	"time"

	"discord-social-bot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityLogRepository interface {
	Log(ctx context.Context, entry *models.ActivityLog) error
	ListRecent(ctx context.Context, limit int64) ([]*models.ActivityLog, error)
	ListByDiscordID(ctx context.Context, discordID string, limit int64) ([]*models.ActivityLog, error)
}

type activityLogRepository struct {
	col *mongo.Collection
}

func NewActivityLogRepository(db *mongo.Database) ActivityLogRepository {
	return &activityLogRepository{col: db.Collection(ColActivityLogs)}
}

func (r *activityLogRepository) Log(ctx context.Context, entry *models.ActivityLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Details == nil {
		entry.Details = bson.M{}
	}

	_, err := r.col.InsertOne(ctx, entry)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *activityLogRepository) ListRecent(ctx context.Context, limit int64) ([]*models.ActivityLog, error) {
	return r.list(ctx, bson.M{}, limit)
}

func (r *activityLogRepository) ListByDiscordID(ctx context.Context, discordID string, limit int64) ([]*models.ActivityLog, error) {
	return r.list(ctx, bson.M{"discord_id": discordID}, limit)
}

func (r *activityLogRepository) list(ctx context.Context, filter bson.M, limit int64) ([]*models.ActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.ActivityLog
	if err := cursor.All(ctx, &entries); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return entries, nil
}
