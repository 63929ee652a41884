package repository

import (
	"context"
	"log/slog"
	"time"

	"discord-social-bot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type CommandLogRepository interface {
	Log(ctx context.Context, entry *models.CommandLog) error
}

type commandLogRepository struct {
	col *mongo.Collection
}

func NewCommandLogRepository(db *mongo.Database) CommandLogRepository {
	return &commandLogRepository{col: db.Collection(ColCommandLogs)}
}

func (r *commandLogRepository) Log(ctx context.Context, entry *models.CommandLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.CommandArgs == nil {
		entry.CommandArgs = bson.M{}
	}

	_, err := r.col.InsertOne(ctx, entry)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
