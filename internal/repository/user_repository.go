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

type UserRepository interface {
	GetOrCreate(ctx context.Context, discordID, discordUsername string) (*models.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
}

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(ColUsers)}
}

func (r *userRepository) GetOrCreate(ctx context.Context, discordID, discordUsername string) (*models.User, error) {
	user, err := r.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	now := time.Now().UTC()
	user = &models.User{
		DiscordID:       discordID,
		DiscordUsername: discordUsername,
		Role:            models.RoleMember,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	result, err := r.col.InsertOne(ctx, user)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"discord_id": discordID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &user, nil
}
