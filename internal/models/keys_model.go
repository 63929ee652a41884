package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApiKey struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DiscordID string             `bson:"discord_id" json:"discord_id"`
	ApiKey    string             `bson:"api_key" json:"api_key"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
