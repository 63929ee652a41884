package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DiscordID       string             `bson:"discord_id" json:"discord_id"`
	DiscordUsername string             `bson:"discord_username" json:"discord_username"`
	Role            string             `bson:"role" json:"role"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)
