package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLog is an append-only audit record. Entries are created once and
// never mutated.
type ActivityLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DiscordID       string             `bson:"discord_id" json:"discord_id"`
	Action          string             `bson:"action" json:"action"`
	SocialAccountID string             `bson:"social_account_id,omitempty" json:"social_account_id,omitempty"`
	Platform        Platform           `bson:"platform,omitempty" json:"platform,omitempty"`
	Details         bson.M             `bson:"details" json:"details"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`
}

const (
	ActionPostScheduled       = "post_scheduled"
	ActionPostPublished       = "post_published"
	ActionPostFailed          = "post_failed"
	ActionAccountConnected    = "account_connected"
	ActionAccountDisconnected = "account_disconnected"
)

// CommandLog records one command invocation from the command layer.
type CommandLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DiscordID    string             `bson:"discord_id" json:"discord_id"`
	CommandName  string             `bson:"command_name" json:"command_name"`
	CommandArgs  bson.M             `bson:"command_args" json:"command_args"`
	GuildID      string             `bson:"guild_id,omitempty" json:"guild_id,omitempty"`
	ChannelID    string             `bson:"channel_id,omitempty" json:"channel_id,omitempty"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	Success      bool               `bson:"success" json:"success"`
	ErrorMessage string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
}
