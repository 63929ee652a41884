package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduledPost is one unit of work for the scheduler. The scheduler owns
// status, attempts, error_message and published_at once the post exists.
type ScheduledPost struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SocialAccountID string             `bson:"social_account_id" json:"social_account_id"`
	RequestedBy     string             `bson:"requested_by_discord_id" json:"requested_by_discord_id"`
	Platform        Platform           `bson:"platform" json:"platform"`
	Content         string             `bson:"content" json:"content"`
	MediaURLs       []string           `bson:"media_urls" json:"media_urls"`
	ScheduledTime   time.Time          `bson:"scheduled_time" json:"scheduled_time"`
	Status          PostStatus         `bson:"status" json:"status"`
	PublishedAt     *time.Time         `bson:"published_at,omitempty" json:"published_at,omitempty"`
	ErrorMessage    string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	Attempts        int                `bson:"attempts" json:"attempts"`
	MaxAttempts     int                `bson:"max_attempts" json:"max_attempts"`
}

// PublishedPost records a post that went out through the immediate path,
// or a scheduled post after the scheduler published it.
type PublishedPost struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SocialAccountID string             `bson:"social_account_id" json:"social_account_id"`
	RequestedBy     string             `bson:"requested_by_discord_id" json:"requested_by_discord_id"`
	Platform        Platform           `bson:"platform" json:"platform"`
	Content         string             `bson:"content" json:"content"`
	MediaURLs       []string           `bson:"media_urls" json:"media_urls"`
	PlatformPostID  string             `bson:"platform_post_id" json:"platform_post_id"`
	PublishedAt     time.Time          `bson:"published_at" json:"published_at"`
}

type MediaAsset struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"owner_discord_id" json:"owner_discord_id"`
	FileName  string             `bson:"file_name" json:"file_name"`
	FileType  string             `bson:"file_type" json:"file_type"`
	FileSize  int64              `bson:"file_size" json:"file_size"`
	FileURL   string             `bson:"file_url" json:"file_url"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type PostStatus string

const (
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
	PostStatusCancelled PostStatus = "cancelled"
)

const DefaultMaxAttempts = 3
