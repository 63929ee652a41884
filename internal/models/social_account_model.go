package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformTokens holds the stored credential set of an account. Both token
// fields are vault ciphertext; plaintext never reaches the store.
type PlatformTokens struct {
	AccessToken  string     `bson:"access_token" json:"access_token"`
	RefreshToken string     `bson:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Scope        string     `bson:"scope,omitempty" json:"scope,omitempty"`
}

type SocialMediaAccount struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Platform    Platform           `bson:"platform" json:"platform"`
	AccountName string             `bson:"account_name" json:"account_name"`
	AccountID   string             `bson:"account_id,omitempty" json:"account_id,omitempty"`
	Tokens      PlatformTokens     `bson:"tokens" json:"-"`
	ConnectedAt time.Time          `bson:"connected_at" json:"connected_at"`
	LastRefresh *time.Time         `bson:"last_refresh,omitempty" json:"last_refresh,omitempty"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
}
