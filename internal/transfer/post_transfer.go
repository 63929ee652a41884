package transfer

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PostCreation is what the command layer submits to schedule a post.
type PostCreation struct {
	SocialAccountID string `json:"social_account_id"`
	Content         string `json:"content"`
	ScheduledTime   string `json:"scheduled_time"`
	PostNow         bool   `json:"post_now"`
}

// AccountConnection carries the plaintext tokens of a freshly connected
// account. Tokens only live here until the account service encrypts them.
type AccountConnection struct {
	Platform     string     `json:"platform"`
	AccountName  string     `json:"account_name"`
	AccountID    string     `json:"account_id"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at"`
	Scope        string     `json:"scope"`
}

// TokenBundle is a decrypted credential set, resolved just-in-time for a
// publish call and never persisted.
type TokenBundle struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken *string    `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
