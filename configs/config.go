package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	FacebookAppID         string
	FacebookAppSecret     string
	InstagramClientID     string
	InstagramClientSecret string
	LinkedinClientID      string
	LinkedinClientSecret  string
	TiktokClientKey       string
	TiktokClientSecret    string
	MongoURI              string
	DatabaseName          string
	PollInterval          time.Duration
	EncryptionKey         string
	R2                    R2
	SecretKey             string
	CookieName            string
	Port                  string
}

func LoadConfig() *Config {
	pollSeconds, err := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "10"))
	if err != nil || pollSeconds <= 0 {
		pollSeconds = 10
	}

	return &Config{
		FacebookAppID:         getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:     getEnv("FACEBOOK_APP_SECRET", ""),
		InstagramClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
		InstagramClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
		LinkedinClientID:      getEnv("LINKEDIN_CLIENT_ID", ""),
		LinkedinClientSecret:  getEnv("LINKEDIN_CLIENT_SECRET", ""),
		TiktokClientKey:       getEnv("TIKTOK_CLIENT_KEY", ""),
		TiktokClientSecret:    getEnv("TIKTOK_CLIENT_SECRET", ""),
		MongoURI:              getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DatabaseName:          getEnv("MONGODB_DATABASE", "media_tracker"),
		PollInterval:          time.Duration(pollSeconds) * time.Second,
		EncryptionKey:         getEnv("ENCRYPTION_KEY", ""),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "session_token"),
		Port:       getEnv("PORT", "3000"),
	}
}

// Validate fails closed on the settings the process cannot run without.
func (c *Config) Validate() error {
	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is not set")
	}
	if c.MongoURI == "" {
		return errors.New("MONGODB_URL is not set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
