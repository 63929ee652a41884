package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/publisher"
	"discord-social-bot/internal/repository"
	"discord-social-bot/internal/service"
	"discord-social-bot/pkg/vault"
)

// TokenRefreshJob renews credentials that expire within the next window.
// It runs on a cron schedule, separate from the post scheduler.
type TokenRefreshJob struct {
	sr     repository.SocialAccountRepository
	router *publisher.Router
	vault  *vault.Vault
}

func NewTokenRefreshJob(sr repository.SocialAccountRepository, router *publisher.Router, v *vault.Vault) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr:     sr,
		router: router,
		vault:  v,
	}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now().UTC()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialMediaAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.refreshAccount(ctx, acc); err != nil {
				slog.Info("unable to refresh tokens for " + string(acc.Platform) + " account " + acc.ID.Hex())
			}
		}(acc)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refreshAccount(ctx context.Context, acc *models.SocialMediaAccount) error {
	refresher, ok := c.router.Refresher(acc.Platform)
	if !ok {
		return nil
	}

	creds, err := c.sr.GetTokens(ctx, acc.ID.Hex())
	if err != nil {
		return err
	}
	if creds == nil {
		return nil
	}

	accessToken, refreshToken, expiresIn, err := refresher.Refresh(ctx, creds)
	if err != nil {
		return err
	}

	encryptedAccess, err := c.vault.Encrypt(accessToken)
	if err != nil {
		return err
	}

	tokens := models.PlatformTokens{
		AccessToken: encryptedAccess,
		Scope:       acc.Tokens.Scope,
	}

	if refreshToken == "" && creds.RefreshToken != nil {
		// Platform did not rotate the refresh token; keep the stored one.
		tokens.RefreshToken = acc.Tokens.RefreshToken
	} else if refreshToken != "" {
		encryptedRefresh, err := c.vault.Encrypt(refreshToken)
		if err != nil {
			return err
		}
		tokens.RefreshToken = encryptedRefresh
	}

	if expiresIn > 0 {
		expiresAt := service.GetExpiresAt(expiresIn)
		tokens.ExpiresAt = &expiresAt
	}

	return c.sr.SetTokens(ctx, acc.ID, tokens)
}
