package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/repository"
	"discord-social-bot/internal/transfer"
	"discord-social-bot/pkg/vault"
)

type AccountService interface {
	Connect(ctx context.Context, discordID string, conn *transfer.AccountConnection) (primitive.ObjectID, error)
	Disconnect(ctx context.Context, discordID string, accountID primitive.ObjectID) error
	List(ctx context.Context) ([]*models.SocialMediaAccount, error)
	AccountInfo(ctx context.Context, accountID primitive.ObjectID) (*models.SocialMediaAccount, error)
}

type accountService struct {
	ac    repository.SocialAccountRepository
	al    repository.ActivityLogRepository
	vault *vault.Vault
}

func NewAccountService(ac repository.SocialAccountRepository, al repository.ActivityLogRepository, v *vault.Vault) AccountService {
	return &accountService{ac: ac, al: al, vault: v}
}

// Connect encrypts the submitted tokens and registers the account. The
// plaintext tokens live only inside this call.
func (s *accountService) Connect(ctx context.Context, discordID string, conn *transfer.AccountConnection) (primitive.ObjectID, error) {
	if conn == nil {
		err := errors.New("account connection data is nil")
		slog.Error(err.Error())
		return primitive.NilObjectID, err
	}

	platform, err := models.ParsePlatform(conn.Platform)
	if err != nil {
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}
	if conn.AccessToken == "" {
		err = errors.New("access token cannot be empty")
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}

	accessToken, err := s.vault.Encrypt(conn.AccessToken)
	if err != nil {
		slog.Info(err.Error())
		return primitive.NilObjectID, fmt.Errorf("error encrypting tokens")
	}

	tokens := models.PlatformTokens{
		AccessToken: accessToken,
		ExpiresAt:   conn.ExpiresAt,
		Scope:       conn.Scope,
	}

	if conn.RefreshToken != "" {
		refreshToken, err := s.vault.Encrypt(conn.RefreshToken)
		if err != nil {
			slog.Info(err.Error())
			return primitive.NilObjectID, fmt.Errorf("error encrypting tokens")
		}
		tokens.RefreshToken = refreshToken
	}

	account := &models.SocialMediaAccount{
		Platform:    platform,
		AccountName: conn.AccountName,
		AccountID:   conn.AccountID,
		Tokens:      tokens,
	}

	id, err := s.ac.Create(ctx, account)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("error saving account")
	}

	s.logActivity(ctx, discordID, id, platform, models.ActionAccountConnected, bson.M{
		"account_name": conn.AccountName,
	})

	return id, nil
}

// Disconnect deactivates an account. Scheduled posts pointing at it will
// fail with no credentials when they come due; they are not cancelled here.
func (s *accountService) Disconnect(ctx context.Context, discordID string, accountID primitive.ObjectID) error {
	account, err := s.ac.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil || !account.IsActive {
		err = errors.New("social account not found")
		slog.Info(err.Error())
		return err
	}

	deactivated, err := s.ac.Deactivate(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error disconnecting account")
	}
	if !deactivated {
		err = errors.New("social account not found")
		slog.Info(err.Error())
		return err
	}

	s.logActivity(ctx, discordID, accountID, account.Platform, models.ActionAccountDisconnected, bson.M{
		"account_name": account.AccountName,
	})

	return nil
}

func (s *accountService) List(ctx context.Context) ([]*models.SocialMediaAccount, error) {
	accounts, err := s.ac.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts")
	}
	return accounts, nil
}

func (s *accountService) AccountInfo(ctx context.Context, accountID primitive.ObjectID) (*models.SocialMediaAccount, error) {
	account, err := s.ac.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error getting account info")
	}
	if account == nil {
		err = errors.New("social account not found")
		slog.Info(err.Error())
		return nil, err
	}
	return account, nil
}

func (s *accountService) logActivity(ctx context.Context, discordID string, accountID primitive.ObjectID, platform models.Platform, action string, details bson.M) {
	entry := &models.ActivityLog{
		DiscordID:       discordID,
		Action:          action,
		SocialAccountID: accountID.Hex(),
		Platform:        platform,
		Details:         details,
	}
	if err := s.al.Log(ctx, entry); err != nil {
		slog.Info(err.Error())
	}
}
