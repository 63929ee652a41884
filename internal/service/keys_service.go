package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/repository"
	"discord-social-bot/pkg/utils"
)

type ApiKeyService interface {
	Create(ctx context.Context, discordID string) error
	List(ctx context.Context, discordID string) ([]*models.ApiKey, error)
	GetDiscordID(ctx context.Context, apiKey string) (string, error)
	RemoveAPIKey(ctx context.Context, discordID string, keyID primitive.ObjectID) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, discordID string) error {

	keys, err := s.k.GetByDiscordID(ctx, discordID)
	if err != nil {
		return err
	}

	if len(keys) > 4 {
		err = errors.New("only 5 API keys can be created")
		slog.Info(err.Error())
		return err
	}

	key, err := utils.GenerateRandomKey(16)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("error generating API key")
	}

	apiKey := &models.ApiKey{
		DiscordID: discordID,
		ApiKey:    key,
	}

	_, err = s.k.Create(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("error saving API key")
	}
	return nil
}

func (s *apiKeyService) GetDiscordID(ctx context.Context, apiKey string) (string, error) {
	discordID, isExist, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return "", err
	}

	if !isExist {
		err = errors.New("key doesn't exist")
		return "", err
	}

	return discordID, nil
}

func (s *apiKeyService) List(ctx context.Context, discordID string) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys")
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, discordID string, keyID primitive.ObjectID) error {
	var err error

	if discordID == "" {
		err = errors.New("discord id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.k.CheckByDiscordID(ctx, keyID, discordID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("key doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.k.Remove(ctx, keyID)
	if err != nil {
		return err
	}
	return nil
}
