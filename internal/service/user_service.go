package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/repository"
)

type UserService interface {
	GetOrCreate(ctx context.Context, discordID, discordUsername string) (*models.User, error)
	GetUserInfo(ctx context.Context, discordID string) (*models.User, error)
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

func (s *userService) GetOrCreate(ctx context.Context, discordID, discordUsername string) (*models.User, error) {
	if discordID == "" {
		err := errors.New("discord id cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}

	user, err := s.u.GetOrCreate(ctx, discordID, discordUsername)
	if err != nil {
		return nil, fmt.Errorf("error getting user info")
	}
	return user, nil
}

func (s *userService) GetUserInfo(ctx context.Context, discordID string) (*models.User, error) {
	user, err := s.u.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("error getting user info")
	}
	if user == nil {
		err = errors.New("user not found")
		slog.Info(err.Error())
		return nil, err
	}
	return user, nil
}
