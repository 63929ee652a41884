package service

import (
	"context"
	"fmt"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/repository"
)

const defaultActivityLimit = 50

type ActivityService interface {
	Recent(ctx context.Context, limit int64) ([]*models.ActivityLog, error)
	ForUser(ctx context.Context, discordID string, limit int64) ([]*models.ActivityLog, error)
}

type activityService struct {
	al repository.ActivityLogRepository
}

func NewActivityService(al repository.ActivityLogRepository) ActivityService {
	return &activityService{al: al}
}

func (s *activityService) Recent(ctx context.Context, limit int64) ([]*models.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	entries, err := s.al.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing activity")
	}
	return entries, nil
}

func (s *activityService) ForUser(ctx context.Context, discordID string, limit int64) ([]*models.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	entries, err := s.al.ListByDiscordID(ctx, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing activity")
	}
	return entries, nil
}
