package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/publisher"
	"discord-social-bot/internal/repository"
	"discord-social-bot/internal/transfer"
)

const scheduledTimeLayout = "2006-01-02T15:04"

type PostService interface {
	CreatePost(ctx context.Context, discordID string, pc *transfer.PostCreation, files []*multipart.FileHeader) (primitive.ObjectID, error)
	List(ctx context.Context, discordID string) ([]*models.ScheduledPost, error)
	History(ctx context.Context, discordID string) ([]*models.PublishedPost, error)
	PostInfo(ctx context.Context, postID primitive.ObjectID, discordID string) (*models.ScheduledPost, error)
	Cancel(ctx context.Context, discordID string, postID primitive.ObjectID) error
}

type postService struct {
	pr     repository.PostRepository
	pp     repository.PublishedPostRepository
	ac     repository.SocialAccountRepository
	ma     repository.MediaAssetRepository
	al     repository.ActivityLogRepository
	router *publisher.Router
	r2     *R2Service
}

func NewPostService(
	pr repository.PostRepository,
	pp repository.PublishedPostRepository,
	ac repository.SocialAccountRepository,
	ma repository.MediaAssetRepository,
	al repository.ActivityLogRepository,
	router *publisher.Router,
	r2 *R2Service) PostService {
	return &postService{
		pr:     pr,
		pp:     pp,
		ac:     ac,
		ma:     ma,
		al:     al,
		router: router,
		r2:     r2,
	}
}

// CreatePost validates the submission, uploads any attached media, and
// either schedules the post or publishes it immediately when post_now is
// set. The returned id is the scheduled post's or the published record's.
func (s *postService) CreatePost(ctx context.Context, discordID string, pc *transfer.PostCreation, files []*multipart.FileHeader) (primitive.ObjectID, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return primitive.NilObjectID, err
	}
	if pc.Content == "" && len(files) == 0 {
		err := errors.New("post needs content or media")
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}

	account, err := s.resolveAccount(ctx, pc.SocialAccountID)
	if err != nil {
		return primitive.NilObjectID, err
	}

	var scheduledTime time.Time
	if !pc.PostNow {
		scheduledTime, err = time.Parse(scheduledTimeLayout, pc.ScheduledTime)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Info(err.Error())
			return primitive.NilObjectID, err
		}
		scheduledTime = scheduledTime.UTC()
	}

	mediaURLs, err := s.processFiles(ctx, discordID, files)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if pc.PostNow {
		return s.publishNow(ctx, discordID, account, pc.Content, mediaURLs)
	}

	post := &models.ScheduledPost{
		SocialAccountID: account.ID.Hex(),
		RequestedBy:     discordID,
		Platform:        account.Platform,
		Content:         pc.Content,
		MediaURLs:       mediaURLs,
		ScheduledTime:   scheduledTime,
		Status:          models.PostStatusScheduled,
		MaxAttempts:     models.DefaultMaxAttempts,
	}

	postID, err := s.pr.Create(ctx, post)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("error creating post: %w", err)
	}

	s.logActivity(ctx, discordID, account, models.ActionPostScheduled, bson.M{
		"post_id":        postID.Hex(),
		"scheduled_time": scheduledTime,
	})

	return postID, nil
}

func (s *postService) publishNow(ctx context.Context, discordID string, account *models.SocialMediaAccount, content string, mediaURLs []string) (primitive.ObjectID, error) {
	creds, err := s.ac.GetTokens(ctx, account.ID.Hex())
	if err != nil {
		return primitive.NilObjectID, err
	}
	if creds == nil {
		err = errors.New("no credentials for account")
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}

	platformPostID, err := s.router.Publish(ctx, account.Platform, creds, content, mediaURLs)
	if err != nil {
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}

	record := &models.PublishedPost{
		SocialAccountID: account.ID.Hex(),
		RequestedBy:     discordID,
		Platform:        account.Platform,
		Content:         content,
		MediaURLs:       mediaURLs,
		PlatformPostID:  platformPostID,
		PublishedAt:     time.Now().UTC(),
	}

	recordID, err := s.pp.Create(ctx, record)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("error saving published post: %w", err)
	}

	s.logActivity(ctx, discordID, account, models.ActionPostPublished, bson.M{
		"platform_post_id": platformPostID,
	})

	return recordID, nil
}

func (s *postService) resolveAccount(ctx context.Context, accountID string) (*models.SocialMediaAccount, error) {
	id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		err = errors.New("social account id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	account, err := s.ac.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.IsActive {
		err = errors.New("social account not found")
		slog.Info(err.Error())
		return nil, err
	}
	return account, nil
}

func (s *postService) processFiles(ctx context.Context, discordID string, files []*multipart.FileHeader) ([]string, error) {
	allowedTypes := map[string]struct{}{
		"mp4": {}, "mov": {}, "jpeg": {}, "png": {}, "jpg": {},
	}

	mediaURLs := make([]string, 0, len(files))
	for _, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening file: %w", err)
		}

		fileBytes, err := io.ReadAll(fileContent)
		fileContent.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return nil, fmt.Errorf("unsupported file type: %w", err)
		}
		if _, ok := allowedTypes[fileType.Extension]; !ok {
			return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
		}

		url, err := s.saveFile(ctx, discordID, file.Filename, fileType.MIME.Value, fileBytes)
		if err != nil {
			return nil, fmt.Errorf("error uploading file: %w", err)
		}
		mediaURLs = append(mediaURLs, url)
	}
	return mediaURLs, nil
}

func (s *postService) saveFile(ctx context.Context, discordID, fileName, fileType string, file []byte) (string, error) {
	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if err := s.r2.UploadToR2(ctx, key, file, fileType); err != nil {
		return "", err
	}

	fileURL := s.r2.PublicURL(key)

	ma := &models.MediaAsset{
		OwnerID:  discordID,
		FileName: fileName,
		FileType: fileType,
		FileSize: int64(len(file)),
		FileURL:  fileURL,
	}

	if _, err := s.ma.Create(ctx, ma); err != nil {
		return "", err
	}

	return fileURL, nil
}

func (s *postService) List(ctx context.Context, discordID string) ([]*models.ScheduledPost, error) {
	posts, err := s.pr.ListByRequester(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts")
	}
	return posts, nil
}

func (s *postService) History(ctx context.Context, discordID string) ([]*models.PublishedPost, error) {
	posts, err := s.pp.ListByRequester(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("error listing published posts")
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID primitive.ObjectID, discordID string) (*models.ScheduledPost, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info")
	}
	if post == nil || post.RequestedBy != discordID {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

// Cancel withdraws a still-scheduled post. Posts already published, failed
// or cancelled are left alone.
func (s *postService) Cancel(ctx context.Context, discordID string, postID primitive.ObjectID) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil || post.RequestedBy != discordID {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	cancelled, err := s.pr.Cancel(ctx, postID)
	if err != nil {
		return fmt.Errorf("error cancelling post")
	}
	if !cancelled {
		err = errors.New("post is no longer scheduled")
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *postService) logActivity(ctx context.Context, discordID string, account *models.SocialMediaAccount, action string, details bson.M) {
	entry := &models.ActivityLog{
		DiscordID:       discordID,
		Action:          action,
		SocialAccountID: account.ID.Hex(),
		Platform:        account.Platform,
		Details:         details,
	}
	if err := s.al.Log(ctx, entry); err != nil {
		slog.Info(err.Error())
	}
}
