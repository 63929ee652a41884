package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/publisher"
	"discord-social-bot/internal/transfer"
)

type stubPostRepo struct {
	posts     map[primitive.ObjectID]*models.ScheduledPost
	created   []*models.ScheduledPost
	cancelled []primitive.ObjectID
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[primitive.ObjectID]*models.ScheduledPost)}
}

func (s *stubPostRepo) Create(_ context.Context, post *models.ScheduledPost) (primitive.ObjectID, error) {
	post.ID = primitive.NewObjectID()
	s.created = append(s.created, post)
	s.posts[post.ID] = post
	return post.ID, nil
}

func (s *stubPostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.ScheduledPost, error) {
	return s.posts[id], nil
}

func (s *stubPostRepo) GetDuePosts(context.Context, time.Time) ([]*models.ScheduledPost, error) {
	return nil, nil
}

func (s *stubPostRepo) MarkPublished(context.Context, primitive.ObjectID, time.Time) (bool, error) {
	return false, nil
}

func (s *stubPostRepo) MarkFailed(context.Context, primitive.ObjectID, string) (bool, error) {
	return false, nil
}

func (s *stubPostRepo) ListByRequester(_ context.Context, discordID string) ([]*models.ScheduledPost, error) {
	var posts []*models.ScheduledPost
	for _, p := range s.posts {
		if p.RequestedBy == discordID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (s *stubPostRepo) Cancel(_ context.Context, id primitive.ObjectID) (bool, error) {
	post, ok := s.posts[id]
	if !ok || post.Status != models.PostStatusScheduled {
		return false, nil
	}
	post.Status = models.PostStatusCancelled
	s.cancelled = append(s.cancelled, id)
	return true, nil
}

func newTestPostService(t *testing.T, pr *stubPostRepo, ac *stubAccountRepo, al *stubActivityRepo) PostService {
	t.Helper()
	return NewPostService(pr, nil, ac, nil, al, publisher.NewRouter(), nil)
}

func connectedAccount(t *testing.T, repo *stubAccountRepo, platform models.Platform) *models.SocialMediaAccount {
	t.Helper()
	account := &models.SocialMediaAccount{
		Platform:    platform,
		AccountName: "acme",
	}
	_, err := repo.Create(context.Background(), account)
	require.NoError(t, err)
	return account
}

func TestCreatePostRejectsEmptySubmission(t *testing.T) {
	s := newTestPostService(t, newStubPostRepo(), newStubAccountRepo(), &stubActivityRepo{})

	_, err := s.CreatePost(context.Background(), "discord-user-1", nil, nil)
	assert.Error(t, err)

	_, err = s.CreatePost(context.Background(), "discord-user-1", &transfer.PostCreation{}, nil)
	assert.Error(t, err)
}

func TestCreatePostRejectsInvalidAccount(t *testing.T) {
	s := newTestPostService(t, newStubPostRepo(), newStubAccountRepo(), &stubActivityRepo{})

	_, err := s.CreatePost(context.Background(), "discord-user-1", &transfer.PostCreation{
		SocialAccountID: "not-a-hex-id",
		Content:         "hello",
	}, nil)
	assert.Error(t, err)

	_, err = s.CreatePost(context.Background(), "discord-user-1", &transfer.PostCreation{
		SocialAccountID: primitive.NewObjectID().Hex(),
		Content:         "hello",
	}, nil)
	assert.Error(t, err)
}

func TestCreatePostRejectsInactiveAccount(t *testing.T) {
	accounts := newStubAccountRepo()
	account := connectedAccount(t, accounts, models.PlatformFacebook)
	account.IsActive = false

	s := newTestPostService(t, newStubPostRepo(), accounts, &stubActivityRepo{})

	_, err := s.CreatePost(context.Background(), "discord-user-1", &transfer.PostCreation{
		SocialAccountID: account.ID.Hex(),
		Content:         "hello",
	}, nil)
	assert.Error(t, err)
}

func TestCreatePostRejectsBadScheduledTime(t *testing.T) {
	accounts := newStubAccountRepo()
	account := connectedAccount(t, accounts, models.PlatformFacebook)

	s := newTestPostService(t, newStubPostRepo(), accounts, &stubActivityRepo{})

	_, err := s.CreatePost(context.Background(), "discord-user-1", &transfer.PostCreation{
		SocialAccountID: account.ID.Hex(),
		Content:         "hello",
		ScheduledTime:   "tomorrow at noon",
	}, nil)
	assert.Error(t, err)
}

func TestCreatePostSchedules(t *testing.T) {
	accounts := newStubAccountRepo()
	account := connectedAccount(t, accounts, models.PlatformLinkedin)
	posts := newStubPostRepo()
	activity := &stubActivityRepo{}

	s := newTestPostService(t, posts, accounts, activity)

	id, err := s.CreatePost(context.Background(), "discord-user-1", &transfer.PostCreation{
		SocialAccountID: account.ID.Hex(),
		Content:         "launch announcement",
		ScheduledTime:   "2026-10-01T09:30",
	}, nil)
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	require.Len(t, posts.created, 1)
	created := posts.created[0]
	assert.Equal(t, models.PostStatusScheduled, created.Status)
	assert.Equal(t, models.PlatformLinkedin, created.Platform)
	assert.Equal(t, "discord-user-1", created.RequestedBy)
	assert.Equal(t, account.ID.Hex(), created.SocialAccountID)
	assert.Equal(t, models.DefaultMaxAttempts, created.MaxAttempts)
	assert.Equal(t, time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC), created.ScheduledTime)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActionPostScheduled, activity.entries[0].Action)
}

func TestCancelEnforcesOwnership(t *testing.T) {
	accounts := newStubAccountRepo()
	account := connectedAccount(t, accounts, models.PlatformLinkedin)
	posts := newStubPostRepo()

	s := newTestPostService(t, posts, accounts, &stubActivityRepo{})

	id, err := s.CreatePost(context.Background(), "discord-user-1", &transfer.PostCreation{
		SocialAccountID: account.ID.Hex(),
		Content:         "hello",
		ScheduledTime:   "2026-10-01T09:30",
	}, nil)
	require.NoError(t, err)

	err = s.Cancel(context.Background(), "someone-else", id)
	assert.Error(t, err)
	assert.Empty(t, posts.cancelled)

	err = s.Cancel(context.Background(), "discord-user-1", id)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusCancelled, posts.posts[id].Status)

	err = s.Cancel(context.Background(), "discord-user-1", id)
	assert.Error(t, err)
}
