package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubPostStore struct {
	due       []*models.ScheduledPost
	dueErr    error
	dueCalls  int
	published map[primitive.ObjectID]time.Time
	failed    map[primitive.ObjectID]string
}

func newStubPostStore(due ...*models.ScheduledPost) *stubPostStore {
	return &stubPostStore{
		due:       due,
		published: make(map[primitive.ObjectID]time.Time),
		failed:    make(map[primitive.ObjectID]string),
	}
}

func (s *stubPostStore) GetDuePosts(context.Context, time.Time) ([]*models.ScheduledPost, error) {
	s.dueCalls++
	return s.due, s.dueErr
}

func (s *stubPostStore) MarkPublished(_ context.Context, id primitive.ObjectID, publishedAt time.Time) (bool, error) {
	if _, ok := s.published[id]; ok {
		return false, nil
	}
	s.published[id] = publishedAt
	return true, nil
}

func (s *stubPostStore) MarkFailed(_ context.Context, id primitive.ObjectID, errorMessage string) (bool, error) {
	if _, ok := s.failed[id]; ok {
		return false, nil
	}
	s.failed[id] = errorMessage
	return true, nil
}

type stubCredentialSource struct {
	bundles map[string]*transfer.TokenBundle
	err     error
}

func (s *stubCredentialSource) GetTokens(_ context.Context, accountID string) (*transfer.TokenBundle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bundles[accountID], nil
}

type stubPublishedStore struct {
	records []*models.PublishedPost
}

func (s *stubPublishedStore) Create(_ context.Context, post *models.PublishedPost) (primitive.ObjectID, error) {
	s.records = append(s.records, post)
	return primitive.NewObjectID(), nil
}

type stubActivityRecorder struct {
	entries []*models.ActivityLog
}

func (s *stubActivityRecorder) Log(_ context.Context, entry *models.ActivityLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

type stubRouter struct {
	postID string
	errFor map[string]error
	order  []string
}

func (s *stubRouter) Publish(_ context.Context, platform models.Platform, _ *transfer.TokenBundle, content string, _ []string) (string, error) {
	s.order = append(s.order, content)
	if err, ok := s.errFor[content]; ok {
		return "", err
	}
	return s.postID, nil
}

type stubPinger struct {
	err   error
	calls int
}

func (s *stubPinger) Ping(context.Context) error {
	s.calls++
	return s.err
}

func duePost(accountID string) *models.ScheduledPost {
	return &models.ScheduledPost{
		ID:              primitive.NewObjectID(),
		SocialAccountID: accountID,
		RequestedBy:     "discord-user-1",
		Platform:        models.PlatformLinkedin,
		Content:         "hello world",
		MediaURLs:       []string{},
		ScheduledTime:   time.Now().UTC().Add(-time.Minute),
		Status:          models.PostStatusScheduled,
		MaxAttempts:     models.DefaultMaxAttempts,
	}
}

func newTestScheduler(store *stubPostStore, creds *stubCredentialSource, published *stubPublishedStore, activity *stubActivityRecorder, router *stubRouter, pinger *stubPinger) *Scheduler {
	var p Pinger
	if pinger != nil {
		p = pinger
	}
	return New(10*time.Second, store, creds, published, activity, router, p)
}

func TestRunCyclePublishesDuePost(t *testing.T) {
	post := duePost("acct-1")
	store := newStubPostStore(post)
	creds := &stubCredentialSource{bundles: map[string]*transfer.TokenBundle{
		"acct-1": {AccessToken: "token"},
	}}
	published := &stubPublishedStore{}
	activity := &stubActivityRecorder{}
	router := &stubRouter{postID: "linkedin_test_123"}

	s := newTestScheduler(store, creds, published, activity, router, nil)
	s.RunCycle(context.Background())

	publishedAt, ok := store.published[post.ID]
	require.True(t, ok)
	assert.False(t, publishedAt.IsZero())
	assert.Empty(t, store.failed)

	require.Len(t, published.records, 1)
	assert.Equal(t, "linkedin_test_123", published.records[0].PlatformPostID)
	assert.Equal(t, "discord-user-1", published.records[0].RequestedBy)

	require.Len(t, activity.entries, 1)
	entry := activity.entries[0]
	assert.Equal(t, models.ActionPostPublished, entry.Action)
	assert.Equal(t, "linkedin_test_123", entry.Details["platform_post_id"])
	assert.Equal(t, "discord-user-1", entry.DiscordID)
}

func TestRunCycleMarksFailureWithReason(t *testing.T) {
	post := duePost("acct-1")
	store := newStubPostStore(post)
	creds := &stubCredentialSource{bundles: map[string]*transfer.TokenBundle{
		"acct-1": {AccessToken: "token"},
	}}
	activity := &stubActivityRecorder{}
	router := &stubRouter{errFor: map[string]error{"hello world": errors.New("rate limited")}}

	s := newTestScheduler(store, creds, &stubPublishedStore{}, activity, router, nil)
	s.RunCycle(context.Background())

	assert.Empty(t, store.published)
	assert.Equal(t, "rate limited", store.failed[post.ID])

	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActionPostFailed, activity.entries[0].Action)
	assert.Equal(t, "rate limited", activity.entries[0].Details["error"])
}

func TestRunCycleFailsPostWithoutCredentials(t *testing.T) {
	post := duePost("acct-missing")
	store := newStubPostStore(post)
	creds := &stubCredentialSource{bundles: map[string]*transfer.TokenBundle{}}
	router := &stubRouter{postID: "never"}

	s := newTestScheduler(store, creds, &stubPublishedStore{}, &stubActivityRecorder{}, router, nil)
	s.RunCycle(context.Background())

	assert.Empty(t, router.order)
	assert.Equal(t, "no credentials for account", store.failed[post.ID])
}

func TestRunCycleIsolatesFailures(t *testing.T) {
	first := duePost("acct-1")
	second := duePost("acct-1")
	second.Content = "second post"
	third := duePost("acct-1")
	third.Content = "third post"

	store := newStubPostStore(first, second, third)
	creds := &stubCredentialSource{bundles: map[string]*transfer.TokenBundle{
		"acct-1": {AccessToken: "token"},
	}}
	router := &stubRouter{
		postID: "ok-id",
		errFor: map[string]error{"second post": errors.New("boom")},
	}

	s := newTestScheduler(store, creds, &stubPublishedStore{}, &stubActivityRecorder{}, router, nil)
	s.RunCycle(context.Background())

	assert.Equal(t, []string{"hello world", "second post", "third post"}, router.order)
	assert.Contains(t, store.published, first.ID)
	assert.Contains(t, store.published, third.ID)
	assert.Equal(t, "boom", store.failed[second.ID])
}

func TestRunCycleAnnouncesIdleOnce(t *testing.T) {
	store := newStubPostStore()
	s := newTestScheduler(store, &stubCredentialSource{}, &stubPublishedStore{}, &stubActivityRecorder{}, &stubRouter{}, nil)

	s.RunCycle(context.Background())
	assert.True(t, s.idle)

	s.RunCycle(context.Background())
	assert.True(t, s.idle)

	store.due = []*models.ScheduledPost{duePost("acct-1")}
	s.RunCycle(context.Background())
	assert.False(t, s.idle)
}

func TestRunCycleAbortsWhenStoreUnreachable(t *testing.T) {
	store := newStubPostStore(duePost("acct-1"))
	pinger := &stubPinger{err: errors.New("server selection timeout")}

	s := newTestScheduler(store, &stubCredentialSource{}, &stubPublishedStore{}, &stubActivityRecorder{}, &stubRouter{}, pinger)
	s.RunCycle(context.Background())

	assert.Equal(t, 1, pinger.calls)
	assert.Zero(t, store.dueCalls)
	assert.Empty(t, store.published)
	assert.Empty(t, store.failed)
}

func TestStartStopDrainsCleanly(t *testing.T) {
	store := newStubPostStore()
	s := New(10*time.Millisecond, store, &stubCredentialSource{}, &stubPublishedStore{}, &stubActivityRecorder{}, &stubRouter{}, nil)

	s.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, store.dueCalls, 1)
}
