package publisher

import (
	"context"
	"errors"
	"testing"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	postID   string
	err      error
	lastArgs struct {
		content   string
		mediaURLs []string
	}
}

func (s *stubPublisher) Publish(_ context.Context, _ *transfer.TokenBundle, content string, mediaURLs []string) (string, error) {
	s.lastArgs.content = content
	s.lastArgs.mediaURLs = mediaURLs
	return s.postID, s.err
}

type stubRefreshingPublisher struct {
	stubPublisher
}

func (s *stubRefreshingPublisher) Refresh(context.Context, *transfer.TokenBundle) (string, string, int, error) {
	return "new-access", "new-refresh", 3600, nil
}

func TestRouterDispatchesToRegisteredPublisher(t *testing.T) {
	stub := &stubPublisher{postID: "linkedin_test_123"}
	r := NewRouter()
	r.Register(models.PlatformLinkedin, stub)

	creds := &transfer.TokenBundle{AccessToken: "token"}
	postID, err := r.Publish(context.Background(), models.PlatformLinkedin, creds, "hello", []string{"https://cdn.example.com/a.png"})

	require.NoError(t, err)
	assert.Equal(t, "linkedin_test_123", postID)
	assert.Equal(t, "hello", stub.lastArgs.content)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, stub.lastArgs.mediaURLs)
}

func TestRouterUnknownPlatform(t *testing.T) {
	r := NewRouter()

	_, err := r.Publish(context.Background(), models.Platform("myspace"), &transfer.TokenBundle{}, "hello", nil)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "platform not supported", perr.Reason)
	assert.Equal(t, "platform not supported", err.Error())
}

func TestRouterKeepsTypedErrors(t *testing.T) {
	want := &Error{Platform: models.PlatformTiktok, Reason: "rate limited"}
	r := NewRouter()
	r.Register(models.PlatformTiktok, &stubPublisher{err: want})

	_, err := r.Publish(context.Background(), models.PlatformTiktok, &transfer.TokenBundle{}, "hello", nil)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "rate limited", perr.Error())
}

func TestRouterWrapsUntypedErrors(t *testing.T) {
	cause := errors.New("connection reset")
	r := NewRouter()
	r.Register(models.PlatformFacebook, &stubPublisher{err: cause})

	_, err := r.Publish(context.Background(), models.PlatformFacebook, &transfer.TokenBundle{}, "hello", nil)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, models.PlatformFacebook, perr.Platform)
	assert.ErrorIs(t, err, cause)
}

func TestRouterRefresher(t *testing.T) {
	r := NewRouter()
	r.Register(models.PlatformTiktok, &stubRefreshingPublisher{})
	r.Register(models.PlatformLinkedin, &stubPublisher{})

	refresher, ok := r.Refresher(models.PlatformTiktok)
	require.True(t, ok)

	access, refresh, expiresIn, err := refresher.Refresh(context.Background(), &transfer.TokenBundle{})
	require.NoError(t, err)
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "new-refresh", refresh)
	assert.Equal(t, 3600, expiresIn)

	_, ok = r.Refresher(models.PlatformLinkedin)
	assert.False(t, ok)

	_, ok = r.Refresher(models.Platform("myspace"))
	assert.False(t, ok)
}
