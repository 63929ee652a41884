package publisher

import (
	"context"
	"errors"
	"net/http"
	"time"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"
)

// PlatformPublisher is the capability one social network implements.
// Publish returns the platform-assigned post id. Publishing is
// at-least-once: the platforms accept no idempotency key, so a caller that
// retries may post twice externally.
type PlatformPublisher interface {
	Publish(ctx context.Context, creds *transfer.TokenBundle, content string, mediaURLs []string) (string, error)
}

// TokenRefresher is implemented by clients whose platform supports
// exchanging a credential set for a fresh one.
type TokenRefresher interface {
	Refresh(ctx context.Context, creds *transfer.TokenBundle) (accessToken, refreshToken string, expiresIn int, err error)
}

// Error is an expected publish failure: network trouble, auth, rate limit,
// unsupported platform. Anything else propagating out of a client is a
// programming error.
type Error struct {
	Platform models.Platform
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Router dispatches a publish call to the client registered for the post's
// platform. Registration happens once at startup.
type Router struct {
	publishers map[models.Platform]PlatformPublisher
}

func NewRouter() *Router {
	return &Router{publishers: make(map[models.Platform]PlatformPublisher)}
}

func (r *Router) Register(platform models.Platform, p PlatformPublisher) {
	r.publishers[platform] = p
}

func (r *Router) Publish(ctx context.Context, platform models.Platform, creds *transfer.TokenBundle, content string, mediaURLs []string) (string, error) {
	p, ok := r.publishers[platform]
	if !ok {
		return "", &Error{Platform: platform, Reason: "platform not supported"}
	}

	postID, err := p.Publish(ctx, creds, content, mediaURLs)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			return "", err
		}
		return "", &Error{Platform: platform, Reason: err.Error(), Err: err}
	}

	return postID, nil
}

// Refresher reports the registered refresh capability for a platform, if
// its client has one.
func (r *Router) Refresher(platform models.Platform) (TokenRefresher, bool) {
	p, ok := r.publishers[platform]
	if !ok {
		return nil, false
	}
	refresher, ok := p.(TokenRefresher)
	return refresher, ok
}

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 1
	retryBackoff   = time.Second
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// doWithRetry retries transient failures (transport errors and 5xx) once
// with a fixed backoff before giving up. The request is rebuilt per attempt
// so bodies are replayable.
func doWithRetry(client *http.Client, build func() (*http.Request, error)) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, err
		}
		if err == nil {
			resp.Body.Close()
		}
		time.Sleep(retryBackoff)
	}
}
