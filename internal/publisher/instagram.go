package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	config "discord-social-bot/configs"
	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"
)

const (
	instagramGraphURL   = "https://graph.facebook.com/v18.0"
	instagramRefreshURL = "https://graph.instagram.com/refresh_access_token"
)

type InstagramPublisher struct {
	cfg    config.Config
	client *http.Client
}

func NewInstagramPublisher(cfg config.Config) *InstagramPublisher {
	return &InstagramPublisher{cfg: cfg, client: newHTTPClient()}
}

// Publish runs the two-step container flow: create a media container for
// the first URL, then publish it. Instagram has no text-only posts.
func (p *InstagramPublisher) Publish(ctx context.Context, creds *transfer.TokenBundle, content string, mediaURLs []string) (string, error) {
	if len(mediaURLs) == 0 {
		return "", &Error{Platform: models.PlatformInstagram, Reason: "instagram requires at least one media url"}
	}

	containerID, err := p.createContainer(ctx, creds.AccessToken, content, mediaURLs[0])
	if err != nil {
		return "", err
	}

	return p.publishContainer(ctx, creds.AccessToken, containerID)
}

func (p *InstagramPublisher) createContainer(ctx context.Context, accessToken, caption, mediaURL string) (string, error) {
	form := url.Values{}
	form.Set("image_url", mediaURL)
	form.Set("caption", caption)
	form.Set("access_token", accessToken)

	var result transfer.InstagramContainerResponse
	if err := p.postForm(ctx, instagramGraphURL+"/me/media", form, &result); err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", &Error{Platform: models.PlatformInstagram, Reason: result.Error.Message}
	}
	if result.ID == "" {
		return "", &Error{Platform: models.PlatformInstagram, Reason: "instagram returned no container id"}
	}
	return result.ID, nil
}

func (p *InstagramPublisher) publishContainer(ctx context.Context, accessToken, containerID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", accessToken)

	var result transfer.InstagramPublishResponse
	if err := p.postForm(ctx, instagramGraphURL+"/me/media_publish", form, &result); err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", &Error{Platform: models.PlatformInstagram, Reason: result.Error.Message}
	}
	if result.ID == "" {
		return "", &Error{Platform: models.PlatformInstagram, Reason: "instagram returned no post id"}
	}
	return result.ID, nil
}

func (p *InstagramPublisher) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return &Error{Platform: models.PlatformInstagram, Reason: "instagram request failed", Err: err}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Platform: models.PlatformInstagram, Reason: "invalid instagram response", Err: err}
	}
	return nil
}

// Refresh extends a long-lived Instagram token before it expires.
func (p *InstagramPublisher) Refresh(ctx context.Context, creds *transfer.TokenBundle) (string, string, int, error) {
	query := url.Values{}
	query.Set("grant_type", "ig_refresh_token")
	query.Set("access_token", creds.AccessToken)

	endpoint := instagramRefreshURL + "?" + query.Encode()

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return "", "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", 0, errors.New("instagram token refresh returned status " + resp.Status)
	}

	var token transfer.InstagramRefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", "", 0, err
	}

	return token.AccessToken, "", token.ExpiresIn, nil
}
