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

const facebookGraphURL = "https://graph.facebook.com/v18.0"

type FacebookPublisher struct {
	cfg    config.Config
	client *http.Client
}

func NewFacebookPublisher(cfg config.Config) *FacebookPublisher {
	return &FacebookPublisher{cfg: cfg, client: newHTTPClient()}
}

// Publish posts to the page feed behind the account's page token. A single
// media URL becomes a photo post; everything else is a text/feed post with
// the first URL attached as a link.
func (p *FacebookPublisher) Publish(ctx context.Context, creds *transfer.TokenBundle, content string, mediaURLs []string) (string, error) {
	endpoint := facebookGraphURL + "/me/feed"
	form := url.Values{}
	form.Set("message", content)
	form.Set("access_token", creds.AccessToken)

	if len(mediaURLs) == 1 {
		endpoint = facebookGraphURL + "/me/photos"
		form.Set("url", mediaURLs[0])
		form.Set("caption", content)
		form.Del("message")
	} else if len(mediaURLs) > 1 {
		form.Set("link", mediaURLs[0])
	}

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return "", &Error{Platform: models.PlatformFacebook, Reason: "facebook request failed", Err: err}
	}
	defer resp.Body.Close()

	var result transfer.FacebookPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &Error{Platform: models.PlatformFacebook, Reason: "invalid facebook response", Err: err}
	}

	if resp.StatusCode != http.StatusOK || result.Error.Message != "" {
		reason := result.Error.Message
		if reason == "" {
			reason = "facebook returned status " + resp.Status
		}
		return "", &Error{Platform: models.PlatformFacebook, Reason: reason}
	}

	if result.PostID != "" {
		return result.PostID, nil
	}
	if result.ID == "" {
		return "", &Error{Platform: models.PlatformFacebook, Reason: "facebook returned no post id"}
	}
	return result.ID, nil
}

// Refresh exchanges the current token for a fresh long-lived one. Facebook
// has no refresh token; the access token itself is exchanged.
func (p *FacebookPublisher) Refresh(ctx context.Context, creds *transfer.TokenBundle) (string, string, int, error) {
	query := url.Values{}
	query.Set("grant_type", "fb_exchange_token")
	query.Set("client_id", p.cfg.FacebookAppID)
	query.Set("client_secret", p.cfg.FacebookAppSecret)
	query.Set("fb_exchange_token", creds.AccessToken)

	endpoint := facebookGraphURL + "/oauth/access_token?" + query.Encode()

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return "", "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", 0, errors.New("facebook token exchange returned status " + resp.Status)
	}

	var token transfer.FacebookTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", "", 0, err
	}

	return token.AccessToken, "", token.ExpiresIn, nil
}
