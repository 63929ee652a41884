package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	config "discord-social-bot/configs"
	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const (
	linkedinUserInfoURL = "https://api.linkedin.com/v2/userinfo"
	linkedinUGCPostURL  = "https://api.linkedin.com/v2/ugcPosts"
)

type LinkedinPublisher struct {
	cfg    config.Config
	client *http.Client
}

func NewLinkedinPublisher(cfg config.Config) *LinkedinPublisher {
	return &LinkedinPublisher{cfg: cfg, client: newHTTPClient()}
}

// Publish creates a UGC share on the member's feed. The author urn is
// resolved from the token via the userinfo endpoint on every publish; the
// token is the only durable state we hold for an account.
func (p *LinkedinPublisher) Publish(ctx context.Context, creds *transfer.TokenBundle, content string, mediaURLs []string) (string, error) {
	author, err := p.userInfo(ctx, creds.AccessToken)
	if err != nil {
		return "", err
	}

	share := transfer.LinkedinShareRequest{
		Author:         "urn:li:person:" + author.Sub,
		LifecycleState: "PUBLISHED",
		SpecificContent: transfer.LinkedinSpecificContent{
			ShareContent: transfer.LinkedinShareContent{
				ShareCommentary:    transfer.LinkedinText{Text: content},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: transfer.LinkedinShareVisibilities{Visibility: "PUBLIC"},
	}

	if len(mediaURLs) > 0 {
		share.SpecificContent.ShareContent.ShareMediaCategory = "ARTICLE"
		for _, u := range mediaURLs {
			share.SpecificContent.ShareContent.Media = append(share.SpecificContent.ShareContent.Media, transfer.LinkedinMedia{
				Status:      "READY",
				OriginalURL: u,
			})
		}
	}

	body, err := json.Marshal(share)
	if err != nil {
		return "", err
	}

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, linkedinUGCPostURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
		return req, nil
	})
	if err != nil {
		return "", &Error{Platform: models.PlatformLinkedin, Reason: "linkedin request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var apiErr transfer.LinkedinErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return "", &Error{Platform: models.PlatformLinkedin, Reason: apiErr.Message}
		}
		return "", &Error{Platform: models.PlatformLinkedin, Reason: "linkedin returned status " + resp.Status}
	}

	var result transfer.LinkedinShareResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &Error{Platform: models.PlatformLinkedin, Reason: "invalid linkedin response", Err: err}
	}
	if result.ID == "" {
		if id := resp.Header.Get("X-Restli-Id"); id != "" {
			return id, nil
		}
		return "", &Error{Platform: models.PlatformLinkedin, Reason: "linkedin returned no share id"}
	}
	return result.ID, nil
}

func (p *LinkedinPublisher) userInfo(ctx context.Context, accessToken string) (*transfer.LinkedinUserInfo, error) {
	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, linkedinUserInfoURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		return req, nil
	})
	if err != nil {
		return nil, &Error{Platform: models.PlatformLinkedin, Reason: "linkedin userinfo failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Platform: models.PlatformLinkedin, Reason: "linkedin userinfo returned status " + resp.Status}
	}

	var info transfer.LinkedinUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, &Error{Platform: models.PlatformLinkedin, Reason: "invalid userinfo response", Err: err}
	}
	if info.Sub == "" {
		return nil, &Error{Platform: models.PlatformLinkedin, Reason: "linkedin userinfo missing subject"}
	}
	return &info, nil
}

// Refresh exchanges the stored refresh token through the standard OAuth2
// endpoint.
func (p *LinkedinPublisher) Refresh(ctx context.Context, creds *transfer.TokenBundle) (string, string, int, error) {
	if creds.RefreshToken == nil {
		return "", "", 0, &Error{Platform: models.PlatformLinkedin, Reason: "account has no refresh token"}
	}

	conf := &oauth2.Config{
		ClientID:     p.cfg.LinkedinClientID,
		ClientSecret: p.cfg.LinkedinClientSecret,
		Endpoint:     linkedin.Endpoint,
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: *creds.RefreshToken}).Token()
	if err != nil {
		return "", "", 0, err
	}

	expiresIn := int(time.Until(token.Expiry).Seconds())
	return token.AccessToken, token.RefreshToken, expiresIn, nil
}
