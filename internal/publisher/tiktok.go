package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	config "discord-social-bot/configs"
	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"
)

const (
	tiktokVideoInitURL = "https://open.tiktokapis.com/v2/post/publish/video/init/"
	tiktokPhotoInitURL = "https://open.tiktokapis.com/v2/post/publish/content/init/"
	tiktokTokenURL     = "https://open.tiktokapis.com/v2/oauth/token/"
)

var tiktokVideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
}

type TiktokPublisher struct {
	cfg    config.Config
	client *http.Client
}

func NewTiktokPublisher(cfg config.Config) *TiktokPublisher {
	return &TiktokPublisher{cfg: cfg, client: newHTTPClient()}
}

// Publish hands TikTok a URL to pull the media from. A single video URL
// becomes a video post, anything else a photo post. Text-only posts do not
// exist on TikTok.
func (p *TiktokPublisher) Publish(ctx context.Context, creds *transfer.TokenBundle, content string, mediaURLs []string) (string, error) {
	if len(mediaURLs) == 0 {
		return "", &Error{Platform: models.PlatformTiktok, Reason: "tiktok requires at least one media url"}
	}

	var payload interface{}
	endpoint := tiktokPhotoInitURL

	if len(mediaURLs) == 1 && isVideoURL(mediaURLs[0]) {
		endpoint = tiktokVideoInitURL
		payload = transfer.VideoUploadRequest{
			PostInfo: transfer.VideoPostInfo{
				Title:        content,
				PrivacyLevel: "SELF_ONLY",
			},
			SourceInfo: transfer.VideoSourceInfo{
				Source:   "PULL_FROM_URL",
				VideoURL: mediaURLs[0],
			},
		}
	} else {
		payload = transfer.PhotoUploadRequest{
			PostInfo: transfer.PhotoPostInfo{
				Title:        content,
				Description:  content,
				PrivacyLevel: "SELF_ONLY",
				AutoAddMusic: true,
			},
			SourceInfo: transfer.PhotoSourceInfo{
				Source:      "PULL_FROM_URL",
				PhotoImages: mediaURLs,
			},
			PostMode:  "DIRECT_POST",
			MediaType: "PHOTO",
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
		return req, nil
	})
	if err != nil {
		return "", &Error{Platform: models.PlatformTiktok, Reason: "tiktok request failed", Err: err}
	}
	defer resp.Body.Close()

	var result transfer.TikTokUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &Error{Platform: models.PlatformTiktok, Reason: "invalid tiktok response", Err: err}
	}

	if result.Error.Code != "" && result.Error.Code != "ok" {
		reason := result.Error.Message
		if reason == "" {
			reason = result.Error.Code
		}
		return "", &Error{Platform: models.PlatformTiktok, Reason: reason}
	}
	if result.Data.PublishID == "" {
		return "", &Error{Platform: models.PlatformTiktok, Reason: "tiktok returned no publish id"}
	}
	return result.Data.PublishID, nil
}

// Refresh trades the stored refresh token for a new token pair. TikTok
// rotates refresh tokens, so the returned one replaces the stored one.
func (p *TiktokPublisher) Refresh(ctx context.Context, creds *transfer.TokenBundle) (string, string, int, error) {
	if creds.RefreshToken == nil {
		return "", "", 0, &Error{Platform: models.PlatformTiktok, Reason: "account has no refresh token"}
	}

	form := url.Values{}
	form.Set("client_key", p.cfg.TiktokClientKey)
	form.Set("client_secret", p.cfg.TiktokClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", *creds.RefreshToken)

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokTokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return "", "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", 0, errors.New("tiktok token refresh returned status " + resp.Status)
	}

	var token transfer.TiktokTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", "", 0, err
	}
	if token.AccessToken == "" {
		return "", "", 0, errors.New("tiktok token refresh returned no access token")
	}

	return token.AccessToken, token.RefreshToken, token.ExpiresIn, nil
}

func isVideoURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return tiktokVideoExtensions[strings.ToLower(path.Ext(u.Path))]
}
