package models

import "fmt"

// Platform is one of the supported social networks.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedin  Platform = "linkedin"
	PlatformTiktok    Platform = "tiktok"
)

func SupportedPlatforms() []Platform {
	return []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedin, PlatformTiktok}
}

func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformFacebook, PlatformInstagram, PlatformLinkedin, PlatformTiktok:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unknown platform: %s", s)
}
