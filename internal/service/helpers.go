package service

import (
	"time"
)

func GetExpiresAt(expiresIn int) time.Time {
	return time.Now().UTC().Add(time.Duration(expiresIn) * time.Second)
}
