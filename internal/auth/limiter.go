package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"callcenter-platform/internal/apperr"
	"callcenter-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per email in Redis and locks the email out
// once maxAttempts failures happen inside the lockout window.
// A nil client or maxAttempts == 0 disables it.
type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int
	lockout     time.Duration
}

func NewLoginLimiter(rdb *redis.Client, maxAttempts int, lockout time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, maxAttempts: maxAttempts, lockout: lockout}
}

func (l *LoginLimiter) enabled() bool {
	return l != nil && l.rdb != nil && l.maxAttempts > 0 && l.lockout > 0
}

// Allow fails with TooManyRequests while email is locked out.
func (l *LoginLimiter) Allow(ctx context.Context, email string) error {
	if !l.enabled() {
		return nil
	}
	n, err := utils.WindowCount(ctx, l.rdb, loginKey(email))
	if err != nil {
		return err
	}
	if n >= int64(l.maxAttempts) {
		return apperr.TooManyRequests("Demasiados intentos fallidos. Intente nuevamente más tarde")
	}
	return nil
}

// Failed records a failed attempt for email.
func (l *LoginLimiter) Failed(ctx context.Context, email string) error {
	if !l.enabled() {
		return nil
	}
	_, err := utils.IncrWindow(ctx, l.rdb, loginKey(email), l.lockout)
	return err
}

// Succeeded clears the failure counter for email.
func (l *LoginLimiter) Succeeded(ctx context.Context, email string) error {
	if !l.enabled() {
		return nil
	}
	return utils.ResetWindow(ctx, l.rdb, loginKey(email))
}

// Keys hash the email so addresses do not appear in Redis.
func loginKey(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "login_failures:" + hex.EncodeToString(sum[:])
}
