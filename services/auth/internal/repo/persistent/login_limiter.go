package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles password guessing per email address.
type LoginLimiter interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

const (
	maxLoginAttempts   = 5
	loginAttemptWindow = time.Minute
)

type loginLimiter struct {
	client *redis.Client
}

func NewLoginLimiter(client *redis.Client) LoginLimiter {
	return &loginLimiter{client: client}
}

func attemptsKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}

func (l *loginLimiter) TooManyAttempts(ctx context.Context, email string) (bool, error) {
	count, err := l.client.Get(ctx, attemptsKey(email)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= maxLoginAttempts, nil
}

func (l *loginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := attemptsKey(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		l.client.Expire(ctx, key, loginAttemptWindow)
	}
	return nil
}

func (l *loginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, attemptsKey(email)).Err()
}
