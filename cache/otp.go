package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrOTPNotFound = errors.New("otp not sent or expired")
	ErrOTPMismatch = errors.New("invalid otp")
)

// OTPStore keeps one-time codes in Redis with a TTL so verification works
// across server replicas and survives restarts.
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore(redisURL string) (*OTPStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &OTPStore{client: client}, nil
}

func (s *OTPStore) Close() error {
	return s.client.Close()
}

func otpKey(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

// Put stores the code, replacing any previous one for the same purpose+email.
func (s *OTPStore) Put(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(purpose, email), code, ttl).Err()
}

// Consume checks the code and deletes it on success, so each code is
// usable exactly once.
func (s *OTPStore) Consume(ctx context.Context, purpose, email, code string) error {
	key := otpKey(purpose, email)

	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to read otp: %w", err)
	}

	if stored != code {
		return ErrOTPMismatch
	}

	return s.client.Del(ctx, key).Err()
}
