package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OtpStore is a time-bounded key-value store for one-time codes. Entries
// expire on their TTL and are deleted on first successful validation.
type OtpStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Del(ctx context.Context, email string) error
}

const otpKeyPrefix = "otp:"

type RedisOtpStore struct {
	client *redis.Client
}

func NewRedisOtpStore(client *redis.Client) *RedisOtpStore {
	return &RedisOtpStore{client: client}
}

func (s *RedisOtpStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKeyPrefix+email, code, ttl).Err()
}

func (s *RedisOtpStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, otpKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

func (s *RedisOtpStore) Del(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKeyPrefix+email).Err()
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryOtpStore keeps codes in-process with per-entry timers. Used in tests
// and when no redis is configured.
type MemoryOtpStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryOtpStore() *MemoryOtpStore {
	return &MemoryOtpStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryOtpStore) Set(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[email] = memoryEntry{code: code, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()

	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		if entry, ok := s.entries[email]; ok && !entry.expiresAt.After(time.Now()) {
			delete(s.entries, email)
		}
		s.mu.Unlock()
	})
	return nil
}

func (s *MemoryOtpStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	if !ok || !entry.expiresAt.After(time.Now()) {
		return "", nil
	}
	return entry.code, nil
}

func (s *MemoryOtpStore) Del(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
	return nil
}
