package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/redissvc"
)

// ErrRefreshTokenNotFound means the token is unknown, expired, or already
// redeemed.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

const refreshKeyPrefix = "auth:refresh:"

// RefreshStore issues and redeems single-use refresh tokens.
type RefreshStore interface {
	Issue(username string) (string, error)
	Redeem(token string) (string, error)
}

// RedisRefreshStore keeps refresh tokens in Redis with a TTL, so expiry
// needs no cleanup loop.
type RedisRefreshStore struct {
	svc *redissvc.RedisService
	ttl time.Duration
}

func NewRedisRefreshStore(svc *redissvc.RedisService, ttl time.Duration) *RedisRefreshStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisRefreshStore{svc: svc, ttl: ttl}
}

func (s *RedisRefreshStore) Issue(username string) (string, error) {
	token := uuid.NewString()
	err := s.svc.Rdb().Set(s.svc.Ctx(), refreshKeyPrefix+token, username, s.ttl).Err()
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisRefreshStore) Redeem(token string) (string, error) {
	username, err := s.svc.Rdb().GetDel(s.svc.Ctx(), refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

// MemoryRefreshStore is the in-memory implementation used in tests.
type MemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{tokens: map[string]string{}}
}

func (s *MemoryRefreshStore) Issue(username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = username
	return token, nil
}

func (s *MemoryRefreshStore) Redeem(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[token]
	if !ok {
		return "", ErrRefreshTokenNotFound
	}
	delete(s.tokens, token)
	return username, nil
}
