package auth

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// ErrSessionNotFound indicates the token maps to no live session.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record bound to a session cookie.
type Session struct {
	AccountID      string      `json:"account_id"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	CanManageUsers bool        `json:"can_manage_users"`
	CreatedAt      time.Time   `json:"created_at"`
}

// SessionStore persists cookie-bound sessions.
type SessionStore interface {
	Create(ctx context.Context, token string, session Session, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
	CountByAccount(ctx context.Context, accountID string) (int, error)
}

// RedisSessionStore keeps sessions in Redis keyed by a token hash, with a
// per-account set used for session counting.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore builds a store from an existing client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: "session:"}
}

func (s *RedisSessionStore) key(token string) string {
	return s.prefix + hashToken(token)
}

func (s *RedisSessionStore) accountKey(accountID string) string {
	return "account_sessions:" + accountID
}

// Create stores the session under the hashed token and indexes it by account.
func (s *RedisSessionStore) Create(ctx context.Context, token string, session Session, ttl time.Duration) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	accountKey := s.accountKey(session.AccountID)
	if err := s.client.SAdd(ctx, accountKey, hashToken(token)).Err(); err != nil {
		return fmt.Errorf("index session: %w", err)
	}
	// Keep the index alive at least as long as the newest session.
	_ = s.client.Expire(ctx, accountKey, ttl).Err()
	return nil
}

// Lookup returns the session for the token, or ErrSessionNotFound.
func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (*Session, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Revoke deletes the session and its account index entry.
func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	session, err := s.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return s.client.SRem(ctx, s.accountKey(session.AccountID), hashToken(token)).Err()
}

// CountByAccount returns the number of live sessions for an account,
// pruning index entries whose sessions have expired.
func (s *RedisSessionStore) CountByAccount(ctx context.Context, accountID string) (int, error) {
	accountKey := s.accountKey(accountID)
	hashes, err := s.client.SMembers(ctx, accountKey).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	live := 0
	for _, hash := range hashes {
		exists, err := s.client.Exists(ctx, s.prefix+hash).Result()
		if err != nil {
			return 0, err
		}
		if exists > 0 {
			live++
			continue
		}
		_ = s.client.SRem(ctx, accountKey, hash).Err()
	}
	return live, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}
