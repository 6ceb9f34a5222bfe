package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is the server-side record a bearer token resolves to. The raw
// token is the only thing the client holds.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{Client: client, TTL: ttl}
}

func (s *SessionStore) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (s *SessionStore) CreateSession(ctx context.Context, userID int64, role, username string) (*Session, error) {
	session := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.Client.Set(ctx, sessionKey(session.Token), sessionJSON, s.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session in redis: %w", err)
	}
	return session, nil
}

// GetSession returns (nil, nil) for unknown or expired tokens.
func (s *SessionStore) GetSession(ctx context.Context, token string) (*Session, error) {
	val, err := s.Client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	if err := s.Client.Del(ctx, sessionKey(token)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}
