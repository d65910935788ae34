package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/ai-interviewer/internal/models"
)

const sessionKeyPrefix = "interview:session:"

// SessionRepository keeps initialized interview sessions for a limited time.
type SessionRepository interface {
	Save(ctx context.Context, session *models.InterviewSession) error
	Get(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &sessionRepository{rdb: rdb, ttl: ttl}
}

// NewRedisClient connects to the server at redisURL and pings it.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *sessionRepository) Save(ctx context.Context, session *models.InterviewSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.rdb.Set(ctx, sessionKey(session.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *sessionRepository) Get(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session %s: %w", sessionID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.InterviewSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
