package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Matesfu/Mela-rent/internal/models"
)

// SessionRepository keeps refresh-token sessions in Redis. Each key expires
// with its session, so no cleanup job is needed.
type SessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func sessionKey(refreshToken string) string {
	return fmt.Sprintf("session:%s", refreshToken)
}

func (r *SessionRepository) SetSession(ctx context.Context, refreshToken string, session models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session for user %d already expired", session.UserID)
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKey(refreshToken), payload, ttl).Err()
}

func (r *SessionRepository) GetSession(ctx context.Context, refreshToken string) (models.Session, error) {
	payload, err := r.rdb.Get(ctx, sessionKey(refreshToken)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Session{}, err
	}
	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session.
func (r *SessionRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	return r.rdb.Del(ctx, sessionKey(refreshToken)).Err()
}
