package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maintenanceKey = "system:maintenance"

	failureWindow = 15 * time.Minute
)

// SystemStore keeps runtime state in Redis: the maintenance flag, login
// failure counters and the revoked-session blacklist.
type SystemStore struct {
	client *redis.Client
}

func NewSystemStore(client *redis.Client) *SystemStore {
	return &SystemStore{client: client}
}

func (s *SystemStore) failKey(username string) string {
	return "security:fails:" + username
}

func (s *SystemStore) revokedKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

// MaintenanceEnabled reads the maintenance flag. Absence means disabled.
func (s *SystemStore) MaintenanceEnabled(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, maintenanceKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "1", nil
}

func (s *SystemStore) SetMaintenance(ctx context.Context, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	return s.client.Set(ctx, maintenanceKey, val, 0).Err()
}

// RecordLoginFailure increments the rolling failure counter for a username
// and returns the new count. The window resets on each failure.
func (s *SystemStore) RecordLoginFailure(ctx context.Context, username string) (int64, error) {
	key := s.failKey(username)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if err := s.client.Expire(ctx, key, failureWindow).Err(); err != nil {
		return count, err
	}
	return count, nil
}

func (s *SystemStore) ClearLoginFailures(ctx context.Context, username string) error {
	return s.client.Del(ctx, s.failKey(username)).Err()
}

// RevokeSession blacklists a token id until its natural expiry.
func (s *SystemStore) RevokeSession(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.revokedKey(tokenID), "1", ttl).Err()
}

func (s *SystemStore) SessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, err := s.client.Get(ctx, s.revokedKey(tokenID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
