// Package session provides the Redis-backed session store and the signed
// cookie format carrying session ids. Sessions hold the reduced user
// projection written at login and expire after 24 hours unless destroyed by
// logout first.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/PranayChowdhury00/event-management-task-ph-Backend/models"
)

// TTL is the session lifetime; the cookie max-age matches it.
const TTL = 24 * time.Hour

const keyPrefix = "sess:"

// ErrNotFound is returned when a session id has no live record, either
// because it never existed or because it expired.
var ErrNotFound = errors.New("session not found")

// Store persists session payloads in Redis with a TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, ttl: TTL}
}

// NewID returns a fresh opaque session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get loads the payload for a session id.
func (s *Store) Get(ctx context.Context, id string) (*models.SessionUser, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var user models.SessionUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &user, nil
}

// Set writes the payload under the session id with the store TTL.
func (s *Store) Set(ctx context.Context, id string, user models.SessionUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Delete destroys the session record. Deleting an absent session is not an
// error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
