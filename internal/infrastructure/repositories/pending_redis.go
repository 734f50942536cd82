package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/medsync/domain"
)

// PendingRedisStore implements domain.PendingRegistrationStore on
// Redis, keyed by email. The key TTL is a housekeeping retention well
// beyond the OTP window: OTP expiry is judged against the bundle's
// expires_at at verification time, so an expired entry still answers
// "expired" rather than "not found" until retention evicts it.
type PendingRedisStore struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

// NewPendingRedisStore creates a new Redis-backed pending store.
func NewPendingRedisStore(client *redis.Client, retention time.Duration) domain.PendingRegistrationStore {
	return &PendingRedisStore{
		client:    client,
		prefix:    "pendingreg:",
		retention: retention,
	}
}

// Save implements domain.PendingRegistrationStore. A prior entry for
// the same email is overwritten (last writer wins).
func (r *PendingRedisStore) Save(ctx context.Context, reg *domain.PendingRegistration) error {
	key := r.prefix + reg.Email
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal pending registration: %w", err)
	}
	return r.client.Set(ctx, key, data, r.retention).Err()
}

// Find implements domain.PendingRegistrationStore
func (r *PendingRedisStore) Find(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	key := r.prefix + email
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrPendingNotFound
		}
		return nil, err
	}

	var reg domain.PendingRegistration
	if err := json.Unmarshal([]byte(data), &reg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending registration: %w", err)
	}
	return &reg, nil
}

// Delete implements domain.PendingRegistrationStore
func (r *PendingRedisStore) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.prefix+email).Err()
}
