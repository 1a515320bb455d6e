package seatlock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"bookmate/internal/shared/constants"
)

// Lua script for owner-checked lock release. The lock value is
// "{user_id}:{nonce}"; only the caller whose user id matches the stored
// prefix may delete the key, so a lock re-acquired by another user after
// TTL expiry is never clobbered by a stale release.
var luaCompareAndDelete = redis.NewScript(`
local value = redis.call('GET', KEYS[1])
if not value then
    return 0
end
local owner = string.match(value, '^([^:]+):')
if owner == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// Manager owns the per-ticket distributed seat locks. Synthetic (negative)
// ticket ids share the key namespace with real ids, so seats without a
// materialized ticket row are lockable too.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewManager creates a seat lock manager. ttl is the lock lifetime; expiry
// is the liveness backstop for callers that crash without releasing.
func NewManager(redisClient *redis.Client, ttl time.Duration) *Manager {
	return &Manager{
		redis: redisClient,
		ttl:   ttl,
	}
}

// TryLock attempts to acquire the lock for a ticket on behalf of a user.
// It is non-blocking: the lock is set only if absent, and false is returned
// when any holder (including the same user) already owns it.
func (m *Manager) TryLock(ctx context.Context, ticketID, userID int64) (bool, error) {
	key := constants.BuildSeatLockKey(ticketID)
	acquired, err := m.redis.SetNX(ctx, key, lockValue(userID), m.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire seat lock: %w", err)
	}
	return acquired, nil
}

// Owner returns the user id holding the lock for a ticket. The second
// return value is false when the lock is absent or its value is malformed.
func (m *Manager) Owner(ctx context.Context, ticketID int64) (int64, bool, error) {
	key := constants.BuildSeatLockKey(ticketID)
	value, err := m.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read seat lock: %w", err)
	}
	owner, ok := parseOwner(value)
	return owner, ok, nil
}

// Unlock releases the lock for a ticket only when the stored owner matches
// userID. Returns true when a key was actually deleted.
func (m *Manager) Unlock(ctx context.Context, ticketID, userID int64) (bool, error) {
	key := constants.BuildSeatLockKey(ticketID)
	args := []interface{}{strconv.FormatInt(userID, 10)}

	result, err := luaCompareAndDelete.Run(ctx, m.redis, []string{key}, args...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to release seat lock: %w", err)
	}

	deleted, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from unlock script")
	}
	return deleted > 0, nil
}

// ForceUnlock deletes the lock regardless of owner. Reserved for admin and
// recovery paths; normal release goes through Unlock.
func (m *Manager) ForceUnlock(ctx context.Context, ticketID int64) error {
	key := constants.BuildSeatLockKey(ticketID)
	if err := m.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to force-release seat lock: %w", err)
	}
	return nil
}

// PreloadScripts loads the unlock script into the Redis script cache so the
// hot path runs EVALSHA without ever paying the EVAL fallback.
func (m *Manager) PreloadScripts(ctx context.Context) error {
	if err := luaCompareAndDelete.Load(ctx, m.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat lock script: %w", err)
	}
	return nil
}

// lockValue builds the stored lock value. The nonce makes every acquisition
// distinct; the user id prefix is what Owner and Unlock match against.
func lockValue(userID int64) string {
	return strconv.FormatInt(userID, 10) + ":" + uuid.NewString()
}

// parseOwner extracts the user id prefix from a stored lock value.
func parseOwner(value string) (int64, bool) {
	idx := strings.IndexByte(value, ':')
	if idx <= 0 {
		return 0, false
	}
	owner, err := strconv.ParseInt(value[:idx], 10, 64)
	if err != nil {
		return 0, false
	}
	return owner, true
}
