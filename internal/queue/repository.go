package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"bookmate/internal/shared/constants"
)

// Lua script for the batched cursor advance. Runs as one atomic unit so
// concurrent callers can never over-advance: at most one advance happens
// per batch interval, and the cursor only moves forward.
//
// KEYS[1] = last advance timestamp key
// KEYS[2] = cursor key
// KEYS[3] = waiter sorted set key
// ARGV[1] = batch interval (seconds)
// ARGV[2] = batch size
// ARGV[3] = current time (float seconds)
//
// Returns the cursor as a string: the new value when the batch advanced,
// the existing one otherwise. Scores pass through as raw strings so no
// float precision is lost between the zset and the cursor key.
var luaBatchAdvance = redis.NewScript(`
local last_time_key = KEYS[1]
local cursor_key = KEYS[2]
local queue_key = KEYS[3]
local batch_interval = tonumber(ARGV[1])
local batch_size = tonumber(ARGV[2])
local current_time = tonumber(ARGV[3])

local last_time = tonumber(redis.call('GET', last_time_key) or '0')

if (current_time - last_time) < batch_interval then
    local cursor = redis.call('GET', cursor_key)
    if cursor == false then return '0' end
    return cursor
end

local cursor = redis.call('GET', cursor_key) or '0'

local members
if cursor == '0' then
    members = redis.call('ZRANGEBYSCORE', queue_key, '-inf', '+inf', 'WITHSCORES', 'LIMIT', 0, batch_size)
else
    members = redis.call('ZRANGEBYSCORE', queue_key, '(' .. cursor, '+inf', 'WITHSCORES', 'LIMIT', 0, batch_size)
end

if #members == 0 then
    -- Nobody past the cursor: refresh the timestamp so callers do not
    -- re-scan on every poll, keep the cursor where it is.
    redis.call('SET', last_time_key, ARGV[3])
    redis.call('EXPIRE', last_time_key, 86400)
    return cursor
end

local new_cursor = members[#members]

redis.call('SET', cursor_key, new_cursor)
redis.call('EXPIRE', cursor_key, 86400)
redis.call('SET', last_time_key, ARGV[3])
redis.call('EXPIRE', last_time_key, 86400)

return new_cursor
`)

// historyRetention bounds the admission history zset; entries older than an
// hour feed no estimate and are trimmed on every write.
const historyRetention = time.Hour

// Repository is the queue engine's view of the in-memory store. All state
// lives in Redis; the engine keeps nothing in process memory.
type Repository interface {
	AddWaiter(ctx context.Context, eventID, userID int64, score float64) error
	WaiterScore(ctx context.Context, eventID, userID int64) (float64, bool, error)
	WaiterRank(ctx context.Context, eventID, userID int64) (int64, bool, error)
	WaiterCount(ctx context.Context, eventID int64) (int64, error)
	RemoveWaiter(ctx context.Context, eventID, userID int64) error
	AdvanceBatch(ctx context.Context, eventID int64, interval time.Duration, batchSize int, now float64) (float64, error)
	StoreToken(ctx context.Context, eventID, userID int64, token string, ttl time.Duration) error
	GetToken(ctx context.Context, eventID, userID int64) (string, bool, error)
	RecordAdmission(ctx context.Context, eventID int64, now float64) error
	AdmissionsSince(ctx context.Context, eventID int64, from, to float64) (int64, error)
	PreloadScripts(ctx context.Context) error
}

type redisRepository struct {
	redis *redis.Client
}

var _ Repository = (*redisRepository)(nil)

// NewRepository creates a Redis-backed queue repository.
func NewRepository(redisClient *redis.Client) Repository {
	return &redisRepository{redis: redisClient}
}

// AddWaiter inserts the user into the waiter set only if absent, so a
// repeated poll never loses the original enqueue position.
func (r *redisRepository) AddWaiter(ctx context.Context, eventID, userID int64, score float64) error {
	key := constants.BuildQueueWaitersKey(eventID)
	member := redis.Z{Score: score, Member: strconv.FormatInt(userID, 10)}
	if err := r.redis.ZAddNX(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("failed to add queue waiter: %w", err)
	}
	return nil
}

func (r *redisRepository) WaiterScore(ctx context.Context, eventID, userID int64) (float64, bool, error) {
	key := constants.BuildQueueWaitersKey(eventID)
	score, err := r.redis.ZScore(ctx, key, strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read waiter score: %w", err)
	}
	return score, true, nil
}

func (r *redisRepository) WaiterRank(ctx context.Context, eventID, userID int64) (int64, bool, error) {
	key := constants.BuildQueueWaitersKey(eventID)
	rank, err := r.redis.ZRank(ctx, key, strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read waiter rank: %w", err)
	}
	return rank, true, nil
}

func (r *redisRepository) WaiterCount(ctx context.Context, eventID int64) (int64, error) {
	key := constants.BuildQueueWaitersKey(eventID)
	count, err := r.redis.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count queue waiters: %w", err)
	}
	return count, nil
}

func (r *redisRepository) RemoveWaiter(ctx context.Context, eventID, userID int64) error {
	key := constants.BuildQueueWaitersKey(eventID)
	if err := r.redis.ZRem(ctx, key, strconv.FormatInt(userID, 10)).Err(); err != nil {
		return fmt.Errorf("failed to remove queue waiter: %w", err)
	}
	return nil
}

// AdvanceBatch runs the atomic batch advance and returns the cursor in
// effect afterwards.
func (r *redisRepository) AdvanceBatch(ctx context.Context, eventID int64, interval time.Duration, batchSize int, now float64) (float64, error) {
	keys := []string{
		constants.BuildQueueLastTimeKey(eventID),
		constants.BuildQueueCursorKey(eventID),
		constants.BuildQueueWaitersKey(eventID),
	}
	args := []interface{}{interval.Seconds(), batchSize, now}

	result, err := luaBatchAdvance.Run(ctx, r.redis, keys, args...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance queue batch: %w", err)
	}

	raw, ok := result.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected result type from batch advance script")
	}
	cursor, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse batch cursor %q: %w", raw, err)
	}
	return cursor, nil
}

func (r *redisRepository) StoreToken(ctx context.Context, eventID, userID int64, token string, ttl time.Duration) error {
	key := constants.BuildQueueTokenKey(eventID, userID)
	if err := r.redis.Set(ctx, key, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store queue token: %w", err)
	}
	return nil
}

func (r *redisRepository) GetToken(ctx context.Context, eventID, userID int64) (string, bool, error) {
	key := constants.BuildQueueTokenKey(eventID, userID)
	token, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read queue token: %w", err)
	}
	return token, true, nil
}

// RecordAdmission appends an admission timestamp to the history zset and
// trims entries older than the retention window.
func (r *redisRepository) RecordAdmission(ctx context.Context, eventID int64, now float64) error {
	key := constants.BuildQueueHistoryKey(eventID)
	member := redis.Z{Score: now, Member: strconv.FormatFloat(now, 'f', -1, 64)}
	if err := r.redis.ZAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("failed to record queue admission: %w", err)
	}

	cutoff := now - historyRetention.Seconds()
	if err := r.redis.ZRemRangeByScore(ctx, key, "0", strconv.FormatFloat(cutoff, 'f', -1, 64)).Err(); err != nil {
		return fmt.Errorf("failed to trim queue history: %w", err)
	}
	if err := r.redis.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to expire queue history: %w", err)
	}
	return nil
}

func (r *redisRepository) AdmissionsSince(ctx context.Context, eventID int64, from, to float64) (int64, error) {
	key := constants.BuildQueueHistoryKey(eventID)
	count, err := r.redis.ZCount(ctx, key,
		strconv.FormatFloat(from, 'f', -1, 64),
		strconv.FormatFloat(to, 'f', -1, 64)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count queue admissions: %w", err)
	}
	return count, nil
}

// PreloadScripts loads the batch advance script into the Redis script cache
// so the hot path runs EVALSHA without ever paying the EVAL fallback.
func (r *redisRepository) PreloadScripts(ctx context.Context) error {
	if err := luaBatchAdvance.Load(ctx, r.redis).Err(); err != nil {
		return fmt.Errorf("failed to load batch advance script: %w", err)
	}
	return nil
}
