package constants

import (
	"fmt"
	"strconv"
)

// Redis Key Layout
// This file centralizes every Redis key the application reads or writes.
// Queue state, seat locks, rate counters and read caches all live in the
// same logical database; the builders below are the only place key shapes
// are spelled out.

// ================== ADMISSION QUEUE ==================

const (
	KEY_QUEUE_WAITERS         = "queue:event:"                 // + event-id, sorted set of waiting user ids
	KEY_QUEUE_BATCH_CURSOR    = "queue_batch_cursor:event:"    // + event-id, highest admitted score
	KEY_QUEUE_BATCH_LAST_TIME = "queue_batch_last_time:event:" // + event-id, last advance timestamp
	KEY_QUEUE_TOKEN           = "queue_token:event:"           // + event-id:user:user-id
	KEY_QUEUE_HISTORY         = "queue_history:event:"         // + event-id, admission timestamps
)

// BuildQueueWaitersKey returns the waiter set key for an event.
func BuildQueueWaitersKey(eventID int64) string {
	return KEY_QUEUE_WAITERS + strconv.FormatInt(eventID, 10)
}

// BuildQueueCursorKey returns the batch cursor key for an event.
func BuildQueueCursorKey(eventID int64) string {
	return KEY_QUEUE_BATCH_CURSOR + strconv.FormatInt(eventID, 10)
}

// BuildQueueLastTimeKey returns the last-advance timestamp key for an event.
func BuildQueueLastTimeKey(eventID int64) string {
	return KEY_QUEUE_BATCH_LAST_TIME + strconv.FormatInt(eventID, 10)
}

// BuildQueueTokenKey returns the admission token key for an (event, user) pair.
func BuildQueueTokenKey(eventID, userID int64) string {
	return fmt.Sprintf("%s%d:user:%d", KEY_QUEUE_TOKEN, eventID, userID)
}

// BuildQueueHistoryKey returns the admission history key for an event.
func BuildQueueHistoryKey(eventID int64) string {
	return KEY_QUEUE_HISTORY + strconv.FormatInt(eventID, 10)
}

// ================== SEAT LOCKS ==================

const (
	KEY_SEAT_LOCK = "seat_lock:" // + ticket-id, value "user_id:nonce"
)

// BuildSeatLockKey returns the distributed lock key for a ticket.
// Synthetic ticket ids are negative; the sign is part of the key.
func BuildSeatLockKey(ticketID int64) string {
	return KEY_SEAT_LOCK + strconv.FormatInt(ticketID, 10)
}

// ================== RATE LIMITING ==================

const (
	KEY_RATE_LIMIT = "rate_limit:" // + client-ip, fixed-window counter
)

// BuildRateLimitKey returns the fixed-window counter key for a client IP.
func BuildRateLimitKey(ip string) string {
	return KEY_RATE_LIMIT + ip
}

// ================== READ CACHES ==================

const (
	KEY_EVENTS_LIST    = "events:all:"    // + skip:limit, cached event listing page
	KEY_EVENT_SEATS    = "event_seats:"   // + event-id:(schedule-id|all), projected seat map
	KEY_SEAT_STATUS    = "seat_status:"   // + event-id:(schedule-id|all):row|num, availability entry
	KEY_BANNERS_ACTIVE = "banners:active" // cached active banner list
)

// Patterns for cache invalidation (used with pattern deletion)
const (
	PATTERN_INVALIDATE_EVENTS_LIST = KEY_EVENTS_LIST + "*"
	PATTERN_INVALIDATE_EVENT_SEATS = KEY_EVENT_SEATS // + event-id + :*
	PATTERN_INVALIDATE_SEAT_STATUS = KEY_SEAT_STATUS // + event-id + :*
)

// BuildEventListKey returns the cache key for one listing page.
func BuildEventListKey(skip, limit int) string {
	return fmt.Sprintf("%s%d:%d", KEY_EVENTS_LIST, skip, limit)
}

// scheduleSegment renders the schedule filter part of seat cache keys.
func scheduleSegment(scheduleID *int64) string {
	if scheduleID == nil {
		return "all"
	}
	return strconv.FormatInt(*scheduleID, 10)
}

// BuildEventSeatsKey returns the cache key for a projected seat map.
func BuildEventSeatsKey(eventID int64, scheduleID *int64) string {
	return fmt.Sprintf("%s%d:%s", KEY_EVENT_SEATS, eventID, scheduleSegment(scheduleID))
}

// BuildSeatStatusKey returns the cache key for a single seat's availability.
func BuildSeatStatusKey(eventID int64, scheduleID *int64, row string, number int) string {
	return fmt.Sprintf("%s%d:%s:%s|%d", KEY_SEAT_STATUS, eventID, scheduleSegment(scheduleID), row, number)
}

// BuildEventSeatsPattern returns the invalidation pattern covering every
// cached seat map of an event, all schedule filters included.
func BuildEventSeatsPattern(eventID int64) string {
	return fmt.Sprintf("%s%d:*", KEY_EVENT_SEATS, eventID)
}

// BuildSeatStatusPattern returns the invalidation pattern covering every
// cached per-seat status entry of an event.
func BuildSeatStatusPattern(eventID int64) string {
	return fmt.Sprintf("%s%d:*", KEY_SEAT_STATUS, eventID)
}
