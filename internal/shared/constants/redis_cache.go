package constants

import (
	"fmt"
	"time"
)

// Redis keys and TTLs used across the booking service.
// Pattern: busbooking:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour // city list
	TTL_STATIC_MEDIUM = 12 * time.Hour // bus and route details
)

// Semi-Static Data
const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // schedule details
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // schedule search results
)

// Dynamic Data (Short TTL: changes on every booking)
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute  // user booking lists
	TTL_DYNAMIC_QUICK = 30 * time.Second // seat inventory
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "busbooking"
)

// ================== SCHEDULES MODULE ==================

const (
	CACHE_KEY_CITIES          = CACHE_PREFIX + ":schedules:cities:all"
	CACHE_KEY_SCHEDULE_DETAIL = CACHE_PREFIX + ":schedules:detail:uuid:" // + schedule-id
	CACHE_KEY_SCHEDULE_SEARCH = CACHE_PREFIX + ":schedules:search"       // + :from:X:to:Y:date:Z
)

const (
	TTL_CITIES          = TTL_STATIC_LONG
	TTL_SCHEDULE_DETAIL = TTL_SEMI_STATIC_SHORT
	TTL_SCHEDULE_SEARCH = TTL_SEMI_STATIC_QUICK
)

// ================== SEATS MODULE ==================

const (
	CACHE_KEY_SCHEDULE_SEATS = CACHE_PREFIX + ":seats:schedule:uuid:" // + schedule-id
)

const (
	TTL_SCHEDULE_SEATS = TTL_DYNAMIC_QUICK
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_USER_BOOKINGS = CACHE_PREFIX + ":bookings:user:uuid:" // + user-id + :page:X
)

const (
	TTL_USER_BOOKINGS = TTL_DYNAMIC_SHORT
)

// ================== BOOKING FLOW MODULE ==================

const (
	KEY_FLOW_SESSION = CACHE_PREFIX + ":flows:session:" // + flow-id
	KEY_FLOW_LOCK    = CACHE_PREFIX + ":flows:lock:"    // + flow-id
)

// ================== RATE LIMITING ==================

const (
	KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + ip:type
)

// ================== KEY BUILDERS ==================

func BuildScheduleDetailKey(scheduleID string) string {
	return CACHE_KEY_SCHEDULE_DETAIL + scheduleID
}

func BuildScheduleSearchKey(from, to, date string) string {
	return fmt.Sprintf("%s:from:%s:to:%s:date:%s", CACHE_KEY_SCHEDULE_SEARCH, from, to, date)
}

func BuildScheduleSeatsKey(scheduleID string) string {
	return CACHE_KEY_SCHEDULE_SEATS + scheduleID
}

func BuildUserBookingsKey(userID string, page int) string {
	return CACHE_KEY_USER_BOOKINGS + userID + ":page:" + fmt.Sprintf("%d", page)
}

func BuildUserBookingsPattern(userID string) string {
	return CACHE_KEY_USER_BOOKINGS + userID + ":*"
}

func BuildFlowSessionKey(flowID string) string {
	return KEY_FLOW_SESSION + flowID
}

func BuildFlowLockKey(flowID string) string {
	return KEY_FLOW_LOCK + flowID
}

func BuildRateLimitKey(clientIP, limitType string) string {
	return KEY_RATE_LIMIT + clientIP + ":" + limitType
}

/*
INVALIDATION:

1. When a booking is created or cancelled:
   - Delete: BuildScheduleSeatsKey(scheduleID)
   - Delete pattern: BuildUserBookingsPattern(userID)
   - Delete pattern: CACHE_KEY_SCHEDULE_SEARCH + ":*" (available seat counts)
*/
