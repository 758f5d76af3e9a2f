package bookingflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"busbooking/internal/shared/constants"
	"busbooking/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serialises submissions per flow. Acquire returns ErrFlowLocked when the flow is busy.
type Locker interface {
	Acquire(ctx context.Context, flowID string, ttl time.Duration) (release func(), err error)
}

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) Acquire(ctx context.Context, flowID string, ttl time.Duration) (func(), error) {
	key := constants.BuildFlowLockKey(flowID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submission lock: %w", err)
	}
	if !ok {
		return nil, ErrFlowLocked
	}

	return l.releaser(flowID, key, token), nil
}

func (l *redisLocker) releaser(flowID, key, token string) func() {
	return func() {
		// the request context may already be done
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			logger.GetDefault().WarnWithContext(releaseCtx, "failed to release submission lock", err, map[string]interface{}{
				"flow_id": flowID,
				"key":     key,
			})
		}
	}
}

type localLocker struct {
	mu     sync.Mutex
	held   map[string]time.Time
	nowFor func() time.Time
}

// NewLocalLocker is an in-process Locker for single-instance deployments and tests.
func NewLocalLocker() Locker {
	return &localLocker{held: make(map[string]time.Time), nowFor: time.Now}
}

func (l *localLocker) Acquire(_ context.Context, flowID string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFor()
	if expires, ok := l.held[flowID]; ok && now.Before(expires) {
		return nil, ErrFlowLocked
	}
	expires := now.Add(ttl)
	l.held[flowID] = expires

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[flowID] == expires {
			delete(l.held, flowID)
		}
	}, nil
}
