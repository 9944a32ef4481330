package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another process is never released by us.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Client is the subset of *redis.Client used by RedisLocker.
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker is a Locker shared by every process talking to the same Redis.
// Locks expire after ttl so a crashed holder cannot block a project forever.
type RedisLocker struct {
	rdb    Client
	ttl    time.Duration
	retry  time.Duration
	logger *zap.Logger
}

func NewRedisLocker(rdb Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, retry: 50 * time.Millisecond, logger: logger}
}

// NewRedisClient opens a client for the given address.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func key(projectID string) string {
	return fmt.Sprintf("chantier:lock:project:%s", projectID)
}

func (l *RedisLocker) Lock(ctx context.Context, projectID string) (func(), error) {
	k := key(projectID)
	token := uuid.New().String()

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("locking project %s: %w", projectID, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("locking project %s: %w", projectID, ctx.Err())
		case <-timer.C:
		}
	}

	return func() {
		// The caller's context may already be cancelled; release regardless.
		released, err := l.rdb.Eval(context.Background(), releaseScript, []string{k}, token).Int64()
		if err != nil {
			l.logger.Warn("releasing project lock", zap.String("project_id", projectID), zap.Error(err))
			return
		}
		if released == 0 {
			l.logger.Warn("project lock expired before release",
				zap.String("project_id", projectID), zap.Duration("ttl", l.ttl))
		}
	}, nil
}
