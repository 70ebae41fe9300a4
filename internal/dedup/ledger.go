package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rokko/warranty-tracker/internal/domain"
)

// DefaultTTL outlives one daily run and the next.
const DefaultTTL = 48 * time.Hour

// Key identifies one reminder: a warranty of a user, for a target date.
type Key struct {
	UserID     uuid.UUID
	WarrantyID uuid.UUID
	TargetDate domain.Date
}

func (k Key) String() string {
	return fmt.Sprintf("reminder:sent:%s:%s:%s", k.UserID, k.WarrantyID, k.TargetDate)
}

// RedisLedger remembers which reminders were already sent using one SETNX
// key per reminder.
type RedisLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLedger(rdb *redis.Client, ttl time.Duration) *RedisLedger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLedger{rdb: rdb, ttl: ttl}
}

// Reserve claims each key and reports, per key, whether this call was the
// first to claim it.
func (l *RedisLedger) Reserve(ctx context.Context, keys []Key) ([]bool, error) {
	cmds := make([]*redis.BoolCmd, len(keys))
	_, err := l.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = p.SetNX(ctx, k.String(), 1, l.ttl)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reserve reminder keys: %w", err)
	}

	fresh := make([]bool, len(keys))
	for i, cmd := range cmds {
		fresh[i] = cmd.Val()
	}
	return fresh, nil
}

// Release drops keys so the reminders they stand for can be sent again.
func (l *RedisLedger) Release(ctx context.Context, keys []Key) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	if err := l.rdb.Del(ctx, names...).Err(); err != nil {
		return fmt.Errorf("release reminder keys: %w", err)
	}
	return nil
}
