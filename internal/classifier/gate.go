package classifier

import (
	"context"
	"errors"
	"time"

	"callcenter-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned by a Gate when every slot is taken.
var ErrBusy = errors.New("límite de clasificaciones simultáneas alcanzado")

// Gate bounds the number of in-flight model calls. Acquire returns a release
// func on success and ErrBusy when the cap is full.
type Gate interface {
	Acquire(ctx context.Context) (release func(), err error)
}

const inflightKey = "llm_inflight"

// RedisGate shares the in-flight cap across API replicas.
type RedisGate struct {
	rdb   *redis.Client
	limit int
	ttl   time.Duration
}

// NewRedisGate caps in-flight calls at limit. ttl bounds how long a slot
// survives a crashed holder and should exceed the model call timeout.
func NewRedisGate(rdb *redis.Client, limit int, ttl time.Duration) *RedisGate {
	return &RedisGate{rdb: rdb, limit: limit, ttl: ttl}
}

func (g *RedisGate) Acquire(ctx context.Context) (func(), error) {
	ok, err := utils.AcquireConcurrencyCap(ctx, g.rdb, inflightKey, g.limit, g.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() {
		// The request context may already be done.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = utils.ReleaseConcurrencyCap(ctx, g.rdb, inflightKey)
	}, nil
}
