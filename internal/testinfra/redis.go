package testinfra

import (
	"context"
	"fmt"
	"os"
	"strings"

	"callcenter-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Redis owns a client and, when it started one, its container.
type Redis struct {
	Client *redis.Client

	container testcontainers.Container
}

// StartRedis starts a redis:7-alpine container. If TEST_REDIS_ADDR is set that
// server is reused instead.
func StartRedis(ctx context.Context) (*Redis, error) {
	r := &Redis{}

	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		c, err := testcontainers.Run(ctx, "redis:7-alpine",
			testcontainers.WithExposedPorts("6379/tcp"),
			testcontainers.WithWaitStrategy(wait.ForListeningPort("6379/tcp")),
		)
		if err != nil {
			return nil, fmt.Errorf("start redis container: %w", err)
		}
		r.container = c

		addr, err = c.Endpoint(ctx, "")
		if err != nil {
			r.Close(ctx)
			return nil, fmt.Errorf("resolve redis endpoint: %w", err)
		}
	}

	rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: addr})
	if err != nil {
		r.Close(ctx)
		return nil, err
	}
	r.Client = rdb
	return r, nil
}

// Close tears down resources.
func (r *Redis) Close(ctx context.Context) {
	if r.Client != nil {
		_ = r.Client.Close()
	}
	if r.container != nil {
		_ = r.container.Terminate(ctx)
	}
}
