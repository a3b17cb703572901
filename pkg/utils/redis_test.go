package utils

import (
	"context"
	"testing"
	"time"
)

func TestRedisConfig_Defaults(t *testing.T) {
	c := RedisConfig{Addr: "localhost:6379", PoolSize: 5}.withDefaults()
	if c.PoolSize != 5 {
		t.Fatalf("explicit pool size must be kept, got %d", c.PoolSize)
	}
	if c.DialTimeout != 3*time.Second || c.IOTimeout != 2*time.Second || c.PingTimeout != 2*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestOpenRedis_RequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error without addr")
	}
}

func TestRedisHelpers_RejectBadArgs(t *testing.T) {
	ctx := context.Background()
	if _, err := AcquireConcurrencyCap(ctx, nil, "k", 1, time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if err := ReleaseConcurrencyCap(ctx, nil, "k"); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if _, err := IncrWindow(ctx, nil, "k", time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if _, err := WindowCount(ctx, nil, "k"); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if err := ResetWindow(ctx, nil, "k"); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
