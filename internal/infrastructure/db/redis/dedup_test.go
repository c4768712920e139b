package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewDedupChecker_DefaultTTL(t *testing.T) {
	d := NewDedupChecker(nil, 0)
	if d.ttl != defaultDedupTTL {
		t.Fatalf("expected default ttl, got %v", d.ttl)
	}
	if d := NewDedupChecker(nil, time.Minute); d.ttl != time.Minute {
		t.Fatalf("expected configured ttl, got %v", d.ttl)
	}
}

func TestDedupChecker_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	d := NewDedupChecker(client, time.Minute)
	if _, err := d.IsDuplicate(context.Background(), "k"); err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
	if err := d.Mark(context.Background(), "k"); err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
}

func TestConnect_UnreachableServer(t *testing.T) {
	if _, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestConnect_EmptyAddress(t *testing.T) {
	if _, err := Connect(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty address")
	}
}

func TestHealthCheck_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	if err := HealthCheck(client)(context.Background()); err == nil {
		t.Fatalf("expected ping error")
	}
}
