package cache

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestXPLeaderboard(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	key := "test:leaderboard:" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, key) })

	board := NewXPLeaderboard(rdb, key)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	if err := board.Replace(ctx, []XPEntry{{UserID: a, XP: 100}, {UserID: b, XP: 50}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := board.Incr(ctx, b, 75); err != nil {
		t.Fatalf("Incr: %v", err)
	}

	top, err := board.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 || top[0].UserID != b || top[0].XP != 125 || top[1].UserID != a {
		t.Fatalf("Top: unexpected %+v", top)
	}

	if r, err := board.Rank(ctx, a); err != nil || r != 2 {
		t.Fatalf("Rank(a): r=%d err=%v", r, err)
	}
	if r, err := board.Rank(ctx, c); err != nil || r != 0 {
		t.Fatalf("Rank(missing): r=%d err=%v", r, err)
	}
	if n, err := board.CountAbove(ctx, 100); err != nil || n != 1 {
		t.Fatalf("CountAbove(100): n=%d err=%v", n, err)
	}
	if n, err := board.CountAbove(ctx, 125); err != nil || n != 0 {
		t.Fatalf("CountAbove(125): n=%d err=%v", n, err)
	}
}
