package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultLeaderboardKey = "leaderboard:xp"

type XPEntry struct {
	UserID uuid.UUID
	XP     int
}

// XPLeaderboard mirrors per-user XP totals in a Redis sorted set. SQL stays the source of
// truth; the set is rebuilt from it on startup.
type XPLeaderboard struct {
	rdb *goredis.Client
	key string
}

func NewXPLeaderboard(rdb *goredis.Client, key string) *XPLeaderboard {
	if key == "" {
		key = DefaultLeaderboardKey
	}
	return &XPLeaderboard{rdb: rdb, key: key}
}

func (b *XPLeaderboard) Incr(ctx context.Context, userID uuid.UUID, xp int) error {
	return b.rdb.ZIncrBy(ctx, b.key, float64(xp), userID.String()).Err()
}

// Replace swaps the whole set atomically.
func (b *XPLeaderboard) Replace(ctx context.Context, entries []XPEntry) error {
	tmp := b.key + ":rebuild"
	_, err := b.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, tmp)
		if len(entries) > 0 {
			members := make([]goredis.Z, 0, len(entries))
			for _, e := range entries {
				members = append(members, goredis.Z{Score: float64(e.XP), Member: e.UserID.String()})
			}
			p.ZAdd(ctx, tmp, members...)
			p.Rename(ctx, tmp, b.key)
		} else {
			p.Del(ctx, b.key)
		}
		return nil
	})
	return err
}

func (b *XPLeaderboard) Top(ctx context.Context, n int) ([]XPEntry, error) {
	if n <= 0 {
		return []XPEntry{}, nil
	}
	zs, err := b.rdb.ZRevRangeWithScores(ctx, b.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]XPEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected leaderboard member %T", z.Member)
		}
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		out = append(out, XPEntry{UserID: id, XP: int(z.Score)})
	}
	return out, nil
}

// Rank returns the 1-based rank of userID, or 0 when the user is not on the board.
func (b *XPLeaderboard) Rank(ctx context.Context, userID uuid.UUID) (int64, error) {
	r, err := b.rdb.ZRevRank(ctx, b.key, userID.String()).Result()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return r + 1, nil
}

// CountAbove counts members scoring strictly more than xp.
func (b *XPLeaderboard) CountAbove(ctx context.Context, xp int) (int64, error) {
	return b.rdb.ZCount(ctx, b.key, "("+strconv.Itoa(xp), "+inf").Result()
}
