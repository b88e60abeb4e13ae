package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/data/cache"
	"github.com/yungbote/verifeye-backend/internal/data/repos"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type LeaderboardEntry struct {
	Rank          int64     `json:"rank"`
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	Image         *string   `json:"image"`
	XP            int       `json:"xp"`
	IsCurrentUser bool      `json:"isCurrentUser"`
}

type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
	Me      *LeaderboardEntry  `json:"me"`
}

// LeaderboardService ranks users by total XP. Equal XP shares a rank; ties list by name.
// With a Redis board the ranking is served from the sorted set, otherwise from SQL.
type LeaderboardService interface {
	XPObserver
	Top(dbc dbctx.Context, limit int) (*Leaderboard, error)
	Rebuild(ctx context.Context) error
}

type leaderboardService struct {
	log        *logger.Logger
	users      repos.UserRepo
	activities repos.ActivityRepo
	board      *cache.XPLeaderboard
}

// NewLeaderboardService accepts a nil board for SQL-only ranking.
func NewLeaderboardService(baseLog *logger.Logger, users repos.UserRepo, activities repos.ActivityRepo, board *cache.XPLeaderboard) LeaderboardService {
	return &leaderboardService{
		log:        baseLog.With("service", "LeaderboardService"),
		users:      users,
		activities: activities,
		board:      board,
	}
}

func (s *leaderboardService) OnXP(ctx context.Context, userID uuid.UUID, xp int) {
	if s.board == nil || xp == 0 {
		return
	}
	if err := s.board.Incr(ctxutil.Default(ctx), userID, xp); err != nil {
		s.log.Warn("Leaderboard increment failed", "user_id", userID, "error", err)
	}
}

func (s *leaderboardService) Rebuild(ctx context.Context) error {
	if s.board == nil {
		return nil
	}
	totals, err := s.activities.AllTotals(dbctx.Of(ctx))
	if err != nil {
		return apierr.Storage("leaderboard totals", err)
	}
	entries := make([]cache.XPEntry, 0, len(totals))
	for _, t := range totals {
		entries = append(entries, cache.XPEntry{UserID: t.UserID, XP: t.XP})
	}
	if err := s.board.Replace(ctx, entries); err != nil {
		return err
	}
	s.log.Info("Leaderboard rebuilt", "users", len(entries))
	return nil
}

func clampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

func (s *leaderboardService) Top(dbc dbctx.Context, limit int) (*Leaderboard, error) {
	limit = clampLeaderboardLimit(limit)
	var (
		entries []LeaderboardEntry
		err     error
	)
	if s.board != nil {
		entries, err = s.topFromBoard(dbc, limit)
		if err != nil {
			s.log.Warn("Redis leaderboard unavailable, falling back to SQL", "error", err)
			entries = nil
		}
	}
	if entries == nil {
		entries, err = s.topFromSQL(dbc, limit)
		if err != nil {
			return nil, err
		}
	}
	assignRanks(entries)

	out := &Leaderboard{Entries: entries}
	me := ctxutil.UserID(dbc.Ctx)
	if me == uuid.Nil {
		return out, nil
	}
	for i := range out.Entries {
		if out.Entries[i].UserID == me {
			out.Entries[i].IsCurrentUser = true
			e := out.Entries[i]
			out.Me = &e
		}
	}
	if out.Me == nil {
		out.Me, err = s.entryFor(dbc, me)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *leaderboardService) topFromSQL(dbc dbctx.Context, limit int) ([]LeaderboardEntry, error) {
	totals, err := s.activities.TopTotals(dbc, limit)
	if err != nil {
		return nil, apierr.Storage("leaderboard", err)
	}
	out := make([]LeaderboardEntry, 0, len(totals))
	for _, t := range totals {
		out = append(out, LeaderboardEntry{UserID: t.UserID, Name: t.Name, Image: t.Image, XP: t.XP})
	}
	return out, nil
}

func (s *leaderboardService) topFromBoard(dbc dbctx.Context, limit int) ([]LeaderboardEntry, error) {
	top, err := s.board.Top(dbc.Ctx, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(top))
	for _, e := range top {
		ids = append(ids, e.UserID)
	}
	users, err := s.users.GetByIDs(dbc, ids)
	if err != nil {
		return nil, apierr.Storage("leaderboard users", err)
	}
	byID := make(map[uuid.UUID]int, len(users))
	for i, u := range users {
		byID[u.ID] = i
	}
	out := make([]LeaderboardEntry, 0, len(top))
	for _, e := range top {
		i, ok := byID[e.UserID]
		if !ok {
			continue
		}
		out = append(out, LeaderboardEntry{UserID: e.UserID, Name: users[i].Name, Image: users[i].Image, XP: e.XP})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].XP != out[j].XP {
			return out[i].XP > out[j].XP
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// assignRanks gives equal XP the same rank, skipping ranks after ties.
func assignRanks(entries []LeaderboardEntry) {
	for i := range entries {
		if i > 0 && entries[i].XP == entries[i-1].XP {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = int64(i + 1)
	}
}

func (s *leaderboardService) entryFor(dbc dbctx.Context, userID uuid.UUID) (*LeaderboardEntry, error) {
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, apierr.Storage("leaderboard user", err)
	}
	if u == nil {
		return nil, nil
	}
	xp, err := s.activities.SumXP(dbc, userID)
	if err != nil {
		return nil, apierr.Storage("leaderboard xp", err)
	}
	var ahead int64
	if s.board != nil {
		ahead, err = s.board.CountAbove(dbc.Ctx, xp)
	}
	if s.board == nil || err != nil {
		ahead, err = s.activities.CountAhead(dbc, xp)
		if err != nil {
			return nil, apierr.Storage("leaderboard rank", err)
		}
	}
	return &LeaderboardEntry{
		Rank:          ahead + 1,
		UserID:        u.ID,
		Name:          u.Name,
		Image:         u.Image,
		XP:            xp,
		IsCurrentUser: true,
	}, nil
}
