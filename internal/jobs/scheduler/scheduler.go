package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yungbote/verifeye-backend/internal/platform/envutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/services"
)

const DefaultSweepInterval = time.Hour

type Options struct {
	SweepInterval   time.Duration
	RebuildInterval time.Duration
}

// OptionsFromEnv reads ORPHAN_SWEEP_INTERVAL and LEADERBOARD_REBUILD_INTERVAL. A zero
// rebuild interval disables the periodic leaderboard rebuild.
func OptionsFromEnv() Options {
	return Options{
		SweepInterval:   envutil.Duration("ORPHAN_SWEEP_INTERVAL", DefaultSweepInterval),
		RebuildInterval: envutil.Duration("LEADERBOARD_REBUILD_INTERVAL", 0),
	}
}

// Scheduler runs periodic maintenance: the orphan content sweep and, when configured,
// a full leaderboard rebuild.
type Scheduler struct {
	log         *logger.Logger
	cron        *gocron.Scheduler
	sweep       services.ContentSweepService
	leaderboard services.LeaderboardService
	opts        Options
	ctx         context.Context
	cancel      context.CancelFunc
}

func New(baseLog *logger.Logger, sweep services.ContentSweepService, leaderboard services.LeaderboardService, opts Options) *Scheduler {
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	return &Scheduler{
		log:         baseLog.With("component", "Scheduler"),
		cron:        cron,
		sweep:       sweep,
		leaderboard: leaderboard,
		opts:        opts,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	if s.sweep != nil {
		if _, err := s.cron.Every(s.opts.SweepInterval).WaitForSchedule().Do(s.runSweep); err != nil {
			return fmt.Errorf("schedule orphan sweep: %w", err)
		}
	}
	if s.leaderboard != nil && s.opts.RebuildInterval > 0 {
		if _, err := s.cron.Every(s.opts.RebuildInterval).WaitForSchedule().Do(s.runRebuild); err != nil {
			return fmt.Errorf("schedule leaderboard rebuild: %w", err)
		}
	}
	s.cron.StartAsync()
	s.log.Info("Scheduler started", "sweep_interval", s.opts.SweepInterval.String(), "rebuild_interval", s.opts.RebuildInterval.String())
	return nil
}

// Stop waits for a running task to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.cron.Stop()
}

func (s *Scheduler) runSweep() {
	res, err := s.sweep.SweepOrphans(s.ctx)
	if err != nil {
		s.log.Warn("Orphan sweep failed", "error", err)
		return
	}
	s.log.Debug("Orphan sweep finished", "emails", res.Emails, "texts", res.Texts)
}

func (s *Scheduler) runRebuild() {
	if err := s.leaderboard.Rebuild(s.ctx); err != nil {
		s.log.Warn("Leaderboard rebuild failed", "error", err)
	}
}
