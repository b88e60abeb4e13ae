package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/verifeye-backend/internal/actions"
	"github.com/yungbote/verifeye-backend/internal/data/cache"
	"github.com/yungbote/verifeye-backend/internal/jobs/pipeline/phishing_content_generate"
	jobruntime "github.com/yungbote/verifeye-backend/internal/jobs/runtime"
	"github.com/yungbote/verifeye-backend/internal/jobs/scheduler"
	"github.com/yungbote/verifeye-backend/internal/jobs/worker"
	"github.com/yungbote/verifeye-backend/internal/modules/curriculum"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/services"
)

type Services struct {
	Auth            services.AuthService
	User            services.UserService
	Activity        services.ActivityService
	Leaderboard     services.LeaderboardService
	JobService      services.JobService
	Onboarding      services.OnboardingService
	Messages        services.MessageService
	Quiz            services.QuizService
	Curriculum      services.CurriculumService
	ContentSweep    services.ContentSweepService
	PhishingContent services.PhishingContentService

	Actions *actions.Actions

	JobRegistry *jobruntime.Registry
	JobWorker   *worker.Worker
	Scheduler   *scheduler.Scheduler
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	var board *cache.XPLeaderboard
	if clients.Redis != nil {
		board = cache.NewXPLeaderboard(clients.Redis, cache.DefaultLeaderboardKey)
	}

	authService := services.NewAuthService(log, cfg.JWTSecretKey, cfg.SessionCookieName)
	userService := services.NewUserService(log, reposet.User)
	leaderboardService := services.NewLeaderboardService(log, reposet.User, reposet.Activity, board)
	activityService := services.NewActivityService(log, reposet.Activity, leaderboardService)
	jobService := services.NewJobService(log, reposet.JobRun)
	onboardingService := services.NewOnboardingService(log, userService, activityService, jobService)
	messageService := services.NewMessageService(log, reposet.User, reposet.EmailMessage, reposet.TextMessage, cfg.ReportGeneratedLabel)
	quizService := services.NewQuizService(db, log, messageService, activityService, reposet.Activity, reposet.UserResponse)

	catalog, err := curriculum.Default()
	if err != nil {
		return Services{}, fmt.Errorf("load curriculum catalog: %w", err)
	}
	curriculumService := services.NewCurriculumService(db, log, catalog, reposet.Lesson, reposet.UserLesson, activityService)
	sweepService := services.NewContentSweepService(log, reposet.EmailMessage, reposet.TextMessage, cfg.OrphanMinAge)

	out := Services{
		Auth:         authService,
		User:         userService,
		Activity:     activityService,
		Leaderboard:  leaderboardService,
		JobService:   jobService,
		Onboarding:   onboardingService,
		Messages:     messageService,
		Quiz:         quizService,
		Curriculum:   curriculumService,
		ContentSweep: sweepService,
		Actions:      actions.New(log, userService, messageService, activityService),
		JobRegistry:  jobruntime.NewRegistry(),
	}

	if cfg.RunWorker {
		if clients.LLM == nil {
			return Services{}, fmt.Errorf("worker enabled without an llm client")
		}
		out.PhishingContent = services.NewPhishingContentService(db, log, clients.LLM, reposet.User, reposet.EmailMessage, reposet.TextMessage)
		if err := out.JobRegistry.Register(phishing_content_generate.New(log, out.PhishingContent)); err != nil {
			return Services{}, fmt.Errorf("register job handler: %w", err)
		}
		out.JobWorker = worker.NewWorker(db, log, reposet.JobRun, out.JobRegistry, cfg.Worker)
		out.Scheduler = scheduler.New(log, sweepService, leaderboardService, cfg.Scheduler)
	}
	return out, nil
}
