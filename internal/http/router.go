package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/verifeye-backend/internal/http/handlers"
	httpMW "github.com/yungbote/verifeye-backend/internal/http/middleware"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AllowedOrigins []string
	RequestTimeout time.Duration
	// TracingService names the otelgin spans; empty disables the middleware.
	TracingService string

	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler       *httpH.UserHandler
	JobHandler        *httpH.JobHandler
	MessageHandler    *httpH.MessageHandler
	ActivityHandler   *httpH.ActivityHandler
	CurriculumHandler *httpH.CurriculumHandler
	ActionHandler     *httpH.ActionHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Actions answer anonymous callers with their own failure shape.
	if cfg.ActionHandler != nil {
		actions := api.Group("/actions")
		if cfg.AuthMiddleware != nil {
			actions.Use(cfg.AuthMiddleware.OptionalAuth())
		}
		actions.POST("/:name", cfg.ActionHandler.Invoke)
	}

	protected := api.Group("")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// User
		if cfg.UserHandler != nil {
			protected.GET("/user/me", cfg.UserHandler.GetMe)
			protected.POST("/user/profile", cfg.UserHandler.SaveProfile)
			protected.POST("/onboarding", cfg.UserHandler.CompleteOnboarding)
			protected.GET("/streak", cfg.UserHandler.GetStreak)
		}

		// Job
		if cfg.JobHandler != nil {
			protected.GET("/jobs/:id", cfg.JobHandler.GetJob)
		}

		// Simulations
		if cfg.MessageHandler != nil {
			protected.GET("/messages", cfg.MessageHandler.GetMessages)
			protected.POST("/quiz/answer", cfg.MessageHandler.SubmitAnswer)
		}

		// XP
		if cfg.ActivityHandler != nil {
			protected.GET("/xp", cfg.ActivityHandler.GetXP)
			protected.GET("/activities", cfg.ActivityHandler.ListActivities)
			protected.GET("/leaderboard", cfg.ActivityHandler.GetLeaderboard)
		}

		// Curriculum
		if cfg.CurriculumHandler != nil {
			protected.GET("/courses", cfg.CurriculumHandler.ListCourses)
			protected.POST("/lessons/:id/complete", cfg.CurriculumHandler.CompleteLesson)
			protected.GET("/badges", cfg.CurriculumHandler.ListBadges)
		}
	}

	return r
}
