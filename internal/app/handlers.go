package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/verifeye-backend/internal/http"
	httpH "github.com/yungbote/verifeye-backend/internal/http/handlers"
	httpMW "github.com/yungbote/verifeye-backend/internal/http/middleware"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	User       *httpH.UserHandler
	Job        *httpH.JobHandler
	Message    *httpH.MessageHandler
	Activity   *httpH.ActivityHandler
	Curriculum *httpH.CurriculumHandler
	Action     *httpH.ActionHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		User:       httpH.NewUserHandler(log, services.User, services.Onboarding),
		Job:        httpH.NewJobHandler(services.JobService),
		Message:    httpH.NewMessageHandler(log, services.Messages, services.Quiz),
		Activity:   httpH.NewActivityHandler(log, services.Activity, services.Leaderboard),
		Curriculum: httpH.NewCurriculumHandler(services.Curriculum),
		Action:     httpH.NewActionHandler(services.Actions),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	tracing := ""
	if observability.TracingEnabled() {
		tracing = ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		AllowedOrigins:    cfg.AllowedOrigins,
		RequestTimeout:    cfg.RequestTimeout,
		TracingService:    tracing,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		UserHandler:       handlers.User,
		JobHandler:        handlers.Job,
		MessageHandler:    handlers.Message,
		ActivityHandler:   handlers.Activity,
		CurriculumHandler: handlers.Curriculum,
		ActionHandler:     handlers.Action,
	})
}
