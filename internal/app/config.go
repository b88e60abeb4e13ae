package app

import (
	"strings"
	"time"

	"github.com/yungbote/verifeye-backend/internal/data/db"
	"github.com/yungbote/verifeye-backend/internal/jobs/scheduler"
	"github.com/yungbote/verifeye-backend/internal/jobs/worker"
	"github.com/yungbote/verifeye-backend/internal/platform/envutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/platform/redisdb"
)

const (
	DefaultPort         = "8080"
	DefaultOrphanMinAge = 24 * time.Hour
)

type Config struct {
	Port string
	Env  string

	DB    db.Options
	Redis redisdb.Options

	JWTSecretKey      string
	SessionCookieName string

	LLMProvider string
	// ReportGeneratedLabel exposes the generator's own isScam flag next to isPhishing.
	ReportGeneratedLabel bool

	Worker    worker.Options
	Scheduler scheduler.Options
	// OrphanMinAge keeps freshly generated rows out of the sweep until a user links them.
	OrphanMinAge time.Duration

	AllowedOrigins []string
	RequestTimeout time.Duration

	RunServer bool
	RunWorker bool
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port: envutil.String("PORT", DefaultPort),
		Env:  envutil.String("APP_ENV", "development"),

		DB: db.OptionsFromEnv(),
		Redis: redisdb.Options{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		},

		JWTSecretKey:      envutil.String("AUTH_JWT_SECRET", ""),
		SessionCookieName: envutil.String("AUTH_SESSION_COOKIE", ""),

		LLMProvider:          strings.ToLower(envutil.String("LLM_PROVIDER", "openai")),
		ReportGeneratedLabel: envutil.Bool("CONTENT_REPORT_GENERATED_LABEL", false),

		Worker:       worker.OptionsFromEnv(),
		Scheduler:    scheduler.OptionsFromEnv(),
		OrphanMinAge: envutil.Duration("ORPHAN_MIN_AGE", DefaultOrphanMinAge),

		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		RequestTimeout: envutil.Duration("REQUEST_TIMEOUT", 90*time.Second),

		RunServer: envutil.Bool("RUN_SERVER", true),
		RunWorker: envutil.Bool("RUN_WORKER", true),
	}
	if cfg.JWTSecretKey == "" && log != nil {
		log.Warn("AUTH_JWT_SECRET is not set; every session will be rejected")
	}
	if cfg.OrphanMinAge <= 0 {
		cfg.OrphanMinAge = DefaultOrphanMinAge
	}
	return cfg
}

func (c Config) Address() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = DefaultPort
	}
	return ":" + port
}
