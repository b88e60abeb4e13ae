package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/verifeye-backend/internal/platform/envutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	Driver string
	// DSN wins over the discrete POSTGRES_* settings when set.
	DSN        string
	SQLitePath string
	MaxOpen    int
	MaxIdle    int
}

// OptionsFromEnv reads DB_DRIVER, DATABASE_URL, POSTGRES_* and SQLITE_PATH.
func OptionsFromEnv() Options {
	opts := Options{
		Driver:     strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres)),
		DSN:        envutil.String("DATABASE_URL", ""),
		SQLitePath: envutil.String("SQLITE_PATH", "verifeye.db"),
		MaxOpen:    envutil.Int("DB_MAX_OPEN_CONNS", 20),
		MaxIdle:    envutil.Int("DB_MAX_IDLE_CONNS", 5),
	}
	if opts.Driver == DriverPostgres && opts.DSN == "" {
		opts.DSN = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			envutil.String("POSTGRES_USER", "postgres"),
			envutil.String("POSTGRES_PASSWORD", ""),
			envutil.String("POSTGRES_HOST", "localhost"),
			envutil.String("POSTGRES_PORT", "5432"),
			envutil.String("POSTGRES_NAME", "verifeye"),
			envutil.String("POSTGRES_SSLMODE", "disable"),
		)
	}
	return opts
}

type Service struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

func NewService(opts Options, baseLog *logger.Logger) (*Service, error) {
	serviceLog := baseLog.With("service", "DBService")

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres, "postgresql", "":
		opts.Driver = DriverPostgres
		dialector = postgres.Open(opts.DSN)
	case DriverSQLite, "sqlite3":
		opts.Driver = DriverSQLite
		dialector = sqlite.Open(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.Driver == DriverSQLite {
		// A single writer avoids "database is locked" under the worker pool.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpen > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpen)
		}
		if opts.MaxIdle > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdle)
		}
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	serviceLog.Info("Database connected", "driver", opts.Driver)
	return &Service{db: gdb, driver: opts.Driver, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB    { return s.db }
func (s *Service) Driver() string { return s.driver }

func (s *Service) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
