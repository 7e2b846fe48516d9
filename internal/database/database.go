package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yukikurage/directory-api/internal/config"
	"github.com/yukikurage/directory-api/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LoggerConfig is the gorm logger setup. Lookups that miss are part of
// normal control flow (unit resolve, login of an unknown user) and are not
// logged.
var LoggerConfig = logger.Config{
	SlowThreshold:             200 * time.Millisecond,
	LogLevel:                  logger.Warn,
	IgnoreRecordNotFoundError: true,
	Colorful:                  false,
}

// Options returns the gorm configuration shared by every dialect. gorm
// warnings and errors are written through log at warn level.
// Foreign key constraints are not created: Person.UnitName and
// PersonPosition.PositionName may dangle after a Unit or Position is deleted.
func Options(log *zap.Logger) (*gorm.Config, error) {
	writer, err := zap.NewStdLogAt(log.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create gorm logger: %w", err)
	}
	return &gorm.Config{
		Logger:                                   logger.New(writer, LoggerConfig),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}, nil
}

// Dialector picks the gorm driver for cfg.DBDriver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return sqlite.Open(cfg.DBPath + "?_busy_timeout=5000"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Connect opens the connection pool described by cfg.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := open(dialector, cfg.DBDriver == "sqlite", log)
	if err != nil {
		return nil, err
	}

	log.Info("database connection established", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// OpenSQLite opens a sqlite database at path (":memory:" included). gorm
// logging is discarded.
func OpenSQLite(path string) (*gorm.DB, error) {
	return open(sqlite.Open(path), true, zap.NewNop())
}

func open(dialector gorm.Dialector, singleConn bool, log *zap.Logger) (*gorm.DB, error) {
	opts, err := Options(log)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if singleConn {
		// one connection: a :memory: database lives per connection, and a
		// single writer keeps sqlite from reporting "database is locked"
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates every table the directory needs.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	err := db.AutoMigrate(
		&models.Unit{},
		&models.Position{},
		&models.Person{},
		&models.PersonPosition{},
		&models.LoginEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db, log); err != nil {
		return err
	}

	log.Info("database migrations completed")
	return nil
}

// HealthCheck pings the underlying connection pool.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
