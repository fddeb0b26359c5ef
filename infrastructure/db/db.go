package db

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/naijj/ml-shelf/config"
	"github.com/naijj/ml-shelf/entity"
)

var DB *gorm.DB

func InitDB() error {
	if config.AppConfig == nil {
		return errors.New("app config is not initialized")
	}

	cfg := config.AppConfig.DB
	switch {
	case strings.EqualFold(cfg.Driver, "mysql"):
		return initMySQL(cfg)
	case strings.EqualFold(cfg.Driver, "sqlite"):
		return initSQLite(cfg.Path)
	default:
		return fmt.Errorf("unsupported db driver: %s", cfg.Driver)
	}
}

func initMySQL(cfg config.DBConfig) error {
	loc := url.QueryEscape("UTC")
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=%s&timeout=5s&readTimeout=10s&writeTimeout=10s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		loc,
	)

	gormDB, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf(
			"connect mysql failed (host=%s port=%d db=%s user=%s): %w",
			cfg.Host, cfg.Port, cfg.DBName, cfg.User, err,
		)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB failed: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("mysql ping failed: %w", err)
	}

	if err := ensureTables(gormDB); err != nil {
		return err
	}

	DB = gormDB
	return nil
}

func initSQLite(path string) error {
	if strings.TrimSpace(path) == "" {
		path = "data/mlshelf.db"
	}

	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open sqlite failed (path=%s): %w", path, err)
	}

	if err := ensureTables(gormDB); err != nil {
		return err
	}

	DB = gormDB
	return nil
}

// InitMemoryDB opens an in-memory sqlite database and installs it as the
// global handle. Intended for tests.
func InitMemoryDB() error {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open in-memory sqlite failed: %w", err)
	}

	if err := ensureTables(gormDB); err != nil {
		return err
	}

	DB = gormDB
	return nil
}

func ensureTables(gormDB *gorm.DB) error {
	models := []interface{}{
		&entity.Model{},
		&entity.Like{},
	}

	for _, m := range models {
		if gormDB.Migrator().HasTable(m) {
			continue
		}
		if err := gormDB.AutoMigrate(m); err != nil {
			return fmt.Errorf("auto migrate missing table failed: %w", err)
		}
	}

	return nil
}
