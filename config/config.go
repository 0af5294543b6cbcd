// Package config loads settings from the environment (and an optional .env
// file) and opens the database backing the store.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/beartracks/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	GinMode            string        `env:"GIN_MODE" envDefault:"debug"`
	DBDriver           string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN              string        `env:"DB_DSN" envDefault:"beartracks.db"`
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	PollInterval       time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
	AdminEmail         string        `env:"ADMIN_EMAIL"`
	AdminPassword      string        `env:"ADMIN_PASSWORD"`
	AdminName          string        `env:"ADMIN_NAME" envDefault:"Admin User"`
	CORSOrigin         string        `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
	RateLimitPerSecond int           `env:"RATE_LIMIT_PER_SECOND" envDefault:"50"`
}

// Load reads .env when present and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debug(".env file not found, using environment only")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	return cfg, nil
}

// InitDB opens the configured database. Only the key-value table is
// migrated, by the store itself.
func InitDB(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DBDSN)
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver != "mysql" {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	utils.InfoLogger.Printf("Connected to %s database", dialectName(cfg.DBDriver))
	return db, nil
}

func dialectName(driver string) string {
	if driver == "" {
		return "sqlite"
	}
	return driver
}
