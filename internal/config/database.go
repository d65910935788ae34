package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// migratedModels is in creation order: resumes and evaluations reference users.
var migratedModels = []interface{}{
	&models.User{},
	&models.Resume{},
	&models.Evaluation{},
}

// InitDatabase opens the Postgres pool, checks it answers and migrates the
// schema.
func InitDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database %s:%s is unreachable: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	log.Printf("✅ Connected to Postgres %s:%s/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := db.AutoMigrate(migratedModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Printf("✅ Migrated %d tables\n", len(migratedModels))

	return db, nil
}

// gormConfig turns unique violations into gorm.ErrDuplicatedKey, which the
// repositories map to models.ErrConflict.
func gormConfig(cfg *Config) *gorm.Config {
	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}

	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}
