package database

import (
	"context"
	"fmt"
	"strings"

	"geobuild-atlas/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open opens a GORM DB. Postgres URLs go through pgx with PreferSimpleProtocol
// (avoids 42P05 "prepared statement already exists" behind PgBouncer/Supabase
// poolers); anything else is treated as a SQLite path or DSN.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if isPostgres(dsn) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	}
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is a separate database.
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// AutoMigrate creates the projects table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Project{})
}

// Seed inserts projects when the table is empty. Existing rows are left untouched.
func Seed(ctx context.Context, db *gorm.DB, projects []domain.Project) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Project{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	if count > 0 || len(projects) == 0 {
		return 0, nil
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&projects).Error; err != nil {
		return 0, fmt.Errorf("seed projects: %w", err)
	}
	log.Info().Int("count", len(projects)).Msg("Seeded projects")
	return len(projects), nil
}

// Source reads the working set from the projects table.
type Source struct {
	DB *gorm.DB
}

// Projects returns every project in dataset order.
func (s *Source) Projects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := s.DB.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return projects, nil
}

// Ping checks the underlying connection; used by the health endpoints.
func (s *Source) Ping() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
