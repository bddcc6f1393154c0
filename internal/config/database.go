package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/hirehub/internal/models"
)

// searchMigrations back the full-text search used by job listing. The wrapper
// function is IMMUTABLE so it can be used in an index expression.
var searchMigrations = []string{
	`CREATE OR REPLACE FUNCTION job_search_document(title text, description text, department text, location text, requirements text[])
RETURNS tsvector LANGUAGE sql IMMUTABLE AS $$
	SELECT to_tsvector('english',
		coalesce(title, '') || ' ' ||
		coalesce(description, '') || ' ' ||
		coalesce(department, '') || ' ' ||
		coalesce(location, '') || ' ' ||
		coalesce(array_to_string(requirements, ' '), ''))
$$`,
	`CREATE INDEX IF NOT EXISTS idx_job_postings_search ON job_postings
USING GIN (job_search_document(title, description, department, location, requirements))`,
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.JobPosting{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, stmt := range searchMigrations {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
	}

	log.Println("✅ Database migration completed")

	return db, nil
}
