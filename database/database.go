package database

import (
	"fmt"

	"codequest/config"
	"codequest/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for every entity the platform persists.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserStats{},
		&models.Question{},
		&models.Attempt{},
		&models.QuestionCompletion{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Subject{},
		&models.Topic{},
		&models.Note{},
		&models.Course{},
		&models.CourseSubject{},
		&models.CourseEnrollment{},
		&models.Test{},
		&models.TestQuestion{},
		&models.TestAssignment{},
		&models.TestAttempt{},
		&models.TestAttemptAnswer{},
	)
}
