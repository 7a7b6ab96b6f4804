package services

import (
	"fmt"
	"testing"

	"codequest/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database, namespaced per test so
// parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserStats{},
		&models.Question{},
		&models.Attempt{},
		&models.QuestionCompletion{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Test{},
		&models.TestQuestion{},
		&models.TestAssignment{},
		&models.TestAttempt{},
		&models.TestAttemptAnswer{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedQuestion(t *testing.T, db *gorm.DB, difficulty string, points int, correct string) models.Question {
	t.Helper()

	question := models.Question{
		Title:         "Sample question",
		QuestionText:  "What does this snippet print?",
		OptionA:       "1",
		OptionB:       "2",
		OptionC:       "3",
		OptionD:       "4",
		CorrectAnswer: correct,
		Difficulty:    difficulty,
		Topic:         "basics",
		Points:        points,
		IsActive:      true,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return question
}
