package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TestStatusDraft     = "draft"
	TestStatusPublished = "published"
	TestStatusArchived  = "archived"

	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
	AttemptStatusAbandoned  = "abandoned"
)

type Test struct {
	gorm.Model
	Title            string
	Description      string
	SubjectID        *uint
	TimeLimitMinutes int    `gorm:"default:60"` // advisory, not enforced server-side
	PassingScore     int    `gorm:"default:50"`
	Status           string `gorm:"default:draft"` // draft, published, archived
	AssignedToAll    bool
	CreatedBy        uint
	Questions        []TestQuestion
}

// TestQuestion links a catalog question into a test; Points overrides the
// question's base reward for test scoring.
type TestQuestion struct {
	gorm.Model
	TestID     uint `gorm:"uniqueIndex:idx_test_question"`
	QuestionID uint `gorm:"uniqueIndex:idx_test_question"`
	OrderIndex int
	Points     int `gorm:"default:1"`
}

type TestAssignment struct {
	gorm.Model
	TestID     uint `gorm:"uniqueIndex:idx_test_assignment"`
	UserID     uint `gorm:"uniqueIndex:idx_test_assignment"`
	AssignedAt time.Time
	AssignedBy uint
}

// TestAttempt is one session of a user working through a test. Retakes are
// allowed; at most one attempt per (test, user) may be in_progress at a time,
// enforced by the start flow rather than a constraint.
type TestAttempt struct {
	gorm.Model
	TestID         uint `gorm:"index"`
	UserID         uint `gorm:"index"`
	StartedAt      time.Time
	SubmittedAt    *time.Time
	Status         string `gorm:"default:in_progress"` // in_progress, completed, abandoned
	Score          int
	TotalQuestions int
	CorrectAnswers int
}

// TestAttemptAnswer holds the normalized selected answer; unique per
// (attempt, question) so a resubmission updates rather than duplicates.
type TestAttemptAnswer struct {
	gorm.Model
	TestAttemptID  uint `gorm:"uniqueIndex:idx_attempt_question"`
	QuestionID     uint `gorm:"uniqueIndex:idx_attempt_question"`
	SelectedAnswer string
	IsCorrect      bool
	PointsEarned   int
	AnsweredAt     time.Time
}
