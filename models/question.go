package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Question struct {
	gorm.Model
	Title         string
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string // A, B, C or D
	Explanation   string
	Difficulty    string `gorm:"default:easy"` // easy, medium, hard
	Topic         string
	Subject       string
	LanguageTrack string `gorm:"default:python"`
	Points        int    `gorm:"default:10"`
	IsActive      bool   `gorm:"default:true"`
}

// OptionText returns the display text for an answer letter.
func (q *Question) OptionText(letter string) string {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return "Unknown"
}

// Attempt is an append-only journal of practice submissions. Rows are never
// updated or deleted.
type Attempt struct {
	gorm.Model
	UserID         uint `gorm:"index"`
	QuestionID     uint `gorm:"index"`
	SelectedAnswer string
	IsCorrect      bool
	XPEarned       int
	AttemptedAt    time.Time
	IsFinalAttempt bool // correct AND XP was actually banked
}

// QuestionCompletion gates repeat XP: one row per (user, question), with
// first_correct_at set exactly once.
type QuestionCompletion struct {
	gorm.Model
	UserID         uint `gorm:"uniqueIndex:idx_completion_user_question"`
	QuestionID     uint `gorm:"uniqueIndex:idx_completion_user_question"`
	FirstCorrectAt *time.Time
	TotalAttempts  int `gorm:"default:0"`
}
