package services

import (
	"time"

	"codequest/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HasFirstCorrect reports whether the user has already banked a correct
// answer for this question.
func HasFirstCorrect(db *gorm.DB, userID, questionID uint) (bool, error) {
	var count int64
	err := db.Model(&models.QuestionCompletion{}).
		Where("user_id = ? AND question_id = ? AND first_correct_at IS NOT NULL", userID, questionID).
		Count(&count).Error
	return count > 0, err
}

// RecordCompletion upserts the (user, question) ledger row: total_attempts is
// incremented on every submission and first_correct_at is set exactly once,
// on the first correct answer. The unique index makes the insert-or-update
// atomic, so a double-submit cannot create two rows. The returned bool
// reports whether this call is the one that claimed first_correct_at: the
// IS NULL guard flips the field at most once, and the affected row count
// tells racing submissions apart without a separate read.
func RecordCompletion(db *gorm.DB, userID, questionID uint, isCorrect bool) (bool, error) {
	now := time.Now()

	completion := models.QuestionCompletion{
		UserID:        userID,
		QuestionID:    questionID,
		TotalAttempts: 1,
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_attempts": gorm.Expr("total_attempts + 1"),
			"updated_at":     now,
		}),
	}).Create(&completion).Error
	if err != nil {
		return false, err
	}

	if !isCorrect {
		return false, nil
	}

	result := db.Model(&models.QuestionCompletion{}).
		Where("user_id = ? AND question_id = ? AND first_correct_at IS NULL", userID, questionID).
		Update("first_correct_at", now)
	return result.RowsAffected > 0, result.Error
}
