package services

import (
	"errors"
	"time"

	"codequest/models"
	"codequest/scoring"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTestNotFound    = errors.New("test not found")
	ErrNoActiveAttempt = errors.New("no active test attempt")
)

// StartTestAttempt resumes the in-progress attempt for (test, user) if one
// exists, otherwise opens a new one. Retakes after a completed attempt are
// allowed; starting is idempotent while an attempt is open, which is what
// keeps at most one in_progress row per pair.
func StartTestAttempt(db *gorm.DB, testID, userID uint) (*models.TestAttempt, error) {
	var test models.Test
	if err := db.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}

	var attempt models.TestAttempt
	err := db.Where("test_id = ? AND user_id = ? AND status = ?", testID, userID, models.AttemptStatusInProgress).
		Order("started_at DESC").First(&attempt).Error
	if err == nil {
		return &attempt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attempt = models.TestAttempt{
		TestID:    testID,
		UserID:    userID,
		StartedAt: time.Now(),
		Status:    models.AttemptStatusInProgress,
	}
	if err := db.Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func activeAttempt(db *gorm.DB, testID, userID uint) (*models.TestAttempt, error) {
	var attempt models.TestAttempt
	err := db.Where("test_id = ? AND user_id = ? AND status = ?", testID, userID, models.AttemptStatusInProgress).
		Order("started_at DESC").First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveAttempt
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// testQuestionPoints returns the points a question is worth inside a test,
// falling back to 1 when the question is not actually on the test.
func testQuestionPoints(db *gorm.DB, testID, questionID uint) int {
	var tq models.TestQuestion
	if err := db.Where("test_id = ? AND question_id = ?", testID, questionID).First(&tq).Error; err != nil {
		return 1
	}
	return tq.Points
}

type TestAnswerResult struct {
	IsCorrect      bool   `json:"is_correct"`
	CorrectAnswer  string `json:"correct_answer"`
	SelectedAnswer string `json:"selected_answer"`
	Explanation    string `json:"explanation"`
	PointsEarned   int    `json:"points_earned"`
	TotalPoints    int    `json:"total_points"`
}

// SubmitTestAnswer grades one question inside the active attempt and upserts
// the answer row, storing the normalized form. Requires an in_progress
// attempt.
func SubmitTestAnswer(db *gorm.DB, testID, userID, questionID uint, rawAnswer string) (*TestAnswerResult, error) {
	attempt, err := activeAttempt(db, testID, userID)
	if err != nil {
		return nil, err
	}

	var question models.Question
	if err := db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	isCorrect := scoring.AnswersMatch(rawAnswer, question.CorrectAnswer)
	points := testQuestionPoints(db, testID, questionID)
	pointsEarned := 0
	if isCorrect {
		pointsEarned = points
	}

	answer := models.TestAttemptAnswer{
		TestAttemptID:  attempt.ID,
		QuestionID:     questionID,
		SelectedAnswer: scoring.NormalizeAnswer(rawAnswer),
		IsCorrect:      isCorrect,
		PointsEarned:   pointsEarned,
		AnsweredAt:     time.Now(),
	}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "test_attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"selected_answer": answer.SelectedAnswer,
			"is_correct":      answer.IsCorrect,
			"points_earned":   answer.PointsEarned,
			"answered_at":     answer.AnsweredAt,
			"updated_at":      answer.AnsweredAt,
		}),
	}).Create(&answer).Error
	if err != nil {
		return nil, err
	}

	return &TestAnswerResult{
		IsCorrect:      isCorrect,
		CorrectAnswer:  question.CorrectAnswer,
		SelectedAnswer: answer.SelectedAnswer,
		Explanation:    question.Explanation,
		PointsEarned:   pointsEarned,
		TotalPoints:    points,
	}, nil
}

// FinishTestAttempt closes the active attempt. fallbackAnswers carries
// answers captured by the final form submission, keyed by question id; any
// test question without a stored answer is graded from it first. Every stored
// answer is then re-verified against the grader and repaired if the persisted
// correctness disagrees, so the grader stays the single source of truth. The
// aggregate counts every question on the test, answered or not.
func FinishTestAttempt(db *gorm.DB, testID, userID uint, fallbackAnswers map[uint]string) (*models.TestAttempt, error) {
	attempt, err := activeAttempt(db, testID, userID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var testQuestions []models.TestQuestion
		if err := tx.Where("test_id = ?", testID).Order("order_index").Find(&testQuestions).Error; err != nil {
			return err
		}

		// reconciliation: capture answers that never made it through the
		// per-question submission path
		for _, tq := range testQuestions {
			raw, ok := fallbackAnswers[tq.QuestionID]
			if !ok || scoring.NormalizeAnswer(raw) == "" {
				continue
			}

			var existing models.TestAttemptAnswer
			err := tx.Where("test_attempt_id = ? AND question_id = ?", attempt.ID, tq.QuestionID).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			var question models.Question
			if err := tx.First(&question, tq.QuestionID).Error; err != nil {
				continue
			}
			isCorrect := scoring.AnswersMatch(raw, question.CorrectAnswer)
			pointsEarned := 0
			if isCorrect {
				pointsEarned = tq.Points
			}
			answer := models.TestAttemptAnswer{
				TestAttemptID:  attempt.ID,
				QuestionID:     tq.QuestionID,
				SelectedAnswer: scoring.NormalizeAnswer(raw),
				IsCorrect:      isCorrect,
				PointsEarned:   pointsEarned,
				AnsweredAt:     time.Now(),
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}

		// re-verification: persisted is_correct is a cache that may be stale
		// or written under different normalization; regrade and repair
		var answers []models.TestAttemptAnswer
		if err := tx.Where("test_attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
			return err
		}
		for _, a := range answers {
			var question models.Question
			if err := tx.First(&question, a.QuestionID).Error; err != nil {
				continue
			}
			shouldBeCorrect := scoring.AnswersMatch(a.SelectedAnswer, question.CorrectAnswer)
			if shouldBeCorrect == a.IsCorrect {
				continue
			}
			points := 0
			if shouldBeCorrect {
				points = testQuestionPoints(tx, testID, a.QuestionID)
			}
			err := tx.Model(&models.TestAttemptAnswer{}).Where("id = ?", a.ID).
				Updates(map[string]interface{}{
					"is_correct":    shouldBeCorrect,
					"points_earned": points,
				}).Error
			if err != nil {
				return err
			}
		}

		// aggregate over all questions on the test, not just answered ones
		if err := tx.Where("test_attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
			return err
		}
		correctAnswers := 0
		totalScore := 0
		for _, a := range answers {
			if a.IsCorrect {
				correctAnswers++
			}
			totalScore += a.PointsEarned
		}

		totalQuestions := len(testQuestions)
		maxScore := 0
		for _, tq := range testQuestions {
			maxScore += tq.Points
		}
		if maxScore == 0 {
			maxScore = totalQuestions
		}

		percentage := 0.0
		if maxScore > 0 {
			percentage = float64(totalScore) / float64(maxScore) * 100
		}

		now := time.Now()
		attempt.Status = models.AttemptStatusCompleted
		attempt.SubmittedAt = &now
		attempt.Score = int(percentage)
		attempt.TotalQuestions = totalQuestions
		attempt.CorrectAnswers = correctAnswers

		return tx.Model(&models.TestAttempt{}).Where("id = ?", attempt.ID).
			Updates(map[string]interface{}{
				"status":          attempt.Status,
				"submitted_at":    now,
				"score":           attempt.Score,
				"total_questions": attempt.TotalQuestions,
				"correct_answers": attempt.CorrectAnswers,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return attempt, nil
}

// AttemptAnswerView is one row of the results screen; unanswered questions
// are synthesized with a nil SelectedAnswer so no question is ever omitted.
type AttemptAnswerView struct {
	QuestionID     uint       `json:"question_id"`
	Title          string     `json:"title"`
	QuestionText   string     `json:"question_text"`
	OptionA        string     `json:"option_a"`
	OptionB        string     `json:"option_b"`
	OptionC        string     `json:"option_c"`
	OptionD        string     `json:"option_d"`
	CorrectAnswer  string     `json:"correct_answer"`
	Explanation    string     `json:"explanation"`
	Difficulty     string     `json:"difficulty"`
	OrderIndex     int        `json:"order_index"`
	QuestionPoints int        `json:"question_points"`
	SelectedAnswer *string    `json:"selected_answer"`
	IsCorrect      bool       `json:"is_correct"`
	PointsEarned   int        `json:"points_earned"`
	AnsweredAt     *time.Time `json:"answered_at"`
}

// TestAttemptResults loads an attempt (the latest completed one when
// attemptID is zero) together with a per-question breakdown.
func TestAttemptResults(db *gorm.DB, testID, userID, attemptID uint) (*models.TestAttempt, []AttemptAnswerView, error) {
	var attempt models.TestAttempt
	var err error
	if attemptID != 0 {
		err = db.Where("id = ? AND user_id = ? AND test_id = ?", attemptID, userID, testID).First(&attempt).Error
	} else {
		err = db.Where("test_id = ? AND user_id = ? AND status = ?", testID, userID, models.AttemptStatusCompleted).
			Order("submitted_at DESC").First(&attempt).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoActiveAttempt
		}
		return nil, nil, err
	}

	var testQuestions []models.TestQuestion
	if err := db.Where("test_id = ?", testID).Order("order_index").Find(&testQuestions).Error; err != nil {
		return nil, nil, err
	}

	var answers []models.TestAttemptAnswer
	if err := db.Where("test_attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		return nil, nil, err
	}
	answered := make(map[uint]models.TestAttemptAnswer, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = a
	}

	views := make([]AttemptAnswerView, 0, len(testQuestions))
	for _, tq := range testQuestions {
		var question models.Question
		if err := db.First(&question, tq.QuestionID).Error; err != nil {
			continue
		}
		view := AttemptAnswerView{
			QuestionID:     tq.QuestionID,
			Title:          question.Title,
			QuestionText:   question.QuestionText,
			OptionA:        question.OptionA,
			OptionB:        question.OptionB,
			OptionC:        question.OptionC,
			OptionD:        question.OptionD,
			CorrectAnswer:  question.CorrectAnswer,
			Explanation:    question.Explanation,
			Difficulty:     question.Difficulty,
			OrderIndex:     tq.OrderIndex,
			QuestionPoints: tq.Points,
		}
		if a, ok := answered[tq.QuestionID]; ok && a.SelectedAnswer != "" {
			selected := a.SelectedAnswer
			answeredAt := a.AnsweredAt
			view.SelectedAnswer = &selected
			view.IsCorrect = a.IsCorrect
			view.PointsEarned = a.PointsEarned
			view.AnsweredAt = &answeredAt
		}
		views = append(views, view)
	}

	return &attempt, views, nil
}

// ListTestAttempts returns the user's attempt history for a test, newest
// first.
func ListTestAttempts(db *gorm.DB, testID, userID uint) ([]models.TestAttempt, error) {
	var attempts []models.TestAttempt
	err := db.Where("test_id = ? AND user_id = ?", testID, userID).
		Order("started_at DESC").Find(&attempts).Error
	return attempts, err
}
