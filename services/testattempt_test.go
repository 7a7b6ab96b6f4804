package services

import (
	"testing"

	"codequest/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedTest(t *testing.T, db *gorm.DB, questionCount int) (models.Test, []models.Question) {
	t.Helper()

	test := models.Test{
		Title:         "Checkpoint",
		Status:        models.TestStatusPublished,
		PassingScore:  50,
		AssignedToAll: true,
	}
	if err := db.Create(&test).Error; err != nil {
		t.Fatalf("seed test: %v", err)
	}

	questions := make([]models.Question, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		q := seedQuestion(t, db, "easy", 10, "A")
		questions = append(questions, q)
		tq := models.TestQuestion{
			TestID:     test.ID,
			QuestionID: q.ID,
			OrderIndex: i + 1,
			Points:     1,
		}
		if err := db.Create(&tq).Error; err != nil {
			t.Fatalf("seed test question: %v", err)
		}
	}

	return test, questions
}

func TestStartTestAttemptIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "starter")
	test, _ := seedTest(t, db, 2)

	first, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.AttemptStatusInProgress, first.Status)

	second, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "an open attempt is resumed, not duplicated")

	var count int64
	db.Model(&models.TestAttempt{}).Where("test_id = ? AND user_id = ?", test.ID, user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStartTestAttemptUnknownTest(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "nowhere")

	_, err := StartTestAttempt(db, 9999, user.ID)
	assert.ErrorIs(t, err, ErrTestNotFound)
}

func TestSubmitTestAnswerRequiresActiveAttempt(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "eager")
	test, questions := seedTest(t, db, 1)

	_, err := SubmitTestAnswer(db, test.ID, user.ID, questions[0].ID, "A")
	assert.ErrorIs(t, err, ErrNoActiveAttempt)
}

func TestSubmitTestAnswerUpsertsNormalized(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "reviser")
	test, questions := seedTest(t, db, 1)

	attempt, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)

	result, err := SubmitTestAnswer(db, test.ID, user.ID, questions[0].ID, " b ")
	assert.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, "B", result.SelectedAnswer)

	result, err = SubmitTestAnswer(db, test.ID, user.ID, questions[0].ID, " a ")
	assert.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 1, result.PointsEarned)

	var answers []models.TestAttemptAnswer
	db.Where("test_attempt_id = ?", attempt.ID).Find(&answers)
	assert.Len(t, answers, 1, "a resubmission replaces, never duplicates")
	assert.Equal(t, "A", answers[0].SelectedAnswer)
	assert.True(t, answers[0].IsCorrect)
}

func TestFinishTestAttemptCountsUnanswered(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "partial")
	test, questions := seedTest(t, db, 5)

	_, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)

	// three answered, two of them correct, two questions left blank
	_, err = SubmitTestAnswer(db, test.ID, user.ID, questions[0].ID, "A")
	assert.NoError(t, err)
	_, err = SubmitTestAnswer(db, test.ID, user.ID, questions[1].ID, "A")
	assert.NoError(t, err)
	_, err = SubmitTestAnswer(db, test.ID, user.ID, questions[2].ID, "C")
	assert.NoError(t, err)

	attempt, err := FinishTestAttempt(db, test.ID, user.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.AttemptStatusCompleted, attempt.Status)
	assert.NotNil(t, attempt.SubmittedAt)
	assert.Equal(t, 5, attempt.TotalQuestions, "blanks stay in the denominator")
	assert.Equal(t, 2, attempt.CorrectAnswers)
	assert.Equal(t, 40, attempt.Score)
}

func TestFinishTestAttemptUsesFallbackAnswers(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "formonly")
	test, questions := seedTest(t, db, 2)

	_, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)

	// nothing hit the per-question endpoint; the closing form carries it all
	fallback := map[uint]string{
		questions[0].ID: "a",
		questions[1].ID: "b",
	}
	attempt, err := FinishTestAttempt(db, test.ID, user.ID, fallback)
	assert.NoError(t, err)
	assert.Equal(t, 1, attempt.CorrectAnswers)
	assert.Equal(t, 50, attempt.Score)
}

func TestFinishTestAttemptFallbackNeverOverwrites(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "racer")
	test, questions := seedTest(t, db, 1)

	_, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)

	_, err = SubmitTestAnswer(db, test.ID, user.ID, questions[0].ID, "A")
	assert.NoError(t, err)

	attempt, err := FinishTestAttempt(db, test.ID, user.ID, map[uint]string{questions[0].ID: "B"})
	assert.NoError(t, err)
	assert.Equal(t, 1, attempt.CorrectAnswers, "stored answers win over the fallback form")
}

func TestFinishTestAttemptRepairsStaleGrades(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "audited")
	test, questions := seedTest(t, db, 1)

	attempt, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)

	// a correct answer persisted with a wrong cached grade
	corrupted := models.TestAttemptAnswer{
		TestAttemptID:  attempt.ID,
		QuestionID:     questions[0].ID,
		SelectedAnswer: "A",
		IsCorrect:      false,
		PointsEarned:   0,
	}
	assert.NoError(t, db.Create(&corrupted).Error)

	finished, err := FinishTestAttempt(db, test.ID, user.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, finished.CorrectAnswers)
	assert.Equal(t, 100, finished.Score)

	var repaired models.TestAttemptAnswer
	db.First(&repaired, corrupted.ID)
	assert.True(t, repaired.IsCorrect)
	assert.Equal(t, 1, repaired.PointsEarned)
}

func TestFinishTestAttemptRequiresActiveAttempt(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "absent")
	test, _ := seedTest(t, db, 1)

	_, err := FinishTestAttempt(db, test.ID, user.ID, nil)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)
}

func TestRetakesAreIndependent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "retaker")
	test, questions := seedTest(t, db, 2)

	_, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)
	_, err = SubmitTestAnswer(db, test.ID, user.ID, questions[0].ID, "A")
	assert.NoError(t, err)
	_, err = SubmitTestAnswer(db, test.ID, user.ID, questions[1].ID, "A")
	assert.NoError(t, err)
	first, err := FinishTestAttempt(db, test.ID, user.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, 100, first.Score)

	second, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "a retake opens a new attempt")

	finished, err := FinishTestAttempt(db, test.ID, user.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, finished.Score, "the retake starts from a blank sheet")

	attempts, err := ListTestAttempts(db, test.ID, user.ID)
	assert.NoError(t, err)
	assert.Len(t, attempts, 2)
}

func TestTestAttemptResultsSynthesizesUnanswered(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "reviewer")
	test, questions := seedTest(t, db, 3)

	_, err := StartTestAttempt(db, test.ID, user.ID)
	assert.NoError(t, err)
	_, err = SubmitTestAnswer(db, test.ID, user.ID, questions[0].ID, "A")
	assert.NoError(t, err)
	_, err = FinishTestAttempt(db, test.ID, user.ID, nil)
	assert.NoError(t, err)

	attempt, views, err := TestAttemptResults(db, test.ID, user.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, models.AttemptStatusCompleted, attempt.Status)
	assert.Len(t, views, 3)

	assert.NotNil(t, views[0].SelectedAnswer)
	assert.True(t, views[0].IsCorrect)
	assert.Nil(t, views[1].SelectedAnswer)
	assert.Nil(t, views[2].SelectedAnswer)
	assert.False(t, views[1].IsCorrect)
}

func TestTestAttemptResultsNoCompletedAttempt(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "unseen")
	test, _ := seedTest(t, db, 1)

	_, _, err := TestAttemptResults(db, test.ID, user.ID, 0)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)
}
