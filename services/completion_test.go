package services

import (
	"testing"
	"time"

	"codequest/models"

	"github.com/stretchr/testify/assert"
)

func TestRecordCompletionUpsertsSingleRow(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "upsert")
	question := seedQuestion(t, db, "easy", 10, "A")

	for i := 0; i < 3; i++ {
		claimed, err := RecordCompletion(db, user.ID, question.ID, false)
		assert.NoError(t, err)
		assert.False(t, claimed, "a wrong answer never claims the question")
	}

	var rows []models.QuestionCompletion
	db.Where("user_id = ?", user.ID).Find(&rows)
	assert.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].TotalAttempts)
	assert.Nil(t, rows[0].FirstCorrectAt)
}

func TestRecordCompletionClaimsFirstCorrectOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "firstcorrect")
	question := seedQuestion(t, db, "easy", 10, "A")

	claimed, err := RecordCompletion(db, user.ID, question.ID, false)
	assert.NoError(t, err)
	assert.False(t, claimed)

	claimed, err = RecordCompletion(db, user.ID, question.ID, true)
	assert.NoError(t, err)
	assert.True(t, claimed, "the first correct submission wins the claim")

	var row models.QuestionCompletion
	db.Where("user_id = ? AND question_id = ?", user.ID, question.ID).First(&row)
	assert.NotNil(t, row.FirstCorrectAt)
	firstCorrect := *row.FirstCorrectAt

	time.Sleep(10 * time.Millisecond)
	claimed, err = RecordCompletion(db, user.ID, question.ID, true)
	assert.NoError(t, err)
	assert.False(t, claimed, "a second correct submission loses the claim")

	db.Where("user_id = ? AND question_id = ?", user.ID, question.ID).First(&row)
	assert.Equal(t, 3, row.TotalAttempts)
	assert.True(t, row.FirstCorrectAt.Equal(firstCorrect), "first_correct_at must never move")
}

func TestRecordCompletionClaimOnFreshRow(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "fresh")
	question := seedQuestion(t, db, "easy", 10, "A")

	// a correct first submission both creates the row and claims it
	claimed, err := RecordCompletion(db, user.ID, question.ID, true)
	assert.NoError(t, err)
	assert.True(t, claimed)

	var row models.QuestionCompletion
	db.Where("user_id = ? AND question_id = ?", user.ID, question.ID).First(&row)
	assert.Equal(t, 1, row.TotalAttempts)
	assert.NotNil(t, row.FirstCorrectAt)
}

func TestHasFirstCorrect(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "haschecked")
	question := seedQuestion(t, db, "easy", 10, "A")

	done, err := HasFirstCorrect(db, user.ID, question.ID)
	assert.NoError(t, err)
	assert.False(t, done)

	_, err = RecordCompletion(db, user.ID, question.ID, false)
	assert.NoError(t, err)
	done, err = HasFirstCorrect(db, user.ID, question.ID)
	assert.NoError(t, err)
	assert.False(t, done, "a wrong answer does not complete the question")

	_, err = RecordCompletion(db, user.ID, question.ID, true)
	assert.NoError(t, err)
	done, err = HasFirstCorrect(db, user.ID, question.ID)
	assert.NoError(t, err)
	assert.True(t, done)
}
