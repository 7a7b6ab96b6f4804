package services

import (
	"errors"
	"log"
	"time"

	"codequest/models"
	"codequest/scoring"

	"gorm.io/gorm"
)

var ErrQuestionNotFound = errors.New("question not found")

// XP eligibility reason codes returned with every practice result.
const (
	ReasonParticipation    = "participation"
	ReasonFirstCorrect     = "first_correct"
	ReasonAlreadyCompleted = "already_completed"
	ReasonErrorFallback    = "error_fallback"
)

type PracticeResult struct {
	IsCorrect          bool     `json:"is_correct"`
	XPEarned           int      `json:"xp_earned"`
	NewXP              int      `json:"new_xp"`
	NewLevel           int      `json:"new_level"`
	CorrectAnswer      string   `json:"correct_answer"`
	CorrectAnswerText  string   `json:"correct_answer_text"`
	SelectedAnswer     string   `json:"selected_answer"`
	SelectedAnswerText string   `json:"selected_answer_text"`
	Explanation        string   `json:"explanation"`
	BadgesUnlocked     []string `json:"badge_unlocked"`
	XPAwarded          bool     `json:"xp_awarded"`
	AwardReason        string   `json:"award_reason"`
}

// SubmitPracticeAnswer runs the whole practice pipeline: grade, settle XP
// eligibility through the completion ledger's atomic first-correct claim,
// journal the attempt and commit the new XP/level in one transaction, then
// run the best-effort bookkeeping (streak, badges). Correct answers pay full
// XP only the first time per question; repeated wrong answers keep paying the
// small participation amount. Bookkeeping failures are logged and never fail
// the submission.
func SubmitPracticeAnswer(db *gorm.DB, userID, questionID uint, rawAnswer string) (*PracticeResult, error) {
	var question models.Question
	if err := db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	isCorrect := scoring.AnswersMatch(rawAnswer, question.CorrectAnswer)

	// The ledger write doubles as the eligibility decision: the guarded
	// first_correct_at claim inside RecordCompletion is atomic, so two racing
	// correct submissions cannot both bank the question. Ledger failures stay
	// advisory and fall back to awarding.
	eligible := true
	reason := ReasonParticipation
	if isCorrect {
		claimed, err := RecordCompletion(db, userID, question.ID, true)
		switch {
		case err != nil:
			log.Printf("[PRACTICE] completion claim failed for user %d question %d: %v", userID, question.ID, err)
			reason = ReasonErrorFallback
		case claimed:
			reason = ReasonFirstCorrect
		default:
			eligible = false
			reason = ReasonAlreadyCompleted
		}
	} else {
		if _, err := RecordCompletion(db, userID, question.ID, false); err != nil {
			log.Printf("[PRACTICE] could not record completion for user %d question %d: %v", userID, question.ID, err)
		}
	}

	xpEarned := 0
	if eligible {
		xpEarned = scoring.CalculateXP(isCorrect, question.Difficulty, question.Points)
	}

	var newXP, newLevel int
	err := db.Transaction(func(tx *gorm.DB) error {
		attempt := models.Attempt{
			UserID:         userID,
			QuestionID:     question.ID,
			SelectedAnswer: rawAnswer,
			IsCorrect:      isCorrect,
			XPEarned:       xpEarned,
			AttemptedAt:    time.Now(),
			IsFinalAttempt: isCorrect && eligible,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		var stats models.UserStats
		if err := tx.Where("user_id = ?", userID).First(&stats).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			stats = models.UserStats{UserID: userID, XP: 0, Level: 1}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		}

		newXP = stats.XP + xpEarned
		newLevel = scoring.LevelForXP(newXP)

		return tx.Model(&models.UserStats{}).Where("user_id = ?", userID).
			Updates(map[string]interface{}{"xp": newXP, "level": newLevel}).Error
	})
	if err != nil {
		return nil, err
	}

	// Bookkeeping below is best-effort: the XP is already committed and a
	// failure here must not surface to the caller.
	if err := UpdateStreak(db, userID); err != nil {
		log.Printf("[PRACTICE] could not update streak for user %d: %v", userID, err)
	}
	unlocked, err := EvaluateBadges(db, userID, newXP, newLevel)
	if err != nil {
		log.Printf("[PRACTICE] badge evaluation failed for user %d: %v", userID, err)
	}
	if unlocked == nil {
		unlocked = []string{}
	}

	explanation := question.Explanation
	if explanation == "" {
		explanation = "No explanation provided."
	}

	return &PracticeResult{
		IsCorrect:          isCorrect,
		XPEarned:           xpEarned,
		NewXP:              newXP,
		NewLevel:           newLevel,
		CorrectAnswer:      question.CorrectAnswer,
		CorrectAnswerText:  question.OptionText(question.CorrectAnswer),
		SelectedAnswer:     rawAnswer,
		SelectedAnswerText: question.OptionText(rawAnswer),
		Explanation:        explanation,
		BadgesUnlocked:     unlocked,
		XPAwarded:          eligible,
		AwardReason:        reason,
	}, nil
}
