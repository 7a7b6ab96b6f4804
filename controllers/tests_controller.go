package controllers

import (
	"errors"
	"strconv"

	"codequest/config"
	"codequest/models"
	"codequest/services"
	"codequest/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TestsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTestsController(db *gorm.DB, cfg *config.Config) *TestsController {
	return &TestsController{DB: db, Cfg: cfg}
}

// GetAvailableTests lists published tests the user can take, either assigned
// to everyone or to them specifically.
func (tc *TestsController) GetAvailableTests(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var tests []models.Test
	err = tc.DB.
		Where("status = ?", models.TestStatusPublished).
		Where("assigned_to_all = ? OR id IN (?)", true,
			tc.DB.Model(&models.TestAssignment{}).Select("test_id").Where("user_id = ?", userID)).
		Order("id").
		Find(&tests).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := []fiber.Map{}
	for _, test := range tests {
		var questionCount int64
		tc.DB.Model(&models.TestQuestion{}).Where("test_id = ?", test.ID).Count(&questionCount)

		var attemptCount int64
		tc.DB.Model(&models.TestAttempt{}).
			Where("test_id = ? AND user_id = ? AND status = ?", test.ID, userID, models.AttemptStatusCompleted).
			Count(&attemptCount)

		var inProgress int64
		tc.DB.Model(&models.TestAttempt{}).
			Where("test_id = ? AND user_id = ? AND status = ?", test.ID, userID, models.AttemptStatusInProgress).
			Count(&inProgress)

		var bestScore *int
		if attemptCount > 0 {
			var best int
			tc.DB.Model(&models.TestAttempt{}).
				Where("test_id = ? AND user_id = ? AND status = ?", test.ID, userID, models.AttemptStatusCompleted).
				Select("MAX(score)").
				Scan(&best)
			bestScore = &best
		}

		result = append(result, fiber.Map{
			"id":                 test.ID,
			"title":              test.Title,
			"description":        test.Description,
			"time_limit_minutes": test.TimeLimitMinutes,
			"passing_score":      test.PassingScore,
			"question_count":     questionCount,
			"attempts_completed": attemptCount,
			"has_in_progress":    inProgress > 0,
			"best_score":         bestScore,
		})
	}

	return c.JSON(result)
}

// GetTestDetails returns the test and its questions without correct answers.
func (tc *TestsController) GetTestDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.Test
	if err := tc.DB.Preload("Questions").First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	questions := []fiber.Map{}
	for _, tq := range test.Questions {
		var question models.Question
		if err := tc.DB.First(&question, tq.QuestionID).Error; err != nil {
			continue
		}
		questions = append(questions, fiber.Map{
			"id":            question.ID,
			"title":         question.Title,
			"question_text": question.QuestionText,
			"option_a":      question.OptionA,
			"option_b":      question.OptionB,
			"option_c":      question.OptionC,
			"option_d":      question.OptionD,
			"order":         tq.OrderIndex,
			"points":        tq.Points,
		})
	}

	attempts, err := services.ListTestAttempts(tc.DB, uint(testID), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"test": fiber.Map{
			"id":                 test.ID,
			"title":              test.Title,
			"description":        test.Description,
			"time_limit_minutes": test.TimeLimitMinutes,
			"passing_score":      test.PassingScore,
			"status":             test.Status,
			"questions":          questions,
		},
		"attempts": attempts,
	})
}

func (tc *TestsController) StartTest(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	attempt, err := services.StartTestAttempt(tc.DB, uint(testID), userID)
	if err != nil {
		if errors.Is(err, services.ErrTestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not start attempt",
		})
	}

	return c.JSON(fiber.Map{
		"attempt_id": attempt.ID,
		"test_id":    attempt.TestID,
		"started_at": attempt.StartedAt,
		"status":     attempt.Status,
	})
}

func (tc *TestsController) SubmitTestAnswer(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	type AnswerInput struct {
		QuestionID uint   `json:"question_id"`
		Answer     string `json:"answer"`
	}

	var input AnswerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.QuestionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question ID is required",
		})
	}

	result, err := services.SubmitTestAnswer(tc.DB, uint(testID), userID, input.QuestionID, input.Answer)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveAttempt):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "No attempt in progress for this test",
			})
		case errors.Is(err, services.ErrQuestionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save answer",
			})
		}
	}

	return c.JSON(result)
}

// FinishTest closes the active attempt. The body may carry a full answer map
// as a fallback for answers that never reached the per-question endpoint.
func (tc *TestsController) FinishTest(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	type FinishInput struct {
		Answers map[string]string `json:"answers"`
	}

	var input FinishInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot parse JSON",
			})
		}
	}

	fallback := map[uint]string{}
	for key, answer := range input.Answers {
		questionID, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		fallback[uint(questionID)] = answer
	}

	attempt, err := services.FinishTestAttempt(tc.DB, uint(testID), userID, fallback)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveAttempt) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "No attempt in progress for this test",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not finish attempt",
		})
	}

	var test models.Test
	tc.DB.First(&test, testID)

	return c.JSON(fiber.Map{
		"attempt_id":      attempt.ID,
		"score":           attempt.Score,
		"total_questions": attempt.TotalQuestions,
		"correct_answers": attempt.CorrectAnswers,
		"passed":          attempt.Score >= test.PassingScore,
		"submitted_at":    attempt.SubmittedAt,
		"status":          attempt.Status,
	})
}

// GetTestResults returns a completed attempt with its per-question breakdown.
// attempt_id=0 (or omitted) means the most recent completed attempt.
func (tc *TestsController) GetTestResults(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	attemptID, _ := strconv.Atoi(c.Query("attempt_id", "0"))

	attempt, answers, err := services.TestAttemptResults(tc.DB, uint(testID), userID, uint(attemptID))
	if err != nil {
		if errors.Is(err, services.ErrNoActiveAttempt) || errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No completed attempt found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load results",
		})
	}

	history, err := services.ListTestAttempts(tc.DB, uint(testID), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load results",
		})
	}

	var test models.Test
	tc.DB.First(&test, testID)

	return c.JSON(fiber.Map{
		"attempt": fiber.Map{
			"id":              attempt.ID,
			"score":           attempt.Score,
			"total_questions": attempt.TotalQuestions,
			"correct_answers": attempt.CorrectAnswers,
			"passed":          attempt.Score >= test.PassingScore,
			"started_at":      attempt.StartedAt,
			"submitted_at":    attempt.SubmittedAt,
		},
		"answers": answers,
		"history": history,
	})
}
