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

type PracticeController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPracticeController(db *gorm.DB, cfg *config.Config) *PracticeController {
	return &PracticeController{DB: db, Cfg: cfg}
}

func (pc *PracticeController) ListQuestions(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := pc.DB.Model(&models.Question{}).Where("is_active = ?", true)

	if track := c.Query("language_track"); track != "" {
		query = query.Where("language_track = ?", track)
	}
	if topic := c.Query("topic"); topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var questions []models.Question
	if err := query.Order("id").Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Completed question IDs so the client can mark solved ones.
	var completedIDs []uint
	pc.DB.Model(&models.QuestionCompletion{}).
		Where("user_id = ? AND first_correct_at IS NOT NULL", userID).
		Pluck("question_id", &completedIDs)

	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	result := []fiber.Map{}
	for _, q := range questions {
		result = append(result, fiber.Map{
			"id":             q.ID,
			"title":          q.Title,
			"difficulty":     q.Difficulty,
			"topic":          q.Topic,
			"subject":        q.Subject,
			"language_track": q.LanguageTrack,
			"points":         q.Points,
			"completed":      completed[q.ID],
		})
	}

	return c.JSON(result)
}

func (pc *PracticeController) GetQuestion(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.Question
	if err := pc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var attempts []models.Attempt
	pc.DB.Where("user_id = ? AND question_id = ?", userID, questionID).
		Order("attempted_at DESC").
		Limit(5).
		Find(&attempts)

	history := []fiber.Map{}
	for _, a := range attempts {
		history = append(history, fiber.Map{
			"selected_answer": a.SelectedAnswer,
			"is_correct":      a.IsCorrect,
			"xp_earned":       a.XPEarned,
			"attempted_at":    a.AttemptedAt,
		})
	}

	// The correct answer and explanation are withheld until submission.
	return c.JSON(fiber.Map{
		"question": fiber.Map{
			"id":             question.ID,
			"title":          question.Title,
			"question_text":  question.QuestionText,
			"option_a":       question.OptionA,
			"option_b":       question.OptionB,
			"option_c":       question.OptionC,
			"option_d":       question.OptionD,
			"difficulty":     question.Difficulty,
			"topic":          question.Topic,
			"subject":        question.Subject,
			"language_track": question.LanguageTrack,
			"points":         question.Points,
		},
		"recent_attempts": history,
	})
}

func (pc *PracticeController) SubmitAnswer(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	type AnswerInput struct {
		Answer string `json:"answer"`
	}

	var input AnswerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Answer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Answer is required",
		})
	}

	result, err := services.SubmitPracticeAnswer(pc.DB, userID, uint(questionID), input.Answer)
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record attempt",
		})
	}

	return c.JSON(result)
}

func (pc *PracticeController) Dashboard(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	stats, err := services.GetUserStats(pc.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load user stats",
		})
	}

	var recentAttempts []models.Attempt
	pc.DB.Where("user_id = ?", userID).
		Order("attempted_at DESC").
		Limit(10).
		Find(&recentAttempts)

	recent := []fiber.Map{}
	for _, a := range recentAttempts {
		var question models.Question
		if err := pc.DB.First(&question, a.QuestionID).Error; err != nil {
			continue
		}
		recent = append(recent, fiber.Map{
			"question_id":    a.QuestionID,
			"question_title": question.Title,
			"topic":          question.Topic,
			"is_correct":     a.IsCorrect,
			"xp_earned":      a.XPEarned,
			"attempted_at":   a.AttemptedAt,
		})
	}

	topics, err := services.TopicPerformanceForUser(pc.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load topic performance",
		})
	}

	history, err := services.XPHistory(pc.DB, userID, 30)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load XP history",
		})
	}

	type earnedBadge struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		BadgeType   string `json:"badge_type"`
	}
	var badges []earnedBadge
	pc.DB.Model(&models.Badge{}).
		Select("badges.name, badges.description, badges.badge_type").
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.earned_at").
		Scan(&badges)
	if badges == nil {
		badges = []earnedBadge{}
	}

	return c.JSON(fiber.Map{
		"stats":             stats,
		"recent_attempts":   recent,
		"topic_performance": topics,
		"xp_history":        history,
		"badges":            badges,
	})
}

func (pc *PracticeController) Leaderboard(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, pc.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	entries, err := services.Leaderboard(pc.DB, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load leaderboard",
		})
	}

	return c.JSON(fiber.Map{
		"leaderboard": entries,
	})
}
