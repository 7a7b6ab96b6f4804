package controllers

import (
	"errors"
	"strconv"
	"time"

	"codequest/config"
	"codequest/models"
	"codequest/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

type questionInput struct {
	Title         string `json:"title" validate:"required"`
	QuestionText  string `json:"question_text" validate:"required"`
	OptionA       string `json:"option_a" validate:"required"`
	OptionB       string `json:"option_b" validate:"required"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer" validate:"required,oneof=A B C D"`
	Explanation   string `json:"explanation"`
	Difficulty    string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Topic         string `json:"topic"`
	Subject       string `json:"subject"`
	LanguageTrack string `json:"language_track"`
	Points        int    `json:"points"`
}

func (ac *AdminController) ListQuestions(c *fiber.Ctx) error {
	query := ac.DB.Model(&models.Question{})

	if track := c.Query("language_track"); track != "" {
		query = query.Where("language_track = ?", track)
	}
	if topic := c.Query("topic"); topic != "" {
		query = query.Where("topic = ?", topic)
	}

	var questions []models.Question
	if err := query.Order("id").Find(&questions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(questions)
}

func (ac *AdminController) CreateQuestion(c *fiber.Ctx) error {
	var input questionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(input); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		return utils.ValidationError(c, fields)
	}

	question := models.Question{
		Title:         input.Title,
		QuestionText:  input.QuestionText,
		OptionA:       input.OptionA,
		OptionB:       input.OptionB,
		OptionC:       input.OptionC,
		OptionD:       input.OptionD,
		CorrectAnswer: input.CorrectAnswer,
		Explanation:   input.Explanation,
		Difficulty:    input.Difficulty,
		Topic:         input.Topic,
		Subject:       input.Subject,
		LanguageTrack: input.LanguageTrack,
		Points:        input.Points,
		IsActive:      true,
	}
	if question.Difficulty == "" {
		question.Difficulty = "easy"
	}
	if question.LanguageTrack == "" {
		question.LanguageTrack = "python"
	}
	if question.Points == 0 {
		question.Points = 10
	}

	if err := ac.DB.Create(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not create question")
	}

	return utils.Created(c, question)
}

func (ac *AdminController) UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var question models.Question
	if err := ac.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Question not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input questionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		question.Title = input.Title
	}
	if input.QuestionText != "" {
		question.QuestionText = input.QuestionText
	}
	if input.OptionA != "" {
		question.OptionA = input.OptionA
	}
	if input.OptionB != "" {
		question.OptionB = input.OptionB
	}
	if input.OptionC != "" {
		question.OptionC = input.OptionC
	}
	if input.OptionD != "" {
		question.OptionD = input.OptionD
	}
	if input.CorrectAnswer != "" {
		question.CorrectAnswer = input.CorrectAnswer
	}
	if input.Explanation != "" {
		question.Explanation = input.Explanation
	}
	if input.Difficulty != "" {
		question.Difficulty = input.Difficulty
	}
	if input.Topic != "" {
		question.Topic = input.Topic
	}
	if input.Subject != "" {
		question.Subject = input.Subject
	}
	if input.LanguageTrack != "" {
		question.LanguageTrack = input.LanguageTrack
	}
	if input.Points > 0 {
		question.Points = input.Points
	}

	if err := ac.DB.Save(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not update question")
	}

	return c.JSON(question)
}

// DeleteQuestion removes a question from the catalog. Attempt rows keep the
// question id, so earned XP survives the delete.
func (ac *AdminController) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var question models.Question
	if err := ac.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Question not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := ac.DB.Delete(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete question")
	}

	return c.JSON(fiber.Map{
		"id":      question.ID,
		"message": "Question deleted",
	})
}

// ToggleQuestion flips is_active. Deactivated questions disappear from the
// practice catalog but keep their attempt history.
func (ac *AdminController) ToggleQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var question models.Question
	if err := ac.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Question not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	question.IsActive = !question.IsActive
	if err := ac.DB.Model(&question).Update("is_active", question.IsActive).Error; err != nil {
		return utils.InternalServerError(c, "Could not update question")
	}

	return c.JSON(fiber.Map{
		"id":        question.ID,
		"is_active": question.IsActive,
	})
}

func (ac *AdminController) CreateSubject(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var subject models.Subject
	if err := c.BodyParser(&subject); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if subject.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}
	subject.CreatedBy = userID

	if err := ac.DB.Create(&subject).Error; err != nil {
		return utils.InternalServerError(c, "Could not create subject")
	}

	return utils.Created(c, subject)
}

func (ac *AdminController) CreateTopic(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var topic models.Topic
	if err := c.BodyParser(&topic); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if topic.SubjectID == 0 || topic.Name == "" {
		return utils.BadRequest(c, "Subject ID and name are required")
	}

	var subject models.Subject
	if err := ac.DB.First(&subject, topic.SubjectID).Error; err != nil {
		return utils.NotFound(c, "Subject not found")
	}
	topic.CreatedBy = userID

	if err := ac.DB.Create(&topic).Error; err != nil {
		return utils.InternalServerError(c, "Could not create topic")
	}

	return utils.Created(c, topic)
}

func (ac *AdminController) CreateNote(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var note models.Note
	if err := c.BodyParser(&note); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if note.TopicID == 0 || note.Title == "" {
		return utils.BadRequest(c, "Topic ID and title are required")
	}

	var topic models.Topic
	if err := ac.DB.First(&topic, note.TopicID).Error; err != nil {
		return utils.NotFound(c, "Topic not found")
	}
	if note.Visibility == "" {
		note.Visibility = "published"
	}
	note.CreatedBy = userID

	if err := ac.DB.Create(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not create note")
	}

	return utils.Created(c, note)
}

type testQuestionInput struct {
	QuestionID uint `json:"question_id" validate:"required"`
	OrderIndex int  `json:"order_index"`
	Points     int  `json:"points"`
}

type testInput struct {
	Title            string              `json:"title" validate:"required"`
	Description      string              `json:"description"`
	SubjectID        *uint               `json:"subject_id"`
	TimeLimitMinutes int                 `json:"time_limit_minutes"`
	PassingScore     int                 `json:"passing_score"`
	Status           string              `json:"status" validate:"omitempty,oneof=draft published archived"`
	AssignedToAll    bool                `json:"assigned_to_all"`
	Questions        []testQuestionInput `json:"questions"`
}

func (ac *AdminController) CreateTest(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var input testInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(input); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		return utils.ValidationError(c, fields)
	}

	test := models.Test{
		Title:            input.Title,
		Description:      input.Description,
		SubjectID:        input.SubjectID,
		TimeLimitMinutes: input.TimeLimitMinutes,
		PassingScore:     input.PassingScore,
		Status:           input.Status,
		AssignedToAll:    input.AssignedToAll,
		CreatedBy:        userID,
	}
	if test.TimeLimitMinutes == 0 {
		test.TimeLimitMinutes = 60
	}
	if test.PassingScore == 0 {
		test.PassingScore = 50
	}
	if test.Status == "" {
		test.Status = models.TestStatusDraft
	}

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&test).Error; err != nil {
			return err
		}
		for i, q := range input.Questions {
			points := q.Points
			if points == 0 {
				points = 1
			}
			order := q.OrderIndex
			if order == 0 {
				order = i + 1
			}
			tq := models.TestQuestion{
				TestID:     test.ID,
				QuestionID: q.QuestionID,
				OrderIndex: order,
				Points:     points,
			}
			if err := tx.Create(&tq).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not create test")
	}

	return utils.Created(c, fiber.Map{
		"id":             test.ID,
		"title":          test.Title,
		"status":         test.Status,
		"question_count": len(input.Questions),
	})
}

func (ac *AdminController) UpdateTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid test ID")
	}

	var test models.Test
	if err := ac.DB.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Test not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input testInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		test.Title = input.Title
	}
	if input.Description != "" {
		test.Description = input.Description
	}
	if input.SubjectID != nil {
		test.SubjectID = input.SubjectID
	}
	if input.TimeLimitMinutes > 0 {
		test.TimeLimitMinutes = input.TimeLimitMinutes
	}
	if input.PassingScore > 0 {
		test.PassingScore = input.PassingScore
	}
	if input.Status != "" {
		test.Status = input.Status
	}
	test.AssignedToAll = input.AssignedToAll

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&test).Error; err != nil {
			return err
		}
		// A non-empty question list replaces the whole set. The hard delete
		// keeps the unique (test, question) index clear for re-added pairs.
		if len(input.Questions) > 0 {
			if err := tx.Unscoped().Where("test_id = ?", test.ID).Delete(&models.TestQuestion{}).Error; err != nil {
				return err
			}
			for i, q := range input.Questions {
				points := q.Points
				if points == 0 {
					points = 1
				}
				order := q.OrderIndex
				if order == 0 {
					order = i + 1
				}
				tq := models.TestQuestion{
					TestID:     test.ID,
					QuestionID: q.QuestionID,
					OrderIndex: order,
					Points:     points,
				}
				if err := tx.Create(&tq).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update test")
	}

	return c.JSON(fiber.Map{
		"id":     test.ID,
		"title":  test.Title,
		"status": test.Status,
	})
}

func (ac *AdminController) AssignTest(c *fiber.Ctx) error {
	adminID, _ := c.Locals("userID").(uint)

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid test ID")
	}

	var test models.Test
	if err := ac.DB.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Test not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	type AssignInput struct {
		UserIDs []uint `json:"user_ids"`
		All     bool   `json:"all"`
	}

	var input AssignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.All {
		if err := ac.DB.Model(&test).Update("assigned_to_all", true).Error; err != nil {
			return utils.InternalServerError(c, "Could not assign test")
		}
		return c.JSON(fiber.Map{
			"test_id":         test.ID,
			"assigned_to_all": true,
		})
	}

	assigned := 0
	for _, studentID := range input.UserIDs {
		assignment := models.TestAssignment{
			TestID:     test.ID,
			UserID:     studentID,
			AssignedAt: time.Now(),
			AssignedBy: adminID,
		}
		result := ac.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment)
		if result.Error == nil && result.RowsAffected > 0 {
			assigned++
		}
	}

	return c.JSON(fiber.Map{
		"test_id":  test.ID,
		"assigned": assigned,
	})
}

// GetTestResultsOverview lists every user's completed attempts for a test.
func (ac *AdminController) GetTestResultsOverview(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid test ID")
	}

	var attempts []models.TestAttempt
	err = ac.DB.Where("test_id = ? AND status = ?", testID, models.AttemptStatusCompleted).
		Order("submitted_at DESC").
		Find(&attempts).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var test models.Test
	ac.DB.First(&test, testID)

	result := []fiber.Map{}
	for _, a := range attempts {
		var user models.User
		if err := ac.DB.First(&user, a.UserID).Error; err != nil {
			continue
		}
		result = append(result, fiber.Map{
			"attempt_id":      a.ID,
			"user_id":         user.ID,
			"username":        user.Username,
			"score":           a.Score,
			"total_questions": a.TotalQuestions,
			"correct_answers": a.CorrectAnswers,
			"passed":          a.Score >= test.PassingScore,
			"started_at":      a.StartedAt,
			"submitted_at":    a.SubmittedAt,
		})
	}

	return c.JSON(fiber.Map{
		"test_id": testID,
		"results": result,
	})
}

func (ac *AdminController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := ac.DB.Order("id").Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, u := range users {
		var stats models.UserStats
		ac.DB.Where("user_id = ?", u.ID).First(&stats)

		result = append(result, fiber.Map{
			"id":             u.ID,
			"username":       u.Username,
			"email":          u.Email,
			"role":           u.Role,
			"is_super_admin": u.IsSuperAdmin,
			"language_track": u.LanguageTrack,
			"xp":             stats.XP,
			"level":          stats.Level,
			"last_login":     u.LastLogin,
			"created_at":     u.CreatedAt,
		})
	}

	return c.JSON(result)
}

func (ac *AdminController) setRole(c *fiber.Ctx, role string) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if user.IsSuperAdmin && role == models.RoleStudent {
		return utils.Forbidden(c, "Cannot demote a super admin")
	}

	if err := ac.DB.Model(&user).Update("role", role).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return c.JSON(fiber.Map{
		"id":   user.ID,
		"role": role,
	})
}

func (ac *AdminController) PromoteUser(c *fiber.Ctx) error {
	return ac.setRole(c, models.RoleAdmin)
}

func (ac *AdminController) DemoteUser(c *fiber.Ctx) error {
	return ac.setRole(c, models.RoleStudent)
}

// MakeSuperAdmin grants the super admin flag. Routed behind the super admin
// middleware only.
func (ac *AdminController) MakeSuperAdmin(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = ac.DB.Model(&user).Updates(map[string]interface{}{
		"role":           models.RoleAdmin,
		"is_super_admin": true,
	}).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return c.JSON(fiber.Map{
		"id":             user.ID,
		"role":           models.RoleAdmin,
		"is_super_admin": true,
	})
}

func (ac *AdminController) GetAnalytics(c *fiber.Ctx) error {
	var totalUsers, totalQuestions, totalAttempts, totalTests int64
	ac.DB.Model(&models.User{}).Count(&totalUsers)
	ac.DB.Model(&models.Question{}).Count(&totalQuestions)
	ac.DB.Model(&models.Attempt{}).Count(&totalAttempts)
	ac.DB.Model(&models.Test{}).Count(&totalTests)

	var correctAttempts int64
	ac.DB.Model(&models.Attempt{}).Where("is_correct = ?", true).Count(&correctAttempts)

	accuracy := 0.0
	if totalAttempts > 0 {
		accuracy = float64(correctAttempts) / float64(totalAttempts) * 100
	}

	type topicRow struct {
		Topic    string `json:"topic"`
		Attempts int64  `json:"attempts"`
		Correct  int64  `json:"correct"`
	}
	var topics []topicRow
	ac.DB.Model(&models.Attempt{}).
		Select("questions.topic as topic, COUNT(*) as attempts, SUM(CASE WHEN attempts.is_correct THEN 1 ELSE 0 END) as correct").
		Joins("JOIN questions ON questions.id = attempts.question_id").
		Group("questions.topic").
		Scan(&topics)
	if topics == nil {
		topics = []topicRow{}
	}

	type difficultyRow struct {
		Difficulty string `json:"difficulty"`
		Attempts   int64  `json:"attempts"`
		Correct    int64  `json:"correct"`
	}
	var difficulties []difficultyRow
	ac.DB.Model(&models.Attempt{}).
		Select("questions.difficulty as difficulty, COUNT(*) as attempts, SUM(CASE WHEN attempts.is_correct THEN 1 ELSE 0 END) as correct").
		Joins("JOIN questions ON questions.id = attempts.question_id").
		Group("questions.difficulty").
		Scan(&difficulties)
	if difficulties == nil {
		difficulties = []difficultyRow{}
	}

	return c.JSON(fiber.Map{
		"totals": fiber.Map{
			"users":     totalUsers,
			"questions": totalQuestions,
			"attempts":  totalAttempts,
			"tests":     totalTests,
		},
		"overall_accuracy":       accuracy,
		"topic_performance":      topics,
		"difficulty_performance": difficulties,
	})
}

func (ac *AdminController) CreateCourse(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	type CourseInput struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		SubjectIDs  []uint `json:"subject_ids"`
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}

	course := models.Course{
		Name:        input.Name,
		Description: input.Description,
		Status:      "active",
		CreatedBy:   userID,
	}

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		for i, subjectID := range input.SubjectIDs {
			cs := models.CourseSubject{
				CourseID:   course.ID,
				SubjectID:  subjectID,
				OrderIndex: i + 1,
			}
			if err := tx.Create(&cs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.Created(c, fiber.Map{
		"id":       course.ID,
		"name":     course.Name,
		"subjects": len(input.SubjectIDs),
	})
}

func (ac *AdminController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	type CourseInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Status      string `json:"status"`
		SubjectIDs  []uint `json:"subject_ids"`
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != "" {
		course.Name = input.Name
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Status != "" {
		if input.Status != "active" && input.Status != "archived" {
			return utils.BadRequest(c, "Invalid course status")
		}
		course.Status = input.Status
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&course).Error; err != nil {
			return err
		}
		// A present subject list replaces the whole set.
		if input.SubjectIDs != nil {
			if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.CourseSubject{}).Error; err != nil {
				return err
			}
			for i, subjectID := range input.SubjectIDs {
				cs := models.CourseSubject{
					CourseID:   course.ID,
					SubjectID:  subjectID,
					OrderIndex: i + 1,
				}
				if err := tx.Create(&cs).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return c.JSON(fiber.Map{
		"id":     course.ID,
		"name":   course.Name,
		"status": course.Status,
	})
}

func (ac *AdminController) EnrollStudents(c *fiber.Ctx) error {
	adminID, _ := c.Locals("userID").(uint)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	type EnrollInput struct {
		UserIDs []uint `json:"user_ids"`
	}

	var input EnrollInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	enrolled := 0
	for _, studentID := range input.UserIDs {
		enrollment := models.CourseEnrollment{
			CourseID:   course.ID,
			UserID:     studentID,
			Status:     "active",
			EnrolledAt: time.Now(),
			EnrolledBy: adminID,
		}
		result := ac.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment)
		if result.Error == nil && result.RowsAffected > 0 {
			enrolled++
		}
	}

	return c.JSON(fiber.Map{
		"course_id": course.ID,
		"enrolled":  enrolled,
	})
}
