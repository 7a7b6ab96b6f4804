package controllers

import (
	"errors"
	"strconv"

	"codequest/config"
	"codequest/models"
	"codequest/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LearnController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLearnController(db *gorm.DB, cfg *config.Config) *LearnController {
	return &LearnController{DB: db, Cfg: cfg}
}

func (lc *LearnController) GetSubjects(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, lc.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := lc.DB.Model(&models.Subject{})
	if track := c.Query("language_track"); track != "" {
		query = query.Where("language_track = ?", track)
	}

	var subjects []models.Subject
	if err := query.Order("order_index, id").Find(&subjects).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, s := range subjects {
		var topicCount int64
		lc.DB.Model(&models.Topic{}).Where("subject_id = ?", s.ID).Count(&topicCount)

		result = append(result, fiber.Map{
			"id":             s.ID,
			"name":           s.Name,
			"description":    s.Description,
			"language_track": s.LanguageTrack,
			"order_index":    s.OrderIndex,
			"topic_count":    topicCount,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

func (lc *LearnController) GetTopics(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, lc.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	subjectID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid subject ID")
	}

	var subject models.Subject
	if err := lc.DB.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Subject not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var topics []models.Topic
	if err := lc.DB.Where("subject_id = ?", subjectID).Order("order_index, id").Find(&topics).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, t := range topics {
		var noteCount int64
		lc.DB.Model(&models.Note{}).
			Where("topic_id = ? AND visibility = ?", t.ID, "published").
			Count(&noteCount)

		result = append(result, fiber.Map{
			"id":          t.ID,
			"name":        t.Name,
			"description": t.Description,
			"order_index": t.OrderIndex,
			"note_count":  noteCount,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"subject": fiber.Map{
			"id":   subject.ID,
			"name": subject.Name,
		},
		"topics": result,
	})
}

// GetNotes lists published notes for a topic. Drafts stay admin-only.
func (lc *LearnController) GetNotes(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, lc.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	topicID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid topic ID")
	}

	var notes []models.Note
	err = lc.DB.Where("topic_id = ? AND visibility = ?", topicID, "published").
		Order("order_index, id").
		Find(&notes).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, n := range notes {
		result = append(result, fiber.Map{
			"id":          n.ID,
			"title":       n.Title,
			"content":     n.Content,
			"order_index": n.OrderIndex,
			"updated_at":  n.UpdatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetMyCourses lists the user's active enrollments.
func (lc *LearnController) GetMyCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var enrollments []models.CourseEnrollment
	err = lc.DB.Where("user_id = ? AND status = ?", userID, "active").Find(&enrollments).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, e := range enrollments {
		var course models.Course
		if err := lc.DB.First(&course, e.CourseID).Error; err != nil {
			continue
		}

		var subjectCount int64
		lc.DB.Model(&models.CourseSubject{}).Where("course_id = ?", course.ID).Count(&subjectCount)

		result = append(result, fiber.Map{
			"id":            course.ID,
			"name":          course.Name,
			"description":   course.Description,
			"status":        course.Status,
			"subject_count": subjectCount,
			"enrolled_at":   e.EnrolledAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

func (lc *LearnController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := lc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var enrollment models.CourseEnrollment
	err = lc.DB.Where("course_id = ? AND user_id = ? AND status = ?", courseID, userID, "active").
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Forbidden(c, "Not enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var courseSubjects []models.CourseSubject
	lc.DB.Where("course_id = ?", courseID).Order("order_index, id").Find(&courseSubjects)

	subjects := []fiber.Map{}
	for _, cs := range courseSubjects {
		var subject models.Subject
		if err := lc.DB.First(&subject, cs.SubjectID).Error; err != nil {
			continue
		}
		subjects = append(subjects, fiber.Map{
			"id":             subject.ID,
			"name":           subject.Name,
			"description":    subject.Description,
			"language_track": subject.LanguageTrack,
			"order_index":    cs.OrderIndex,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course": fiber.Map{
			"id":          course.ID,
			"name":        course.Name,
			"description": course.Description,
			"status":      course.Status,
		},
		"subjects": subjects,
	})
}
