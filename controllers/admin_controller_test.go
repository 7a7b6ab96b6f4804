package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"codequest/config"
	"codequest/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAdminApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Question{},
		&models.Subject{},
		&models.Course{},
		&models.CourseSubject{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	cfg := &config.Config{JWTSecret: "testsecret", ServerPort: "8080"}

	app := fiber.New()
	controller := NewAdminController(db, cfg)
	app.Delete("/api/admin/questions/:id", controller.DeleteQuestion)
	app.Put("/api/admin/courses/:id", controller.UpdateCourse)

	return app, db
}

func TestDeleteQuestionRemovesFromCatalog(t *testing.T) {
	app, db := newAdminApp(t)

	question := models.Question{
		Title:         "Doomed",
		QuestionText:  "What happens next?",
		OptionA:       "1",
		OptionB:       "2",
		CorrectAnswer: "A",
		Difficulty:    "easy",
		Points:        10,
		IsActive:      true,
	}
	assert.NoError(t, db.Create(&question).Error)

	req := httptest.NewRequest("DELETE", "/api/admin/questions/1", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "Question deleted", result["message"])

	var gone models.Question
	err = db.First(&gone, question.ID).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "deleted questions must vanish from catalog queries")
}

func TestDeleteQuestionNotFound(t *testing.T) {
	app, _ := newAdminApp(t)

	req := httptest.NewRequest("DELETE", "/api/admin/questions/9999", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteQuestionInvalidID(t *testing.T) {
	app, _ := newAdminApp(t)

	req := httptest.NewRequest("DELETE", "/api/admin/questions/abc", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateCourseFieldsAndSubjects(t *testing.T) {
	app, db := newAdminApp(t)

	first := models.Subject{Name: "Basics"}
	second := models.Subject{Name: "Advanced"}
	assert.NoError(t, db.Create(&first).Error)
	assert.NoError(t, db.Create(&second).Error)

	course := models.Course{Name: "Starter Track", Status: "active"}
	assert.NoError(t, db.Create(&course).Error)
	assert.NoError(t, db.Create(&models.CourseSubject{CourseID: course.ID, SubjectID: first.ID, OrderIndex: 1}).Error)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":        "Full Track",
		"status":      "archived",
		"subject_ids": []uint{second.ID, first.ID},
	})
	req := httptest.NewRequest("PUT", "/api/admin/courses/1", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	db.First(&course, course.ID)
	assert.Equal(t, "Full Track", course.Name)
	assert.Equal(t, "archived", course.Status)

	var links []models.CourseSubject
	db.Where("course_id = ?", course.ID).Order("order_index").Find(&links)
	assert.Len(t, links, 2, "the subject list is replaced, not appended")
	assert.Equal(t, second.ID, links[0].SubjectID)
	assert.Equal(t, first.ID, links[1].SubjectID)
}

func TestUpdateCourseKeepsSubjectsWhenOmitted(t *testing.T) {
	app, db := newAdminApp(t)

	subject := models.Subject{Name: "Kept"}
	assert.NoError(t, db.Create(&subject).Error)
	course := models.Course{Name: "Stable", Status: "active"}
	assert.NoError(t, db.Create(&course).Error)
	assert.NoError(t, db.Create(&models.CourseSubject{CourseID: course.ID, SubjectID: subject.ID, OrderIndex: 1}).Error)

	payload, _ := json.Marshal(map[string]string{"description": "Now with words"})
	req := httptest.NewRequest("PUT", "/api/admin/courses/1", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	db.First(&course, course.ID)
	assert.Equal(t, "Stable", course.Name)
	assert.Equal(t, "Now with words", course.Description)

	var count int64
	db.Model(&models.CourseSubject{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateCourseRejectsBadStatus(t *testing.T) {
	app, db := newAdminApp(t)

	course := models.Course{Name: "Strict", Status: "active"}
	assert.NoError(t, db.Create(&course).Error)

	payload, _ := json.Marshal(map[string]string{"status": "bogus"})
	req := httptest.NewRequest("PUT", "/api/admin/courses/1", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateCourseNotFound(t *testing.T) {
	app, _ := newAdminApp(t)

	payload, _ := json.Marshal(map[string]string{"name": "Ghost"})
	req := httptest.NewRequest("PUT", "/api/admin/courses/42", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
