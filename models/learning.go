package models

import (
	"time"

	"gorm.io/gorm"
)

type Subject struct {
	gorm.Model
	Name          string `gorm:"not null"`
	Description   string
	LanguageTrack string `gorm:"default:python"`
	OrderIndex    int
	CreatedBy     uint
}

type Topic struct {
	gorm.Model
	SubjectID   uint `gorm:"index"`
	Name        string
	Description string
	OrderIndex  int
	CreatedBy   uint
}

type Note struct {
	gorm.Model
	TopicID    uint `gorm:"index"`
	Title      string
	Content    string
	Visibility string `gorm:"default:published"` // published, draft
	OrderIndex int
	CreatedBy  uint
}

type Course struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Status      string `gorm:"default:active"` // active, archived
	CreatedBy   uint
}

type CourseSubject struct {
	gorm.Model
	CourseID   uint `gorm:"uniqueIndex:idx_course_subject"`
	SubjectID  uint `gorm:"uniqueIndex:idx_course_subject"`
	OrderIndex int
}

type CourseEnrollment struct {
	gorm.Model
	CourseID   uint `gorm:"uniqueIndex:idx_course_enrollment"`
	UserID     uint `gorm:"uniqueIndex:idx_course_enrollment"`
	Status     string `gorm:"default:active"`
	EnrolledAt time.Time
	EnrolledBy uint
}
