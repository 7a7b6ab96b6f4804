package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Username      string `gorm:"unique;not null"`
	Email         string `gorm:"unique;not null"`
	PasswordHash  string `gorm:"not null"`
	Role          string `gorm:"default:student"` // student, admin
	IsSuperAdmin  bool   `gorm:"default:false"`
	LanguageTrack string `gorm:"default:python"`
	LastLogin     *time.Time
}

// UserStats is the single mutable gamification row per user. XP and level are
// written together; level must always equal scoring.LevelForXP(xp) once a
// write commits.
type UserStats struct {
	gorm.Model
	UserID           uint `gorm:"uniqueIndex"`
	XP               int  `gorm:"default:0"`
	Level            int  `gorm:"default:1"`
	Streak           int  `gorm:"default:0"`
	LastActivityDate *time.Time
}
