package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BadgeTypeLevel        = "level"
	BadgeTypeXP           = "xp"
	BadgeTypeStreak       = "streak"
	BadgeTypeFirstAttempt = "first_attempt"
)

type Badge struct {
	gorm.Model
	Name             string `gorm:"unique;not null"`
	Description      string
	BadgeType        string // level, xp, streak, first_attempt
	RequirementValue int
}

// UserBadge is unique per (user, badge): a badge is earned at most once and
// never revoked.
type UserBadge struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex:idx_user_badge"`
	BadgeID  uint `gorm:"uniqueIndex:idx_user_badge"`
	EarnedAt time.Time
}
