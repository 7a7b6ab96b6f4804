package services

import (
	"time"

	"codequest/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EvaluateBadges grants every badge the user now qualifies for and returns
// the newly earned names in catalog order. The streak threshold is read fresh
// from user_stats so a streak updated earlier in the same request counts.
// Already-granted badges are excluded up front, and the unique (user, badge)
// index turns any racing insert into a no-op.
func EvaluateBadges(db *gorm.DB, userID uint, currentXP, currentLevel int) ([]string, error) {
	currentStreak := 0
	var stats models.UserStats
	if err := db.Where("user_id = ?", userID).First(&stats).Error; err == nil {
		currentStreak = stats.Streak
	}

	var badges []models.Badge
	err := db.Where("id NOT IN (?)",
		db.Model(&models.UserBadge{}).Select("badge_id").Where("user_id = ?", userID),
	).Order("id").Find(&badges).Error
	if err != nil {
		return nil, err
	}

	unlocked := []string{}
	for _, badge := range badges {
		qualified := false
		switch badge.BadgeType {
		case models.BadgeTypeLevel:
			qualified = currentLevel >= badge.RequirementValue
		case models.BadgeTypeXP:
			qualified = currentXP >= badge.RequirementValue
		case models.BadgeTypeStreak:
			qualified = currentStreak >= badge.RequirementValue
		case models.BadgeTypeFirstAttempt:
			var attempts int64
			if err := db.Model(&models.Attempt{}).Where("user_id = ?", userID).Count(&attempts).Error; err != nil {
				return unlocked, err
			}
			qualified = attempts >= int64(badge.RequirementValue)
		}
		if !qualified {
			continue
		}

		grant := models.UserBadge{UserID: userID, BadgeID: badge.ID, EarnedAt: time.Now()}
		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
		if result.Error != nil {
			return unlocked, result.Error
		}
		if result.RowsAffected > 0 {
			unlocked = append(unlocked, badge.Name)
		}
	}

	return unlocked, nil
}
