package services

import (
	"errors"
	"math"
	"time"

	"codequest/models"

	"gorm.io/gorm"
)

// UpdateStreak advances the user's daily streak for today's activity:
// same-day repeats leave it untouched, a gap of exactly one day increments
// it, anything longer resets it to 1. last_activity_date is stamped on every
// call, including the no-change branch.
func UpdateStreak(db *gorm.DB, userID uint) error {
	today := dateOnly(time.Now())

	var stats models.UserStats
	err := db.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.UserStats{UserID: userID, Level: 1, Streak: 1, LastActivityDate: &today}
		return db.Create(&stats).Error
	}
	if err != nil {
		return err
	}

	streak := stats.Streak
	if stats.LastActivityDate == nil {
		streak = 1
	} else {
		switch daysBetween(*stats.LastActivityDate, today) {
		case 0:
			// same-day activity, streak unchanged
		case 1:
			streak++
		default:
			streak = 1
		}
	}

	return db.Model(&models.UserStats{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"streak":             streak,
			"last_activity_date": today,
		}).Error
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	// rounding absorbs DST-shortened or lengthened days
	return int(math.Round(dateOnly(to).Sub(dateOnly(from)).Hours() / 24))
}
