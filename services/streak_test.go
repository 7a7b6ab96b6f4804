package services

import (
	"testing"
	"time"

	"codequest/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setLastActivity(t *testing.T, db *gorm.DB, userID uint, streak int, daysAgo int) {
	t.Helper()

	date := dateOnly(time.Now().AddDate(0, 0, -daysAgo))
	err := db.Model(&models.UserStats{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"streak":             streak,
			"last_activity_date": date,
		}).Error
	if err != nil {
		t.Fatalf("set last activity: %v", err)
	}
}

func loadStats(t *testing.T, db *gorm.DB, userID uint) models.UserStats {
	t.Helper()

	var stats models.UserStats
	if err := db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		t.Fatalf("load stats: %v", err)
	}
	return stats
}

func TestUpdateStreakCreatesRow(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "fresh")

	err := UpdateStreak(db, user.ID)
	assert.NoError(t, err)

	stats := loadStats(t, db, user.ID)
	assert.Equal(t, 1, stats.Streak)
	assert.NotNil(t, stats.LastActivityDate)
}

func TestUpdateStreakSameDayUnchanged(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "sameday")
	db.Create(&models.UserStats{UserID: user.ID, Level: 1})
	setLastActivity(t, db, user.ID, 4, 0)

	err := UpdateStreak(db, user.ID)
	assert.NoError(t, err)

	stats := loadStats(t, db, user.ID)
	assert.Equal(t, 4, stats.Streak)
}

func TestUpdateStreakConsecutiveDayIncrements(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "consecutive")
	db.Create(&models.UserStats{UserID: user.ID, Level: 1})
	setLastActivity(t, db, user.ID, 4, 1)

	err := UpdateStreak(db, user.ID)
	assert.NoError(t, err)

	stats := loadStats(t, db, user.ID)
	assert.Equal(t, 5, stats.Streak)
	assert.Equal(t, dateOnly(time.Now()).Day(), stats.LastActivityDate.Day())
}

func TestUpdateStreakGapResets(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "lapsed")
	db.Create(&models.UserStats{UserID: user.ID, Level: 1})
	setLastActivity(t, db, user.ID, 9, 3)

	err := UpdateStreak(db, user.ID)
	assert.NoError(t, err)

	stats := loadStats(t, db, user.ID)
	assert.Equal(t, 1, stats.Streak)
}

func TestUpdateStreakNullDateResets(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "nulldate")
	db.Create(&models.UserStats{UserID: user.ID, Level: 1, Streak: 7})

	err := UpdateStreak(db, user.ID)
	assert.NoError(t, err)

	stats := loadStats(t, db, user.ID)
	assert.Equal(t, 1, stats.Streak)
	assert.NotNil(t, stats.LastActivityDate)
}
