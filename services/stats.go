package services

import (
	"errors"
	"math"
	"time"

	"codequest/models"
	"codequest/scoring"

	"gorm.io/gorm"
)

type UserStatsSummary struct {
	XP                 int     `json:"xp"`
	Level              int     `json:"level"`
	Streak             int     `json:"streak"`
	StreakBonus        float64 `json:"streak_bonus"`
	Accuracy           float64 `json:"accuracy"`
	TotalAttempts      int     `json:"total_attempts"`
	CorrectAttempts    int     `json:"correct_attempts"`
	QuestionsAttempted int     `json:"questions_attempted"`
	XPForNextLevel     int     `json:"xp_for_next_level"`
	XPNeeded           int     `json:"xp_needed"`
	XPProgress         int     `json:"xp_progress"`
	XPRange            int     `json:"xp_range"`
}

// GetUserStats assembles the dashboard stats payload. A user with no stats
// row yet gets the level-1 zero state.
func GetUserStats(db *gorm.DB, userID uint) (*UserStatsSummary, error) {
	var stats models.UserStats
	err := db.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		next := scoring.XPForNextLevel(1)
		return &UserStatsSummary{
			Level:          1,
			XPForNextLevel: next,
			XPNeeded:       next,
			XPRange:        next,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	type attemptCounts struct {
		Total     int
		Correct   int
		Questions int
	}
	var counts attemptCounts
	err = db.Model(&models.Attempt{}).
		Select("COUNT(*) as total, SUM(CASE WHEN is_correct THEN 1 ELSE 0 END) as correct, COUNT(DISTINCT question_id) as questions").
		Where("user_id = ?", userID).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	accuracy := 0.0
	if counts.Total > 0 {
		accuracy = math.Round(float64(counts.Correct)/float64(counts.Total)*10000) / 100
	}

	next := scoring.XPForNextLevel(stats.Level)
	needed := next - stats.XP
	if needed < 0 {
		needed = 0
	}

	return &UserStatsSummary{
		XP:                 stats.XP,
		Level:              stats.Level,
		Streak:             stats.Streak,
		StreakBonus:        scoring.StreakBonus(stats.Streak),
		Accuracy:           accuracy,
		TotalAttempts:      counts.Total,
		CorrectAttempts:    counts.Correct,
		QuestionsAttempted: counts.Questions,
		XPForNextLevel:     next,
		XPNeeded:           needed,
		XPProgress:         stats.XP - scoring.XPForLevel(stats.Level),
		XPRange:            next - scoring.XPForLevel(stats.Level),
	}, nil
}

type LeaderboardEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Streak   int    `json:"streak"`
}

// Leaderboard lists the top students by XP, then level.
func Leaderboard(db *gorm.DB, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []LeaderboardEntry
	err := db.Model(&models.User{}).
		Select("users.id as user_id, users.username, user_stats.xp, user_stats.level, user_stats.streak").
		Joins("JOIN user_stats ON user_stats.user_id = users.id").
		Where("users.role = ?", models.RoleStudent).
		Order("user_stats.xp DESC, user_stats.level DESC").
		Limit(limit).Scan(&entries).Error
	return entries, err
}

type TopicPerformance struct {
	Topic           string  `json:"topic"`
	TotalAttempts   int     `json:"total_attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	Accuracy        float64 `json:"accuracy"`
	AvgXP           float64 `json:"avg_xp"`
}

// TopicPerformanceForUser breaks down the user's practice history by topic.
func TopicPerformanceForUser(db *gorm.DB, userID uint) ([]TopicPerformance, error) {
	var rows []TopicPerformance
	err := db.Model(&models.Attempt{}).
		Select("questions.topic, COUNT(*) as total_attempts, SUM(CASE WHEN attempts.is_correct THEN 1 ELSE 0 END) as correct_attempts, AVG(attempts.xp_earned) as avg_xp").
		Joins("JOIN questions ON questions.id = attempts.question_id").
		Where("attempts.user_id = ?", userID).
		Group("questions.topic").
		Order("total_attempts DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].TotalAttempts > 0 {
			rows[i].Accuracy = math.Round(float64(rows[i].CorrectAttempts)/float64(rows[i].TotalAttempts)*10000) / 100
		}
	}
	return rows, nil
}

type DailyXP struct {
	Date    string `json:"date"`
	DailyXP int    `json:"daily_xp"`
}

// XPHistory sums XP earned per day over the trailing window, for the
// dashboard chart.
func XPHistory(db *gorm.DB, userID uint, days int) ([]DailyXP, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	var rows []DailyXP
	err := db.Model(&models.Attempt{}).
		Select("DATE(attempted_at) as date, SUM(xp_earned) as daily_xp").
		Where("user_id = ? AND attempted_at >= ?", userID, since).
		Group("DATE(attempted_at)").
		Order("date").
		Scan(&rows).Error
	return rows, err
}
