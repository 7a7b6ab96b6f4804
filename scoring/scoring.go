// Package scoring holds the pure gamification rules: XP rewards, the level
// curve, and answer grading. Everything here is side-effect free; persistence
// lives in the services package.
package scoring

import (
	"math"
	"strings"
)

// CalculateXP returns the XP for one practice submission. Correct answers pay
// the question's base points scaled by difficulty; incorrect answers pay a
// flat 10% participation reward regardless of difficulty. Results truncate
// toward zero so they line up with the seeded badge thresholds.
func CalculateXP(isCorrect bool, difficulty string, basePoints int) int {
	multiplier := 1.0
	switch strings.ToLower(difficulty) {
	case "easy":
		multiplier = 1.0
	case "medium":
		multiplier = 1.5
	case "hard":
		multiplier = 2.0
	}

	if isCorrect {
		return int(float64(basePoints) * multiplier)
	}
	return int(float64(basePoints) * 0.1)
}

// LevelForXP maps cumulative XP to a level: floor(sqrt(xp/100)) + 1, never
// below 1. Level 2 starts at 100 XP, level 5 at 1600, level 10 at 8100.
func LevelForXP(xp int) int {
	level := int(math.Sqrt(float64(xp)/100)) + 1
	if level < 1 {
		return 1
	}
	return level
}

// XPForLevel returns the minimum cumulative XP for a level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}

// XPForNextLevel returns the XP threshold of the level after currentLevel.
func XPForNextLevel(currentLevel int) int {
	return XPForLevel(currentLevel + 1)
}

// StreakBonus returns the multiplier bonus a streak would earn. The bonus is
// surfaced in stats but not applied to awards.
func StreakBonus(streak int) float64 {
	switch {
	case streak >= 30:
		return 0.2
	case streak >= 14:
		return 0.15
	case streak >= 7:
		return 0.10
	}
	return 0
}
