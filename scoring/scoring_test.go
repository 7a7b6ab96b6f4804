package scoring

import "testing"

func TestCalculateXP(t *testing.T) {
	tests := []struct {
		name       string
		isCorrect  bool
		difficulty string
		basePoints int
		want       int
	}{
		{name: "correct easy", isCorrect: true, difficulty: "easy", basePoints: 10, want: 10},
		{name: "correct medium", isCorrect: true, difficulty: "medium", basePoints: 10, want: 15},
		{name: "correct hard", isCorrect: true, difficulty: "hard", basePoints: 10, want: 20},
		{name: "correct uppercase difficulty", isCorrect: true, difficulty: "HARD", basePoints: 10, want: 20},
		{name: "correct unknown difficulty defaults to 1x", isCorrect: true, difficulty: "expert", basePoints: 10, want: 10},
		{name: "medium truncates toward zero", isCorrect: true, difficulty: "medium", basePoints: 15, want: 22},
		{name: "incorrect pays flat participation", isCorrect: false, difficulty: "hard", basePoints: 10, want: 1},
		{name: "incorrect ignores multiplier", isCorrect: false, difficulty: "medium", basePoints: 20, want: 2},
		{name: "incorrect small base truncates to zero", isCorrect: false, difficulty: "easy", basePoints: 5, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateXP(tc.isCorrect, tc.difficulty, tc.basePoints)
			if got != tc.want {
				t.Errorf("CalculateXP(%v, %q, %d) = %d, want %d",
					tc.isCorrect, tc.difficulty, tc.basePoints, got, tc.want)
			}
		})
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{1600, 5},
		{8100, 10},
	}

	for _, tc := range tests {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 0},
		{1, 0},
		{2, 100},
		{3, 400},
		{5, 1600},
		{10, 8100},
	}

	for _, tc := range tests {
		if got := XPForLevel(tc.level); got != tc.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestXPForNextLevel(t *testing.T) {
	if got := XPForNextLevel(1); got != 100 {
		t.Errorf("XPForNextLevel(1) = %d, want 100", got)
	}
	if got := XPForNextLevel(4); got != 1600 {
		t.Errorf("XPForNextLevel(4) = %d, want 1600", got)
	}
}

// The level curve and thresholds must agree: the threshold for a level is the
// smallest XP that maps back to it.
func TestLevelThresholdRoundTrip(t *testing.T) {
	for level := 2; level <= 20; level++ {
		threshold := XPForLevel(level)
		if got := LevelForXP(threshold); got != level {
			t.Errorf("LevelForXP(XPForLevel(%d)=%d) = %d", level, threshold, got)
		}
		if got := LevelForXP(threshold - 1); got != level-1 {
			t.Errorf("LevelForXP(%d) = %d, want %d", threshold-1, got, level-1)
		}
	}
}

func TestStreakBonus(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{0, 0},
		{6, 0},
		{7, 0.10},
		{13, 0.10},
		{14, 0.15},
		{29, 0.15},
		{30, 0.2},
		{365, 0.2},
	}

	for _, tc := range tests {
		if got := StreakBonus(tc.streak); got != tc.want {
			t.Errorf("StreakBonus(%d) = %v, want %v", tc.streak, got, tc.want)
		}
	}
}
