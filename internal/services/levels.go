package services

import "math"

// Level curve: level = floor(sqrt(xp/100)) + 1, so reaching level L takes
// 100*(L-1)^2 XP. Level 1 starts at 0, level 2 at 100, level 3 at 400.

func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Sqrt(float64(xp)/100.0)) + 1
}

func XPForLevel(level int) int {
	if level < 1 {
		return 0
	}
	return 100 * (level - 1) * (level - 1)
}
