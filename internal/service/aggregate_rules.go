package service

import (
	"mathpath_backend/internal/model"
	"time"
)

// FoldDailyGoal 用一天内的答题记录从头重算每日目标的完成进度。
// 幂等：同一批记录重算多少次结果都一样。
// is_completed 在三个目标（题数/分钟/XP）同时达成时置真；
// 只要重放出的计数仍满足阈值就不会回退为假。
func FoldDailyGoal(goal model.DailyGoal, attempts []model.ProblemAttempt) model.DailyGoal {
	goal.SolvedProblems = 0
	goal.CorrectCount = 0
	goal.StudyMinutes = 0
	goal.EarnedXP = 0

	totalSeconds := 0
	for _, a := range attempts {
		goal.SolvedProblems++
		if a.IsCorrect {
			goal.CorrectCount++
		}
		totalSeconds += a.TimeSeconds
		goal.EarnedXP += a.XPEarned
	}
	goal.StudyMinutes = totalSeconds / 60

	goal.IsCompleted = goal.SolvedProblems >= goal.TargetProblems &&
		goal.StudyMinutes >= goal.TargetMinutes &&
		goal.EarnedXP >= goal.TargetXP

	return goal
}

// FoldWeeklyStats 把一周的答题记录折算成周统计。幂等重算。
func FoldWeeklyStats(studentID uint, weekStart time.Time, attempts []model.ProblemAttempt) model.WeeklyStats {
	stats := model.WeeklyStats{
		StudentID: studentID,
		WeekStart: weekStart,
	}

	concepts := make(map[string]struct{})
	totalSeconds := 0
	for _, a := range attempts {
		stats.TotalProblems++
		if a.IsCorrect {
			stats.CorrectProblems++
		}
		totalSeconds += a.TimeSeconds
		stats.XPEarned += a.XPEarned
		concepts[a.ConceptID] = struct{}{}
	}
	stats.TotalMinutes = totalSeconds / 60
	stats.ConceptsTouched = len(concepts)
	if stats.TotalProblems > 0 {
		stats.Accuracy = float64(stats.CorrectProblems) / float64(stats.TotalProblems)
	}

	return stats
}

// WeekStartOf 取该时间所在周的周一零点（本地时区）
func WeekStartOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(weekday - 1))
}

// DayStartOf 取该时间当天零点（本地时区）
func DayStartOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
