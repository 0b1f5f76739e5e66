package service

import (
	"mathpath_backend/internal/model"
	"testing"
	"time"
)

func dayAttempts() []model.ProblemAttempt {
	return []model.ProblemAttempt{
		{ConceptID: "c1", IsCorrect: true, TimeSeconds: 300, XPEarned: 30},
		{ConceptID: "c1", IsCorrect: false, TimeSeconds: 240, XPEarned: 2},
		{ConceptID: "c2", IsCorrect: true, TimeSeconds: 600, XPEarned: 50},
	}
}

func TestFoldDailyGoalRecomputesFromScratch(t *testing.T) {
	goal := model.DailyGoal{
		TargetProblems: 3,
		TargetMinutes:  15,
		TargetXP:       80,
		// 脏的历史计数，重算必须覆盖而不是累加
		SolvedProblems: 99,
		EarnedXP:       999,
	}

	folded := FoldDailyGoal(goal, dayAttempts())
	if folded.SolvedProblems != 3 {
		t.Errorf("SolvedProblems = %d, want 3", folded.SolvedProblems)
	}
	if folded.CorrectCount != 2 {
		t.Errorf("CorrectCount = %d, want 2", folded.CorrectCount)
	}
	if folded.StudyMinutes != 19 {
		t.Errorf("StudyMinutes = %d, want 19", folded.StudyMinutes)
	}
	if folded.EarnedXP != 82 {
		t.Errorf("EarnedXP = %d, want 82", folded.EarnedXP)
	}
	if !folded.IsCompleted {
		t.Error("all three targets met, IsCompleted should be true")
	}
}

func TestFoldDailyGoalIdempotent(t *testing.T) {
	goal := model.DailyGoal{TargetProblems: 10, TargetMinutes: 30, TargetXP: 100}
	attempts := dayAttempts()

	once := FoldDailyGoal(goal, attempts)
	twice := FoldDailyGoal(once, attempts)
	if once != twice {
		t.Fatalf("refolding changed the result:\n%+v\n%+v", once, twice)
	}
}

func TestFoldDailyGoalIncomplete(t *testing.T) {
	goal := model.DailyGoal{TargetProblems: 10, TargetMinutes: 30, TargetXP: 100}
	folded := FoldDailyGoal(goal, dayAttempts())
	if folded.IsCompleted {
		t.Error("targets not met, IsCompleted should be false")
	}
}

func TestFoldWeeklyStats(t *testing.T) {
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	stats := FoldWeeklyStats(7, weekStart, dayAttempts())

	if stats.StudentID != 7 {
		t.Errorf("StudentID = %d, want 7", stats.StudentID)
	}
	if stats.TotalProblems != 3 || stats.CorrectProblems != 2 {
		t.Errorf("problems = (%d, %d), want (3, 2)", stats.TotalProblems, stats.CorrectProblems)
	}
	if stats.ConceptsTouched != 2 {
		t.Errorf("ConceptsTouched = %d, want 2", stats.ConceptsTouched)
	}
	if stats.Accuracy < 0.66 || stats.Accuracy > 0.67 {
		t.Errorf("Accuracy = %f, want 2/3", stats.Accuracy)
	}
	if stats.XPEarned != 82 {
		t.Errorf("XPEarned = %d, want 82", stats.XPEarned)
	}
}

func TestFoldWeeklyStatsEmpty(t *testing.T) {
	stats := FoldWeeklyStats(1, time.Now(), nil)
	if stats.Accuracy != 0 {
		t.Errorf("Accuracy = %f, want 0 with no attempts", stats.Accuracy)
	}
	if stats.TotalProblems != 0 || stats.ConceptsTouched != 0 {
		t.Error("empty input should produce zero counters")
	}
}

func TestWeekStartOf(t *testing.T) {
	// 2026-08-31 是周一
	monday := time.Date(2026, 8, 31, 15, 30, 0, 0, time.Local)
	sunday := time.Date(2026, 9, 6, 8, 0, 0, 0, time.Local)
	wednesday := time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local)

	want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	for _, tc := range []time.Time{monday, sunday, wednesday} {
		if got := WeekStartOf(tc); !got.Equal(want) {
			t.Errorf("WeekStartOf(%s) = %s, want %s", tc, got, want)
		}
	}
}

func TestDayStartOf(t *testing.T) {
	at := time.Date(2026, 8, 31, 23, 59, 59, 0, time.Local)
	want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	if got := DayStartOf(at); !got.Equal(want) {
		t.Errorf("DayStartOf = %s, want %s", got, want)
	}
}
