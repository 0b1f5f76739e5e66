package service

import (
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
	"sync"
	"testing"
	"time"
)

func testTune() config.MasteryConfig {
	return config.MasteryConfig{
		MasteryThreshold:       0.9,
		PartialCreditThreshold: 0.7,
		BaseMasteryGain:        0.15,
		HintPenalty:            0.25,
		WrongMasteryDrop:       0.1,
		ReviewWrongStreak:      3,
		LevelUpStreak:          3,
		LevelDownStreak:        2,
		MinDifficulty:          1,
		MaxDifficulty:          5,
		PrereqMasteryThreshold: 0.6,
	}
}

func freshProgress() model.ConceptProgress {
	return model.ConceptProgress{
		StudentID:         1,
		ConceptID:         "c1",
		Status:            model.ProgressNotStarted,
		CurrentDifficulty: 1,
	}
}

func TestApplyAttemptCorrectUpdatesCounters(t *testing.T) {
	now := time.Now()
	p := ApplyAttempt(freshProgress(), AttemptInput{IsCorrect: true, TimeSeconds: 30}, testTune(), now)

	if p.TotalAttempts != 1 || p.CorrectAttempts != 1 {
		t.Fatalf("counters = (%d, %d), want (1, 1)", p.TotalAttempts, p.CorrectAttempts)
	}
	if p.ConsecutiveCorrect != 1 || p.ConsecutiveWrong != 0 {
		t.Fatalf("streaks = (%d, %d), want (1, 0)", p.ConsecutiveCorrect, p.ConsecutiveWrong)
	}
	if p.TotalTimeSeconds != 30 {
		t.Errorf("TotalTimeSeconds = %d, want 30", p.TotalTimeSeconds)
	}
	if p.Status != model.ProgressInProgress {
		t.Errorf("Status = %s, want in_progress", p.Status)
	}
	if p.Mastery <= 0 {
		t.Errorf("Mastery = %f, want > 0", p.Mastery)
	}
	if !p.LastStudiedAt.Equal(now) {
		t.Errorf("LastStudiedAt not updated")
	}
}

func TestApplyAttemptStreaksAreMutuallyExclusive(t *testing.T) {
	tune := testTune()
	p := freshProgress()

	p = ApplyAttempt(p, AttemptInput{IsCorrect: true}, tune, time.Now())
	p = ApplyAttempt(p, AttemptInput{IsCorrect: true}, tune, time.Now())
	if p.ConsecutiveCorrect != 2 || p.ConsecutiveWrong != 0 {
		t.Fatalf("after 2 correct: streaks = (%d, %d)", p.ConsecutiveCorrect, p.ConsecutiveWrong)
	}

	p = ApplyAttempt(p, AttemptInput{IsCorrect: false}, tune, time.Now())
	if p.ConsecutiveCorrect != 0 || p.ConsecutiveWrong != 1 {
		t.Fatalf("after wrong: streaks = (%d, %d), want (0, 1)", p.ConsecutiveCorrect, p.ConsecutiveWrong)
	}
}

func TestApplyAttemptHintsReduceGain(t *testing.T) {
	tune := testTune()
	noHints := ApplyAttempt(freshProgress(), AttemptInput{IsCorrect: true}, tune, time.Now())
	withHints := ApplyAttempt(freshProgress(), AttemptInput{IsCorrect: true, HintsUsed: 2}, tune, time.Now())

	if withHints.Mastery >= noHints.Mastery {
		t.Fatalf("mastery with hints %f should be below %f", withHints.Mastery, noHints.Mastery)
	}
	if withHints.Mastery <= 0 {
		t.Errorf("hints should reduce but not eliminate the gain, got %f", withHints.Mastery)
	}
}

func TestApplyAttemptGainShrinksNearOne(t *testing.T) {
	tune := testTune()
	low := freshProgress()
	low.Mastery = 0.1
	high := freshProgress()
	high.Mastery = 0.8

	lowAfter := ApplyAttempt(low, AttemptInput{IsCorrect: true}, tune, time.Now())
	highAfter := ApplyAttempt(high, AttemptInput{IsCorrect: true}, tune, time.Now())

	if lowAfter.Mastery-0.1 <= highAfter.Mastery-0.8 {
		t.Fatalf("gain at 0.1 (%f) should exceed gain at 0.8 (%f)",
			lowAfter.Mastery-0.1, highAfter.Mastery-0.8)
	}
}

func TestApplyAttemptMasteredIsTerminal(t *testing.T) {
	tune := testTune()
	p := freshProgress()
	p.Status = model.ProgressInProgress
	p.Mastery = 0.89

	p = ApplyAttempt(p, AttemptInput{IsCorrect: true}, tune, time.Now())
	if p.Status != model.ProgressMastered {
		t.Fatalf("Status = %s, want mastered after crossing threshold", p.Status)
	}
	if p.MasteredAt == nil {
		t.Fatal("MasteredAt should be set on transition")
	}
	masteredAt := *p.MasteredAt

	// 掌握后连错也不会被降级为 needs_review
	for i := 0; i < 5; i++ {
		p = ApplyAttempt(p, AttemptInput{IsCorrect: false}, tune, time.Now())
	}
	if p.Status != model.ProgressMastered {
		t.Fatalf("mastered must survive wrong streaks, got %s", p.Status)
	}
	if p.MasteredAt == nil || !p.MasteredAt.Equal(masteredAt) {
		t.Error("MasteredAt must not change after the transition")
	}
}

func TestApplyAttemptNeedsReviewAfterWrongStreak(t *testing.T) {
	tune := testTune()
	p := freshProgress()
	p.Status = model.ProgressInProgress
	p.Mastery = 0.5

	for i := 0; i < tune.ReviewWrongStreak; i++ {
		p = ApplyAttempt(p, AttemptInput{IsCorrect: false}, tune, time.Now())
	}
	if p.Status != model.ProgressNeedsReview {
		t.Fatalf("Status = %s, want needs_review after %d wrong", p.Status, tune.ReviewWrongStreak)
	}
}

func TestApplyAttemptDifficultyAdjustsAndClamps(t *testing.T) {
	tune := testTune()
	p := freshProgress()
	p.Status = model.ProgressInProgress

	// 连对升档
	for i := 0; i < tune.LevelUpStreak; i++ {
		p = ApplyAttempt(p, AttemptInput{IsCorrect: true}, tune, time.Now())
	}
	if p.CurrentDifficulty != 2 {
		t.Fatalf("difficulty = %d, want 2 after a level-up streak", p.CurrentDifficulty)
	}

	// 上限夹紧
	p.CurrentDifficulty = tune.MaxDifficulty
	p.ConsecutiveCorrect = tune.LevelUpStreak - 1
	p = ApplyAttempt(p, AttemptInput{IsCorrect: true}, tune, time.Now())
	if p.CurrentDifficulty != tune.MaxDifficulty {
		t.Fatalf("difficulty = %d, must not exceed %d", p.CurrentDifficulty, tune.MaxDifficulty)
	}

	// 连错降档，且不低于下限
	p.CurrentDifficulty = 1
	p.ConsecutiveWrong = 0
	p.Mastery = 0.5
	for i := 0; i < tune.LevelDownStreak; i++ {
		p = ApplyAttempt(p, AttemptInput{IsCorrect: false}, tune, time.Now())
	}
	if p.CurrentDifficulty != tune.MinDifficulty {
		t.Fatalf("difficulty = %d, must not drop below %d", p.CurrentDifficulty, tune.MinDifficulty)
	}
}

func TestApplyAttemptMasteryStaysInRange(t *testing.T) {
	tune := testTune()
	p := freshProgress()
	p.Mastery = 0.05
	p.Status = model.ProgressInProgress

	for i := 0; i < 10; i++ {
		p = ApplyAttempt(p, AttemptInput{IsCorrect: false, Graded: true, MasteryImpact: -1}, tune, time.Now())
		if p.Mastery < 0 || p.Mastery > 1 {
			t.Fatalf("mastery %f out of [0,1]", p.Mastery)
		}
	}
	if p.Mastery != 0 {
		t.Errorf("mastery = %f, want clamped to 0", p.Mastery)
	}
}

func TestJudgedCorrectWithPartialCredit(t *testing.T) {
	tune := testTune()

	cases := []struct {
		in   AttemptInput
		want bool
	}{
		{AttemptInput{IsCorrect: true}, true},
		{AttemptInput{Graded: true, PartialCredit: 0.7}, true},
		{AttemptInput{Graded: true, PartialCredit: 0.69}, false},
		{AttemptInput{Graded: false, PartialCredit: 0.9}, false},
	}
	for i, c := range cases {
		if got := c.in.JudgedCorrect(tune); got != c.want {
			t.Errorf("case %d: JudgedCorrect = %v, want %v", i, got, c.want)
		}
	}
}

func TestApplyAttemptDeterministic(t *testing.T) {
	tune := testTune()
	now := time.Now()
	in := AttemptInput{IsCorrect: true, TimeSeconds: 45, HintsUsed: 1}

	a := ApplyAttempt(freshProgress(), in, tune, now)
	b := ApplyAttempt(freshProgress(), in, tune, now)
	if a != b {
		t.Fatalf("same input produced different results:\n%+v\n%+v", a, b)
	}
}

// 模拟提交路径的行锁串行化：并发提交在互斥下逐个套用，计数不丢失
func TestApplyAttemptSerializedNoLostUpdate(t *testing.T) {
	tune := testTune()
	now := time.Now()
	p := freshProgress()

	const workers = 8
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		correct := i%2 == 0
		go func(correct bool) {
			defer wg.Done()
			mu.Lock()
			p = ApplyAttempt(p, AttemptInput{IsCorrect: correct, TimeSeconds: 10}, tune, now)
			mu.Unlock()
		}(correct)
	}
	wg.Wait()

	if p.TotalAttempts != workers {
		t.Fatalf("TotalAttempts = %d, want %d", p.TotalAttempts, workers)
	}
	if p.CorrectAttempts != workers/2 {
		t.Errorf("CorrectAttempts = %d, want %d", p.CorrectAttempts, workers/2)
	}
	if p.TotalTimeSeconds != workers*10 {
		t.Errorf("TotalTimeSeconds = %d, want %d", p.TotalTimeSeconds, workers*10)
	}
}

func TestResetProgress(t *testing.T) {
	now := time.Now()
	p := freshProgress()
	p.Status = model.ProgressMastered
	p.Mastery = 0.95
	p.MasteredAt = &now
	p.ConsecutiveCorrect = 4

	r := ResetProgress(p)
	if r.Status != model.ProgressInProgress {
		t.Errorf("Status = %s, want in_progress", r.Status)
	}
	if r.MasteredAt != nil {
		t.Error("MasteredAt should be cleared")
	}
	if r.ConsecutiveCorrect != 0 || r.ConsecutiveWrong != 0 {
		t.Error("streaks should be cleared")
	}
	if r.Mastery != 0.95 {
		t.Errorf("mastery should be preserved, got %f", r.Mastery)
	}
}
