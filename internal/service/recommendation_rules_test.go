package service

import (
	"mathpath_backend/internal/model"
	"testing"
)

func testConcept() model.Concept {
	c := model.Concept{
		Name:   "分数加法",
		Domain: model.DomainNumber,
		Grade:  3,
	}
	c.ID = "c-frac-add"
	return c
}

func TestRecommendPrerequisiteGapWinsOverEverything(t *testing.T) {
	tune := testTune()
	// 连对已达升档阈值，但前置薄弱，必须优先补前置
	progress := model.ConceptProgress{
		Status:             model.ProgressInProgress,
		CurrentDifficulty:  2,
		ConsecutiveCorrect: tune.LevelUpStreak,
	}
	prereqs := []model.ConceptPrerequisite{
		{ConceptID: "c-frac-add", PrerequisiteID: "c-frac-concept", Importance: 0.9},
		{ConceptID: "c-frac-add", PrerequisiteID: "c-add", Importance: 0.5},
	}
	prereqProgress := map[string]model.ConceptProgress{
		"c-frac-concept": {Mastery: 0.2},
		"c-add":          {Mastery: 0.5},
	}

	rec := Recommend(testConcept(), progress, prereqs, prereqProgress, tune)
	if rec.Type != RecPrerequisite {
		t.Fatalf("Type = %s, want PREREQUISITE", rec.Type)
	}
	if rec.NextConceptID != "c-frac-concept" {
		t.Errorf("NextConceptID = %s, want weakest prerequisite c-frac-concept", rec.NextConceptID)
	}
	if rec.NextDifficulty != tune.MinDifficulty {
		t.Errorf("NextDifficulty = %d, want %d", rec.NextDifficulty, tune.MinDifficulty)
	}
}

func TestRecommendStrongPrereqsDoNotTrigger(t *testing.T) {
	tune := testTune()
	progress := model.ConceptProgress{Status: model.ProgressInProgress, CurrentDifficulty: 2}
	prereqs := []model.ConceptPrerequisite{
		{ConceptID: "c-frac-add", PrerequisiteID: "c-add", Importance: 0.8},
	}
	prereqProgress := map[string]model.ConceptProgress{
		"c-add": {Mastery: 0.9},
	}

	rec := Recommend(testConcept(), progress, prereqs, prereqProgress, tune)
	if rec.Type != RecContinue {
		t.Fatalf("Type = %s, want CONTINUE with strong prerequisites", rec.Type)
	}
}

func TestRecommendMastered(t *testing.T) {
	progress := model.ConceptProgress{Status: model.ProgressMastered, CurrentDifficulty: 3}
	rec := Recommend(testConcept(), progress, nil, nil, testTune())
	if rec.Type != RecMastered {
		t.Fatalf("Type = %s, want MASTERED", rec.Type)
	}
}

func TestRecommendLevelDownBeforeLevelUp(t *testing.T) {
	tune := testTune()
	progress := model.ConceptProgress{
		Status:            model.ProgressInProgress,
		CurrentDifficulty: 3,
		ConsecutiveWrong:  tune.LevelDownStreak,
	}
	rec := Recommend(testConcept(), progress, nil, nil, tune)
	if rec.Type != RecLevelDown {
		t.Fatalf("Type = %s, want LEVEL_DOWN", rec.Type)
	}
	if rec.NextDifficulty != 2 {
		t.Errorf("NextDifficulty = %d, want 2", rec.NextDifficulty)
	}
}

func TestRecommendLevelDownClampsAtMin(t *testing.T) {
	tune := testTune()
	progress := model.ConceptProgress{
		Status:            model.ProgressInProgress,
		CurrentDifficulty: tune.MinDifficulty,
		ConsecutiveWrong:  tune.LevelDownStreak,
	}
	rec := Recommend(testConcept(), progress, nil, nil, tune)
	if rec.NextDifficulty != tune.MinDifficulty {
		t.Fatalf("NextDifficulty = %d, must not drop below %d", rec.NextDifficulty, tune.MinDifficulty)
	}
}

func TestRecommendLevelUp(t *testing.T) {
	tune := testTune()
	progress := model.ConceptProgress{
		Status:             model.ProgressInProgress,
		CurrentDifficulty:  2,
		ConsecutiveCorrect: tune.LevelUpStreak,
	}
	rec := Recommend(testConcept(), progress, nil, nil, tune)
	if rec.Type != RecLevelUp {
		t.Fatalf("Type = %s, want LEVEL_UP", rec.Type)
	}
	if rec.NextDifficulty != 3 {
		t.Errorf("NextDifficulty = %d, want 3", rec.NextDifficulty)
	}
}

func TestRecommendLevelUpClampsAtMax(t *testing.T) {
	tune := testTune()
	progress := model.ConceptProgress{
		Status:             model.ProgressInProgress,
		CurrentDifficulty:  tune.MaxDifficulty,
		ConsecutiveCorrect: tune.LevelUpStreak,
	}
	rec := Recommend(testConcept(), progress, nil, nil, tune)
	if rec.NextDifficulty != tune.MaxDifficulty {
		t.Fatalf("NextDifficulty = %d, must not exceed %d", rec.NextDifficulty, tune.MaxDifficulty)
	}
}

func TestRecommendContinueByDefault(t *testing.T) {
	progress := model.ConceptProgress{Status: model.ProgressInProgress, CurrentDifficulty: 2}
	rec := Recommend(testConcept(), progress, nil, nil, testTune())
	if rec.Type != RecContinue {
		t.Fatalf("Type = %s, want CONTINUE", rec.Type)
	}
	if rec.NextDifficulty != 2 {
		t.Errorf("NextDifficulty = %d, want current difficulty 2", rec.NextDifficulty)
	}
}

func TestWeakestPrerequisiteTieBreaksOnID(t *testing.T) {
	tune := testTune()
	prereqs := []model.ConceptPrerequisite{
		{PrerequisiteID: "c-b", Importance: 0.5},
		{PrerequisiteID: "c-a", Importance: 0.5},
	}
	prereqProgress := map[string]model.ConceptProgress{
		"c-a": {Mastery: 0.3},
		"c-b": {Mastery: 0.3},
	}
	if got := weakestPrerequisite(prereqs, prereqProgress, tune); got != "c-a" {
		t.Fatalf("weakestPrerequisite = %s, want c-a (lower ID wins ties)", got)
	}
}
