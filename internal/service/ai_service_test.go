package service

import "testing"

func TestParseEvaluationPlainJSON(t *testing.T) {
	raw := `{"isCorrect": true, "partialCredit": 1, "errorType": "none",
		"feedback": {"encouraging": "太棒了", "nextStep": "试试更难的题"},
		"conceptMasteryImpact": 0.3}`

	result, err := parseEvaluation(raw)
	if err != nil {
		t.Fatalf("parseEvaluation error: %v", err)
	}
	if !result.IsCorrect {
		t.Error("IsCorrect = false, want true")
	}
	if result.Feedback.Encouraging != "太棒了" {
		t.Errorf("Feedback.Encouraging = %q", result.Feedback.Encouraging)
	}
	if result.ConceptMasteryImpact != 0.3 {
		t.Errorf("ConceptMasteryImpact = %f, want 0.3", result.ConceptMasteryImpact)
	}
}

func TestParseEvaluationStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"isCorrect\": false, \"partialCredit\": 0.5, \"errorType\": \"calculation\", \"feedback\": {\"encouraging\": \"思路是对的\", \"corrective\": \"注意进位\", \"nextStep\": \"再练一题\"}, \"conceptMasteryImpact\": -0.2}\n```"

	result, err := parseEvaluation(raw)
	if err != nil {
		t.Fatalf("parseEvaluation error: %v", err)
	}
	if result.IsCorrect {
		t.Error("IsCorrect = true, want false")
	}
	if result.PartialCredit != 0.5 {
		t.Errorf("PartialCredit = %f, want 0.5", result.PartialCredit)
	}
	if result.ErrorType != "calculation" {
		t.Errorf("ErrorType = %q, want calculation", result.ErrorType)
	}
}

func TestParseEvaluationClampsRanges(t *testing.T) {
	raw := `{"isCorrect": false, "partialCredit": 1.8, "conceptMasteryImpact": -2.5,
		"feedback": {"encouraging": "加油", "nextStep": "复习一下"}}`

	result, err := parseEvaluation(raw)
	if err != nil {
		t.Fatalf("parseEvaluation error: %v", err)
	}
	if result.PartialCredit != 1 {
		t.Errorf("PartialCredit = %f, want clamped to 1", result.PartialCredit)
	}
	if result.ConceptMasteryImpact != -1 {
		t.Errorf("ConceptMasteryImpact = %f, want clamped to -1", result.ConceptMasteryImpact)
	}
}

func TestParseEvaluationMalformed(t *testing.T) {
	if _, err := parseEvaluation("这不是JSON"); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
	if _, err := parseEvaluation("```json\n{broken\n```"); err == nil {
		t.Fatal("expected error for broken JSON inside fences")
	}
}
