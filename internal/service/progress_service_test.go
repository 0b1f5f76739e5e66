package service

import "testing"

func TestAnswersMatch(t *testing.T) {
	cases := []struct {
		expected, actual string
		want             bool
	}{
		{"3/4", "3/4", true},
		{"3/4", " 3/4 ", true},
		{"X + 2", "x + 2", true},
		{"12  cm", "12 cm", true},
		{"3/4", "6/8", false},
		{"42", "", false},
	}
	for _, c := range cases {
		if got := answersMatch(c.expected, c.actual); got != c.want {
			t.Errorf("answersMatch(%q, %q) = %v, want %v", c.expected, c.actual, got, c.want)
		}
	}
}

func TestXPForAttempt(t *testing.T) {
	if got := xpForAttempt(3, true, 0); got != 30 {
		t.Errorf("difficulty 3 no hints = %d, want 30", got)
	}
	if got := xpForAttempt(3, true, 2); got != 26 {
		t.Errorf("difficulty 3 with 2 hints = %d, want 26", got)
	}
	// 提示扣分有下限，答对至少得5分
	if got := xpForAttempt(1, true, 5); got != 5 {
		t.Errorf("heavily hinted correct = %d, want floor 5", got)
	}
	if got := xpForAttempt(5, false, 0); got != 2 {
		t.Errorf("incorrect = %d, want participation 2", got)
	}
}

func TestAttemptResultLabel(t *testing.T) {
	if got := attemptResultLabel(true, true); got != "correct" {
		t.Errorf("got %q, want correct", got)
	}
	if got := attemptResultLabel(false, true); got != "incorrect" {
		t.Errorf("got %q, want incorrect", got)
	}
	if got := attemptResultLabel(true, false); got != "ungraded" {
		t.Errorf("got %q, want ungraded", got)
	}
}
