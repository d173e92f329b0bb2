package domain

import (
	"errors"
	"testing"
)

func TestGradeDelta(t *testing.T) {
	t.Parallel()

	cases := []struct {
		grade Grade
		delta int
	}{
		{GradeEasy, 1},
		{GradeMedium, 0},
		{GradeHard, -1},
		{GradeFail, -2},
	}

	for _, tc := range cases {
		if got := tc.grade.Delta(); got != tc.delta {
			t.Errorf("Delta(%s) = %d, want %d", tc.grade, got, tc.delta)
		}
	}
}

func TestParseGrade(t *testing.T) {
	t.Parallel()

	valid := map[string]Grade{
		"easy":   GradeEasy,
		"MEDIUM": GradeMedium,
		" hard ": GradeHard,
		"Fail":   GradeFail,
	}

	for input, want := range valid {
		got, err := ParseGrade(input)
		if err != nil {
			t.Errorf("ParseGrade(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseGrade(%q) = %s, want %s", input, got, want)
		}
	}

	for _, input := range []string{"", "ease", "good", "again", "1"} {
		_, err := ParseGrade(input)
		if !errors.Is(err, ErrInvalidGrade) {
			t.Errorf("ParseGrade(%q) error = %v, want ErrInvalidGrade", input, err)
		}
	}
}

func TestGradeValid(t *testing.T) {
	t.Parallel()

	for _, g := range []Grade{GradeEasy, GradeMedium, GradeHard, GradeFail} {
		if !g.Valid() {
			t.Errorf("expected %s to be valid", g)
		}
	}

	if Grade("ok").Valid() {
		t.Error("expected unknown grade to be invalid")
	}
}
